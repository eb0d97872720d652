package catalog

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType is a closed enum; the pricing branch switches over it
// exhaustively.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// All money amounts are in minor units (cents).
type Product struct {
	ID   uuid.UUID
	SKU  string
	Name string
	Slug string

	BasePrice int64

	DiscountType  DiscountType
	DiscountValue int64
	DiscountStart *time.Time
	DiscountEnd   *time.Time
	IsOnSale      bool

	StockQuantity   int
	IsInfiniteStock bool

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttributeValue is a selectable option of a product attribute
// (size, material, finish). Its price adjustment is added on top of
// the resolved unit price.
type AttributeValue struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	AttributeName   string
	Value           string
	DisplayValue    string
	PriceAdjustment int64
	IsDefault       bool
}
