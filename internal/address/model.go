package address

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBilling  Type = "billing"
	TypeShipping Type = "shipping"
)

func (t Type) Valid() bool {
	return t == TypeBilling || t == TypeShipping
}

type Address struct {
	ID     uuid.UUID
	UserID uint

	CompanyName   string
	RecipientName string
	PhoneNumber   string

	Street         string
	ApartmentSuite string
	City           string
	State          string
	ZipCode        string
	Country        string

	Type      Type
	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateAddressInput struct {
	CompanyName    string
	RecipientName  string
	PhoneNumber    string
	Street         string
	ApartmentSuite string
	City           string
	State          string
	ZipCode        string
	Country        string
	Type           Type
	SetAsDefault   bool
}
