package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Order is a financial record: created atomically with its items at
// checkout, mutated only by status transitions, payment and refund
// events, never deleted.
//
// All money amounts are in minor units (cents) and
// TotalAmount = Subtotal + TaxTotal + ShippingTotal - DiscountTotal.
type Order struct {
	ID     uuid.UUID
	UserID uint
	Status Status

	Currency      string
	Subtotal      int64
	TaxTotal      int64
	ShippingTotal int64
	DiscountTotal int64
	TotalAmount   int64
	RefundTotal   int64

	PaymentMethod string
	TransactionID string
	IsPaid        bool
	PaidAt        *time.Time

	// Address references, not copies: the rows may be deleted later and
	// the order keeps a nullable pointer.
	ShippingAddressID *uuid.UUID
	BillingAddressID  *uuid.UUID

	EstimatedDeliveryDate *time.Time
	CustomerNotes         string
	InternalNotes         string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem
}

// OrderItem is immutable after creation except for render progress.
// The snapshot fields are the permanent source of truth for production:
// they are copied from the live product and design at checkout and never
// refreshed, even if the sources are renamed or deleted.
type OrderItem struct {
	ID      uuid.UUID
	OrderID uuid.UUID

	ProductID *uuid.UUID
	DesignID  *uuid.UUID

	Quantity   int
	UnitPrice  int64
	TotalPrice int64

	ProductNameSnapshot string
	SKUSnapshot         string
	FrozenCanvasState   json.RawMessage

	PrintFileURL string
	RenderStatus RenderStatus
}

// RenderStatus tracks conversion of the frozen canvas state into a
// print-ready file.
type RenderStatus string

const (
	RenderPending    RenderStatus = "pending"
	RenderProcessing RenderStatus = "processing"
	RenderCompleted  RenderStatus = "completed"
	RenderFailed     RenderStatus = "failed"
)

var renderRank = map[RenderStatus]int{
	RenderPending:    0,
	RenderProcessing: 1,
	RenderCompleted:  2,
	RenderFailed:     2,
}

// ApplyRender reports whether a render callback should be applied.
// Callbacks are at-least-once, so anything that does not move the status
// forward is a no-op rather than an error.
func ApplyRender(current, next RenderStatus) bool {
	cr, ok := renderRank[current]
	if !ok {
		cr = 0
	}
	nr, ok := renderRank[next]
	if !ok {
		return false
	}
	return nr > cr
}
