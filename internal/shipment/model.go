package shipment

import (
	"time"

	"github.com/google/uuid"
)

// Shipment is one-to-one with an order. Its status is free-form carrier
// narration; the only machine-relevant state is whether delivered_at has
// been set, after which the record is immutable.
type Shipment struct {
	ID      uuid.UUID
	OrderID uuid.UUID

	Carrier        string
	TrackingNumber string
	LabelURL       string

	Status   string
	WeightKg float64

	ShippedAt   time.Time
	DeliveredAt *time.Time
}

const initialStatus = "Label Created"

func (s *Shipment) Delivered() bool {
	return s.DeliveredAt != nil
}

type CreateShipmentInput struct {
	Carrier        string
	TrackingNumber string
	LabelURL       string
	WeightKg       float64
}
