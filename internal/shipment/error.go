package shipment

import "errors"

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrAlreadyShipped   = errors.New("order already has a shipment")
	ErrAlreadyDelivered = errors.New("shipment already delivered")
	ErrMissingCarrier   = errors.New("carrier and tracking number are required")
	ErrEmptyStatus      = errors.New("status is required")
)
