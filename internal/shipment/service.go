package shipment

import (
	"context"
	"time"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, orderID uuid.UUID, input CreateShipmentInput) (*Shipment, error)
	UpdateStatus(ctx context.Context, shipmentID uuid.UUID, status string) (*Shipment, error)
	MarkDelivered(ctx context.Context, shipmentID uuid.UUID) (*Shipment, error)
	GetForOrder(ctx context.Context, orderID uuid.UUID) (*Shipment, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// Create attaches the shipment to a production-complete order and moves
// the order to Shipped. shipped_at is fixed at creation and never
// changes.
func (s *service) Create(
	ctx context.Context,
	orderID uuid.UUID,
	input CreateShipmentInput,
) (*Shipment, error) {

	if input.Carrier == "" || input.TrackingNumber == "" {
		return nil, ErrMissingCarrier
	}

	sh := &Shipment{
		ID:      uuid.New(),
		OrderID: orderID,

		Carrier:        input.Carrier,
		TrackingNumber: input.TrackingNumber,
		LabelURL:       input.LabelURL,

		Status:    initialStatus,
		WeightKg:  input.WeightKg,
		ShippedAt: s.now(),
	}

	if err := s.repo.CreateTx(ctx, sh); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("shipment created",
		zap.String("shipment_id", sh.ID.String()),
		zap.String("order_id", orderID.String()),
		zap.String("carrier", sh.Carrier),
	)
	return sh, nil
}

func (s *service) UpdateStatus(
	ctx context.Context,
	shipmentID uuid.UUID,
	status string,
) (*Shipment, error) {

	if status == "" {
		return nil, ErrEmptyStatus
	}
	return s.repo.UpdateStatus(ctx, shipmentID, status)
}

func (s *service) MarkDelivered(ctx context.Context, shipmentID uuid.UUID) (*Shipment, error) {
	sh, err := s.repo.MarkDeliveredTx(ctx, shipmentID, s.now())
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("shipment delivered",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("order_id", sh.OrderID.String()),
	)
	return sh, nil
}

func (s *service) GetForOrder(ctx context.Context, orderID uuid.UUID) (*Shipment, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}
