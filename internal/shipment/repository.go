package shipment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ayush3323/printingbackend/internal/logger"
	"github.com/Ayush3323/printingbackend/internal/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateTx inserts the shipment and flips the order to Shipped in
	// the same transaction. The unique order_id constraint backs the
	// one-shipment-per-order rule even under concurrent calls.
	CreateTx(ctx context.Context, sh *Shipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Shipment, error)
	MarkDeliveredTx(ctx context.Context, id uuid.UUID, at time.Time) (*Shipment, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const uniqueViolation = "23505"

func (r *repository) CreateTx(ctx context.Context, sh *Shipment) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Shipment"),
		zap.String("method", "CreateTx"),
		zap.String("order_id", sh.OrderID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status order.Status
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, sh.OrderID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return order.ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	// A shipment attaches only when production is complete.
	if _, err := status.Transition(order.StatusShipped); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shipments (
			id, order_id, carrier, tracking_number, label_url,
			status, weight_kg, shipped_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		sh.ID, sh.OrderID, sh.Carrier, sh.TrackingNumber, sh.LabelURL,
		sh.Status, sh.WeightKg, sh.ShippedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return ErrAlreadyShipped
		}
		log.Error("insert failed", zap.Error(err))
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		order.StatusShipped, sh.OrderID,
	)
	if err != nil {
		log.Error("order status update failed", zap.Error(err))
		return err
	}

	return tx.Commit()
}

const shipmentColumns = `
	id, order_id, carrier, tracking_number, label_url,
	status, weight_kg, shipped_at, delivered_at
`

func scanShipment(row interface{ Scan(...any) error }) (*Shipment, error) {
	var sh Shipment
	err := row.Scan(
		&sh.ID, &sh.OrderID, &sh.Carrier, &sh.TrackingNumber, &sh.LabelURL,
		&sh.Status, &sh.WeightKg, &sh.ShippedAt, &sh.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Shipment, error) {
	const q = `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1 LIMIT 1`

	sh, err := scanShipment(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error) {
	const q = `SELECT ` + shipmentColumns + ` FROM shipments WHERE order_id = $1 LIMIT 1`

	sh, err := scanShipment(r.db.QueryRowContext(ctx, q, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// UpdateStatus appends carrier narration. Delivered shipments are
// immutable, the conditional update leaves them untouched.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Shipment, error) {
	const q = `
		UPDATE shipments
		SET status = $1
		WHERE id = $2 AND delivered_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		sh, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: shipment %s", ErrAlreadyDelivered, sh.ID)
	}

	return r.GetByID(ctx, id)
}

func (r *repository) MarkDeliveredTx(ctx context.Context, id uuid.UUID, at time.Time) (*Shipment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Shipment"),
		zap.String("method", "MarkDeliveredTx"),
		zap.String("shipment_id", id.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		orderID     uuid.UUID
		deliveredAt *time.Time
	)
	err = tx.QueryRowContext(ctx,
		`SELECT order_id, delivered_at FROM shipments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&orderID, &deliveredAt)
	if err == sql.ErrNoRows {
		return nil, ErrShipmentNotFound
	}
	if err != nil {
		return nil, err
	}

	if deliveredAt != nil {
		return nil, ErrAlreadyDelivered
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE shipments SET status = 'Delivered', delivered_at = $1 WHERE id = $2`,
		at, id,
	)
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		order.StatusDelivered, orderID, order.StatusShipped,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: order %s is not shipped", order.ErrInvalidTransition, orderID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
