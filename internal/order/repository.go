package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ayush3323/printingbackend/internal/catalog"
	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	MarkPaid(ctx context.Context, id uuid.UUID, method, transactionID string, paidAt time.Time) (*Order, error)
	ApplyRefund(ctx context.Context, id uuid.UUID, from Status, amount int64, note string) error
	GetItem(ctx context.Context, itemID uuid.UUID) (*OrderItem, error)
	UpdateItemRender(ctx context.Context, itemID uuid.UUID, from, to RenderStatus, printFileURL string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx persists the order, its items and the stock decrements in
// one transaction. A partial write is never observable: any failure,
// including losing a stock race, rolls the whole checkout back.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, currency,
			subtotal, tax_total, shipping_total, discount_total, total_amount,
			shipping_address_id, billing_address_id,
			customer_notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	`,
		o.ID, o.UserID, o.Status, o.Currency,
		o.Subtotal, o.TaxTotal, o.ShippingTotal, o.DiscountTotal, o.TotalAmount,
		o.ShippingAddressID, o.BillingAddressID,
		o.CustomerNotes, o.CreatedAt,
	)
	if err != nil {
		log.Error("insert order failed", zap.Error(err))
		return err
	}

	// 2. Insert items + deduct stock
	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, design_id,
				quantity, unit_price, total_price,
				product_name_snapshot, sku_snapshot, frozen_canvas_state,
				render_status
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			item.ID, o.ID, item.ProductID, item.DesignID,
			item.Quantity, item.UnitPrice, item.TotalPrice,
			item.ProductNameSnapshot, item.SKUSnapshot, nullableJSON(item.FrozenCanvasState),
			item.RenderStatus,
		)
		if err != nil {
			log.Error("insert item failed", zap.Error(err))
			return err
		}

		if item.ProductID == nil {
			continue
		}

		// Conditional decrement: the losing side of a concurrent checkout
		// matches zero rows and the whole order rolls back.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1
			WHERE id = $2
			  AND is_infinite_stock = false
			  AND stock_quantity >= $1
		`, item.Quantity, *item.ProductID)
		if err != nil {
			log.Error("stock decrement failed", zap.Error(err))
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			var infinite bool
			err := tx.QueryRowContext(ctx,
				`SELECT is_infinite_stock FROM products WHERE id = $1`,
				*item.ProductID,
			).Scan(&infinite)
			if err == sql.ErrNoRows || (err == nil && !infinite) {
				return fmt.Errorf("%w: %s", catalog.ErrOutOfStock, item.SKUSnapshot)
			}
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "GetByID"),
		zap.String("order_id", id.String()),
	)

	const q = `
		SELECT
			id, user_id, status, currency,
			subtotal, tax_total, shipping_total, discount_total, total_amount, refund_total,
			payment_method, transaction_id, is_paid, paid_at,
			shipping_address_id, billing_address_id,
			estimated_delivery_date, customer_notes, internal_notes,
			created_at, updated_at
		FROM orders
		WHERE id = $1
		LIMIT 1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.ID, &o.UserID, &o.Status, &o.Currency,
		&o.Subtotal, &o.TaxTotal, &o.ShippingTotal, &o.DiscountTotal, &o.TotalAmount, &o.RefundTotal,
		&o.PaymentMethod, &o.TransactionID, &o.IsPaid, &o.PaidAt,
		&o.ShippingAddressID, &o.BillingAddressID,
		&o.EstimatedDeliveryDate, &o.CustomerNotes, &o.InternalNotes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		log.Error("list items failed", zap.Error(err))
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repository) listItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	const q = `
		SELECT
			id, order_id, product_id, design_id,
			quantity, unit_price, total_price,
			product_name_snapshot, sku_snapshot, frozen_canvas_state,
			print_file_url, render_status
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (OrderItem, error) {
	var (
		item         OrderItem
		canvas       []byte
		printFileURL sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.DesignID,
		&item.Quantity, &item.UnitPrice, &item.TotalPrice,
		&item.ProductNameSnapshot, &item.SKUSnapshot, &canvas,
		&printFileURL, &item.RenderStatus,
	)
	if err != nil {
		return OrderItem{}, err
	}
	item.FrozenCanvasState = canvas
	item.PrintFileURL = printFileURL.String
	return item, nil
}

// UpdateStatus is a compare-and-swap on the status column; a concurrent
// transition makes the match fail and reports ErrInvalidTransition.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	const q = `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		logger.FromCtx(ctx).Error("update status failed",
			zap.String("repo", "Order"), zap.Error(err))
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", ErrInvalidTransition, id, from)
	}
	return nil
}

// MarkPaid records the payment event. Idempotent: a redundant call leaves
// the order untouched. Pending orders move to Processing in the same
// transaction.
func (r *repository) MarkPaid(
	ctx context.Context,
	id uuid.UUID,
	method, transactionID string,
	paidAt time.Time,
) (*Order, error) {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		status Status
		isPaid bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, is_paid FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&status, &isPaid)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if !isPaid {
		next := status
		if status == StatusPending {
			next = StatusProcessing
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET is_paid = true, paid_at = $1,
			    payment_method = $2, transaction_id = $3,
			    status = $4, updated_at = NOW()
			WHERE id = $5
		`, paidAt, method, transactionID, next, id)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// ApplyRefund records the refund as an explicit delta; totals are never
// re-summed from items.
func (r *repository) ApplyRefund(
	ctx context.Context,
	id uuid.UUID,
	from Status,
	amount int64,
	note string,
) error {

	const q = `
		UPDATE orders
		SET status = $1,
		    refund_total = refund_total + $2,
		    internal_notes = CASE
		        WHEN internal_notes = '' THEN $3
		        ELSE internal_notes || E'\n' || $3
		    END,
		    updated_at = NOW()
		WHERE id = $4 AND status = $5
	`

	res, err := r.db.ExecContext(ctx, q, StatusRefunded, amount, note, id, from)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", ErrInvalidTransition, id, from)
	}
	return nil
}

func (r *repository) GetItem(ctx context.Context, itemID uuid.UUID) (*OrderItem, error) {
	const q = `
		SELECT
			id, order_id, product_id, design_id,
			quantity, unit_price, total_price,
			product_name_snapshot, sku_snapshot, frozen_canvas_state,
			print_file_url, render_status
		FROM order_items
		WHERE id = $1
		LIMIT 1
	`

	item, err := scanItem(r.db.QueryRowContext(ctx, q, itemID))
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemRender advances render progress with a compare-and-swap.
// Returns false when nothing matched, which callers treat as "already
// applied".
func (r *repository) UpdateItemRender(
	ctx context.Context,
	itemID uuid.UUID,
	from, to RenderStatus,
	printFileURL string,
) (bool, error) {

	const q = `
		UPDATE order_items
		SET render_status = $1,
		    print_file_url = COALESCE(NULLIF($2, ''), print_file_url)
		WHERE id = $3 AND render_status = $4
	`

	res, err := r.db.ExecContext(ctx, q, to, printFileURL, itemID, from)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
