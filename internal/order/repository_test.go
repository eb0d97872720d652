package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Ayush3323/printingbackend/internal/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *Order {
	productID := uuid.New()
	orderID := uuid.New()
	return &Order{
		ID:       orderID,
		UserID:   1,
		Status:   StatusPending,
		Currency: "USD",
		Subtotal: 3000, TotalAmount: 3000,
		CreatedAt: time.Now(),
		Items: []OrderItem{{
			ID:                  uuid.New(),
			OrderID:             orderID,
			ProductID:           &productID,
			Quantity:            2,
			UnitPrice:           1500,
			TotalPrice:          3000,
			ProductNameSnapshot: "Ceramic Mug 11oz",
			SKUSnapshot:         "MUG-11OZ",
			RenderStatus:        RenderPending,
		}},
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products`).
			WithArgs(2, *o.Items[0].ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.CreateOrderTx(ctx, o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OutOfStock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT is_infinite_stock FROM products`).
			WillReturnRows(sqlmock.NewRows([]string{"is_infinite_stock"}).AddRow(false))
		mock.ExpectRollback()

		err = repo.CreateOrderTx(ctx, o)
		assert.ErrorIs(t, err, catalog.ErrOutOfStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InfiniteStockUnaffectedByZeroRows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT is_infinite_stock FROM products`).
			WillReturnRows(sqlmock.NewRows([]string{"is_infinite_stock"}).AddRow(true))
		mock.ExpectCommit()

		assert.NoError(t, repo.CreateOrderTx(ctx, o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoStockCheckForDesignOnlyItems", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		o := testOrder()
		o.Items[0].ProductID = nil

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.CreateOrderTx(ctx, o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusProcessing, orderID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, orderID, StatusPending, StatusProcessing))
	})

	t.Run("StaleStatus", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		// Someone else moved the order first; the compare-and-swap
		// matches nothing.
		mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateStatus(ctx, orderID, StatusPending, StatusProcessing)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestRepository_UpdateItemRender(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()

	t.Run("Applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE order_items`).
			WithArgs(RenderCompleted, "https://cdn.example.com/f.pdf", itemID, RenderProcessing).
			WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := repo.UpdateItemRender(ctx, itemID, RenderProcessing, RenderCompleted, "https://cdn.example.com/f.pdf")
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("LostRace", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE order_items`).WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := repo.UpdateItemRender(ctx, itemID, RenderPending, RenderProcessing, "")
		require.NoError(t, err)
		assert.False(t, applied)
	})
}

func TestRepository_ApplyRefund(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(StatusRefunded, int64(2500), "refund damaged", orderID, StatusProcessing).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.ApplyRefund(ctx, orderID, StatusProcessing, 2500, "refund damaged"))
	})

	t.Run("StaleStatus", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`UPDATE orders`).WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.ApplyRefund(ctx, orderID, StatusProcessing, 2500, "refund damaged")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestRepository_MarkPaid(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	paidAt := time.Now()

	orderColumns := []string{
		"id", "user_id", "status", "currency",
		"subtotal", "tax_total", "shipping_total", "discount_total", "total_amount", "refund_total",
		"payment_method", "transaction_id", "is_paid", "paid_at",
		"shipping_address_id", "billing_address_id",
		"estimated_delivery_date", "customer_notes", "internal_notes",
		"created_at", "updated_at",
	}
	itemColumns := []string{
		"id", "order_id", "product_id", "design_id",
		"quantity", "unit_price", "total_price",
		"product_name_snapshot", "sku_snapshot", "frozen_canvas_state",
		"print_file_url", "render_status",
	}

	t.Run("FirstPayment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status, is_paid FROM orders`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"status", "is_paid"}).AddRow(StatusPending, false))
		mock.ExpectExec(`UPDATE orders`).
			WithArgs(paidAt, "card", "tx-1", StatusProcessing, orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT(.|\s)*FROM orders`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
				orderID, 1, StatusProcessing, "USD",
				3000, 0, 0, 0, 3000, 0,
				"card", "tx-1", true, paidAt,
				nil, nil,
				nil, "", "",
				paidAt, paidAt,
			))
		mock.ExpectQuery(`SELECT(.|\s)*FROM order_items`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows(itemColumns))

		o, err := repo.MarkPaid(ctx, orderID, "card", "tx-1", paidAt)
		require.NoError(t, err)
		assert.True(t, o.IsPaid)
		assert.Equal(t, StatusProcessing, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedundantConfirmationNoUpdate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status, is_paid FROM orders`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"status", "is_paid"}).AddRow(StatusProcessing, true))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT(.|\s)*FROM orders`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(
				orderID, 1, StatusProcessing, "USD",
				3000, 0, 0, 0, 3000, 0,
				"card", "tx-1", true, paidAt,
				nil, nil,
				nil, "", "",
				paidAt, paidAt,
			))
		mock.ExpectQuery(`SELECT(.|\s)*FROM order_items`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows(itemColumns))

		o, err := repo.MarkPaid(ctx, orderID, "card", "tx-dup", paidAt)
		require.NoError(t, err)
		assert.Equal(t, "tx-1", o.TransactionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status, is_paid FROM orders`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = repo.MarkPaid(ctx, orderID, "card", "tx-1", paidAt)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
