package catalog

import (
	"context"
	"database/sql"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetAttributeValues(ctx context.Context, ids []uuid.UUID) ([]AttributeValue, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProduct(
	ctx context.Context,
	id uuid.UUID,
) (*Product, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Catalog"),
		zap.String("method", "GetProduct"),
		zap.String("product_id", id.String()),
	)

	const q = `
		SELECT
			id, sku, name, slug,
			base_price,
			discount_type, discount_value, discount_start, discount_end, is_on_sale,
			stock_quantity, is_infinite_stock,
			is_active, created_at, updated_at
		FROM products
		WHERE id = $1
		LIMIT 1
	`

	var (
		p            Product
		discountType sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug,
		&p.BasePrice,
		&discountType, &p.DiscountValue, &p.DiscountStart, &p.DiscountEnd, &p.IsOnSale,
		&p.StockQuantity, &p.IsInfiniteStock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}

	if discountType.Valid {
		p.DiscountType = DiscountType(discountType.String)
	}

	return &p, nil
}

func (r *repository) GetAttributeValues(
	ctx context.Context,
	ids []uuid.UUID,
) ([]AttributeValue, error) {

	// ANY($1) returns one row per distinct id, so repeated ids in the
	// request must not count twice in the existence check below.
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) == 0 {
		return nil, nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Catalog"),
		zap.String("method", "GetAttributeValues"),
	)

	const q = `
		SELECT
			av.id, a.product_id, a.name,
			av.value, av.display_value, av.price_adjustment, av.is_default
		FROM attribute_values av
		JOIN product_attributes a ON a.id = av.attribute_id
		WHERE av.id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, q, pq.Array(unique))
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []AttributeValue
	for rows.Next() {
		var av AttributeValue
		if err := rows.Scan(
			&av.ID, &av.ProductID, &av.AttributeName,
			&av.Value, &av.DisplayValue, &av.PriceAdjustment, &av.IsDefault,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, av)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(res) != len(unique) {
		return nil, ErrAttributeNotFound
	}

	return res, nil
}
