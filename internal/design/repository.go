package design

import (
	"context"
	"database/sql"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SavedDesign, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*SavedDesign, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Design"),
		zap.String("method", "GetByID"),
		zap.String("design_id", id.String()),
	)

	const q = `
		SELECT id, user_id, product_id, name, canvas_json, version, created_at, updated_at
		FROM saved_designs
		WHERE id = $1
		LIMIT 1
	`

	var d SavedDesign
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.UserID, &d.ProductID,
		&d.Name, &d.CanvasJSON, &d.Version,
		&d.CreatedAt, &d.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrDesignNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}

	return &d, nil
}
