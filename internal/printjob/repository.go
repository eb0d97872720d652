package printjob

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateBatchTx claims the items and creates the batch in one
	// transaction. Items with an active (non-terminal) batch make the
	// whole claim fail with AlreadyBatchedError.
	CreateBatchTx(ctx context.Context, job *PrintJob) error
	GetByBatchID(ctx context.Context, batchID string) (*PrintJob, error)
	AdvanceTx(ctx context.Context, batchID string, to Status, errorLog string, at time.Time) (*PrintJob, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatchTx(ctx context.Context, job *PrintJob) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "PrintJob"),
		zap.String("method", "CreateBatchTx"),
		zap.String("batch_id", job.BatchID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Lock the target items so two operators claiming overlapping
	// sets serialize here instead of both succeeding.
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM order_items
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, pq.Array(job.ItemIDs))
	if err != nil {
		log.Error("lock items failed", zap.Error(err))
		return err
	}

	locked := make(map[uuid.UUID]bool, len(job.ItemIDs))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		locked[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range job.ItemIDs {
		if !locked[id] {
			return fmt.Errorf("order item %s not found", id)
		}
	}

	// 2. Reject items that still belong to a non-terminal batch.
	// Re-batching is allowed only after Completed or Failed (reprints).
	rows, err = tx.QueryContext(ctx, `
		SELECT DISTINCT pji.order_item_id
		FROM print_job_items pji
		JOIN print_jobs pj ON pj.id = pji.print_job_id
		WHERE pji.order_item_id = ANY($1)
		  AND pj.status NOT IN ($2, $3)
	`, pq.Array(job.ItemIDs), StatusCompleted, StatusFailed)
	if err != nil {
		log.Error("active membership check failed", zap.Error(err))
		return err
	}

	var contested []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		contested = append(contested, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(contested) > 0 {
		return &AlreadyBatchedError{ItemIDs: contested}
	}

	// 3. Create the batch and its memberships.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO print_jobs (id, batch_id, status, printer_name, error_log, created_at)
		VALUES ($1, $2, $3, $4, '', $5)
	`, job.ID, job.BatchID, job.Status, job.PrinterName, job.CreatedAt)
	if err != nil {
		log.Error("insert batch failed", zap.Error(err))
		return err
	}

	for _, itemID := range job.ItemIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO print_job_items (print_job_id, order_item_id)
			VALUES ($1, $2)
		`, job.ID, itemID)
		if err != nil {
			log.Error("insert membership failed", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByBatchID(ctx context.Context, batchID string) (*PrintJob, error) {
	const q = `
		SELECT id, batch_id, status, printer_name,
		       started_at, completed_at, error_log, created_at
		FROM print_jobs
		WHERE batch_id = $1
		LIMIT 1
	`

	var job PrintJob
	err := r.db.QueryRowContext(ctx, q, batchID).Scan(
		&job.ID, &job.BatchID, &job.Status, &job.PrinterName,
		&job.StartedAt, &job.CompletedAt, &job.ErrorLog, &job.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_item_id FROM print_job_items WHERE print_job_id = $1 ORDER BY order_item_id`,
		job.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		job.ItemIDs = append(job.ItemIDs, id)
	}
	return &job, rows.Err()
}

// AdvanceTx moves the batch along the linear chain under a row lock.
// started_at is set when the batch first leaves Queued; completed_at is
// set exactly once, on the transition into Completed.
func (r *repository) AdvanceTx(
	ctx context.Context,
	batchID string,
	to Status,
	errorLog string,
	at time.Time,
) (*PrintJob, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "PrintJob"),
		zap.String("method", "AdvanceTx"),
		zap.String("batch_id", batchID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		id      uuid.UUID
		current Status
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM print_jobs WHERE batch_id = $1 FOR UPDATE`,
		batchID,
	).Scan(&id, &current)
	if err == sql.ErrNoRows {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, err
	}

	if !current.CanAdvance(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE print_jobs
		SET status = $1,
		    error_log = CASE WHEN $2 <> '' THEN $2 ELSE error_log END,
		    started_at = CASE WHEN started_at IS NULL AND $1 <> $4 THEN $3 ELSE started_at END,
		    completed_at = CASE WHEN $1 = $5 THEN $3 ELSE completed_at END
		WHERE id = $6
	`, to, errorLog, at, StatusQueued, StatusCompleted, id)
	if err != nil {
		log.Error("advance failed", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByBatchID(ctx, batchID)
}
