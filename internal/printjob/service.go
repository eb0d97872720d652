package printjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ayush3323/printingbackend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateBatch(ctx context.Context, itemIDs []uuid.UUID, printerName string) (*PrintJob, error)
	Advance(ctx context.Context, batchID string, to Status, errorLog string) (*PrintJob, error)
	GetBatch(ctx context.Context, batchID string) (*PrintJob, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// CreateBatch claims the given items into a new Queued batch. Claims are
// atomic per item: when two operators batch overlapping sets, exactly one
// wins each contested item and the loser sees which items were taken.
func (s *service) CreateBatch(
	ctx context.Context,
	itemIDs []uuid.UUID,
	printerName string,
) (*PrintJob, error) {

	if len(itemIDs) == 0 {
		return nil, ErrNoItems
	}

	seen := make(map[uuid.UUID]bool, len(itemIDs))
	var deduped []uuid.UUID
	for _, id := range itemIDs {
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}

	now := s.now()
	job := &PrintJob{
		ID:          uuid.New(),
		BatchID:     newBatchID(now),
		Status:      StatusQueued,
		PrinterName: printerName,
		CreatedAt:   now,
		ItemIDs:     deduped,
	}

	if err := s.repo.CreateBatchTx(ctx, job); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("print batch created",
		zap.String("batch_id", job.BatchID),
		zap.Int("items", len(job.ItemIDs)),
		zap.String("printer", printerName),
	)
	return job, nil
}

// Advance moves a batch one step along the production chain. A batch is
// failed by advancing to Failed with a non-empty error log; the system
// never re-queues a failed batch on its own, reprints need a new batch.
func (s *service) Advance(
	ctx context.Context,
	batchID string,
	to Status,
	errorLog string,
) (*PrintJob, error) {

	if !to.Valid() || to == StatusQueued {
		return nil, fmt.Errorf("%w: cannot advance to %q", ErrInvalidTransition, to)
	}
	if to == StatusFailed && strings.TrimSpace(errorLog) == "" {
		return nil, ErrEmptyErrorLog
	}
	if to != StatusFailed {
		errorLog = ""
	}

	job, err := s.repo.AdvanceTx(ctx, batchID, to, errorLog, s.now())
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("print batch advanced",
		zap.String("batch_id", batchID),
		zap.String("status", string(job.Status)),
	)
	return job, nil
}

func (s *service) GetBatch(ctx context.Context, batchID string) (*PrintJob, error) {
	return s.repo.GetByBatchID(ctx, batchID)
}

func newBatchID(now time.Time) string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("BATCH-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}
