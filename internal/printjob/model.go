package printjob

import (
	"time"

	"github.com/google/uuid"
)

// PrintJob groups order items from one or more orders into a single
// physical production run. Batch status is independent of order status.
type PrintJob struct {
	ID      uuid.UUID
	BatchID string
	Status  Status

	PrinterName string
	StartedAt   *time.Time
	CompletedAt *time.Time
	ErrorLog    string

	CreatedAt time.Time

	ItemIDs []uuid.UUID
}

type Status string

const (
	StatusQueued    Status = "Queued"
	StatusRipping   Status = "Ripping"
	StatusPrinting  Status = "Printing"
	StatusCutting   Status = "Cutting"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// The happy path is strictly linear; Failed is reachable from any
// non-terminal state.
var next = map[Status]Status{
	StatusQueued:   StatusRipping,
	StatusRipping:  StatusPrinting,
	StatusPrinting: StatusCutting,
	StatusCutting:  StatusCompleted,
}

func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRipping, StatusPrinting, StatusCutting,
		StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) CanAdvance(to Status) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	return next[s] == to
}
