package printjob

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrBatchNotFound     = errors.New("print batch not found")
	ErrInvalidTransition = errors.New("invalid batch status transition")
	ErrEmptyErrorLog     = errors.New("failed batch requires an error log")
	ErrNoItems           = errors.New("batch requires at least one item")
)

// AlreadyBatchedError names the items that still belong to an active
// batch, so operators can see exactly which lines are contested.
type AlreadyBatchedError struct {
	ItemIDs []uuid.UUID
}

func (e *AlreadyBatchedError) Error() string {
	return fmt.Sprintf("%d item(s) already belong to an active batch", len(e.ItemIDs))
}

// IsAlreadyBatched reports whether err is a batch-claim conflict.
func IsAlreadyBatched(err error) bool {
	var abe *AlreadyBatchedError
	return errors.As(err, &abe)
}
