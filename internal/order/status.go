package order

import "fmt"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusHold       Status = "Hold"
	StatusPrinting   Status = "Printing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
	StatusRefunded   Status = "Refunded"
)

// transitions is the order lifecycle. Refunded is reachable from every
// non-terminal state except Shipped; Delivered, Cancelled and Refunded
// are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusRefunded},
	StatusProcessing: {StatusHold, StatusPrinting, StatusCancelled, StatusRefunded},
	StatusHold:       {StatusProcessing, StatusCancelled, StatusRefunded},
	StatusPrinting:   {StatusShipped, StatusHold, StatusRefunded},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	targets, ok := transitions[s]
	return ok && len(targets) == 0
}

func (s Status) CanTransition(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns the new status or
// ErrInvalidTransition. Illegal transitions are rejected, never coerced.
func (s Status) Transition(to Status) (Status, error) {
	if !s.CanTransition(to) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
	}
	return to, nil
}
