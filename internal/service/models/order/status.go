package order

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// InvalidTransitionError is returned when a requested transition is not an
// edge of the status graph for the order's current status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %s to %s", e.From, e.To)
}

// ErrCancellationReasonRequired is returned when a transition to cancelled
// carries no reason.
var ErrCancellationReasonRequired = fmt.Errorf("cancellation reason is required")

// forward holds the happy-path edges of the status graph.
var forward = map[Status]Status{
	StatusPending:        StatusConfirmed,
	StatusConfirmed:      StatusPreparing,
	StatusPreparing:      StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// Rules captures the configurable parts of the status graph.
type Rules struct {
	// CancelFromOutForDelivery allows cancellation after the order has
	// left the kitchen. The observed production behavior allows it, so
	// it defaults to true; operators can tighten it in config.
	CancelFromOutForDelivery bool
}

// DefaultRules returns the default transition policy.
func DefaultRules() Rules {
	return Rules{CancelFromOutForDelivery: true}
}

// ValidateTransition checks the requested transition against the current
// status. It must be called with the status read in the same transaction
// that performs the write.
func (r Rules) ValidateTransition(from, to Status) error {
	if from.IsTerminal() {
		return &InvalidTransitionError{From: from, To: to}
	}

	if to == StatusCancelled {
		if from == StatusOutForDelivery && !r.CancelFromOutForDelivery {
			return &InvalidTransitionError{From: from, To: to}
		}

		return nil
	}

	if forward[from] != to {
		return &InvalidTransitionError{From: from, To: to}
	}

	return nil
}

// ApplyTransition validates the transition and mutates the order in place,
// deriving terminal timestamps and the cancellation reason.
func (r Rules) ApplyTransition(o *Order, to Status, reason string, now time.Time) error {
	if err := r.ValidateTransition(o.Status, to); err != nil {
		return err
	}

	switch to {
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		if reason == "" {
			return ErrCancellationReasonRequired
		}
		o.CancelledAt = &now
		o.CancellationReason = reason
	}

	o.Status = to
	o.UpdatedAt = now

	return nil
}
