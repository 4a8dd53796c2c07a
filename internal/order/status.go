package order

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// sequence is the only forward path; Advance walks it one step at a time.
var sequence = []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next returns the successor in the fixed sequence. Terminal states have no
// successor.
func (s Status) Next() (Status, error) {
	if s.Terminal() {
		return "", ErrInvalidTransition
	}
	for i, st := range sequence {
		if st == s {
			return sequence[i+1], nil
		}
	}
	return "", ErrInvalidTransition
}

// CanCancel reports whether an order in this state may still be cancelled.
func (s Status) CanCancel() bool {
	return s.Valid() && !s.Terminal()
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)
