package entities

import (
	"errors"
	"time"
)

// Status is the kitchen workflow state of an order. The set is closed:
// transitions outside the table below are illegal.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCollected Status = "Collected"
	StatusCancelled Status = "Cancelled"
)

// transitions holds every legal status move. Collected and Cancelled are
// terminal and have no outgoing edges.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusCollected},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusPreparing, StatusReady, StatusCollected, StatusCancelled:
		return st, nil
	default:
		return "", ErrValidation
	}
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Active reports whether an order in this status still occupies its pickup
// token. Tokens of Collected and Cancelled orders may be reused.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// ActiveStatuses lists the statuses shown on the kitchen queue.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusReady}
}

// PaymentStatus tracks the payment gate independently of the kitchen workflow.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// OrderLine is a denormalized snapshot of a menu item taken at order-creation
// time. Name and price are never re-read from the live catalog, so later
// catalog changes do not alter placed orders.
type OrderLine struct {
	ItemID   string
	Name     string
	Price    int
	Quantity int
}

type Order struct {
	ID            string
	OwnerID       string
	Lines         []OrderLine
	TotalAmount   int
	PickupSlot    string
	Token         string
	Status        Status
	PaymentStatus PaymentStatus

	// Online-payment provenance; empty on the cash path. Raw payment
	// credentials are never stored.
	PaymentIntentID   string
	PaymentExternalID string

	CreatedAt time.Time
}

// Stable error kinds surfaced by the order service. Handlers map these to
// machine-readable kinds, so callers branch on the kind, not the message text.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrTokenExhausted      = errors.New("active token space exhausted")
	ErrOrderNotFound       = errors.New("order not found")

	// ErrTokenTaken is an internal retry signal: the generated token is held
	// by another active order. It never escapes the order service.
	ErrTokenTaken = errors.New("pickup token already active")
)
