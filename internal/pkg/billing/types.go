package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrBillingDisabled is returned when the billing feature flag is off.
	ErrBillingDisabled = errors.New("billing is disabled")
	// ErrNoPrice is returned when no price reference resolves for a checkout.
	ErrNoPrice = errors.New("no price configured")
	// ErrNoEntitlement is returned when a user has no entitlement row.
	ErrNoEntitlement = errors.New("no entitlement found")
	// ErrNoPendingPurchase is returned when a session has no pending purchase.
	ErrNoPendingPurchase = errors.New("no pending purchase found")
)

// TierConflictError signals that the user already holds an active entitlement
// for the requested tier. It carries the current state for the 409 payload.
type TierConflictError struct {
	Tier     string
	IsActive bool
}

func (e *TierConflictError) Error() string {
	return fmt.Sprintf("active entitlement for tier %s already exists", e.Tier)
}

// CompletedSession is the normalized payload of a "checkout completed"
// notification. Metadata carries userId/tier/billingMode set at checkout time.
type CompletedSession struct {
	SessionID     string
	Customer      string
	Subscription  string
	PaymentIntent string
	Metadata      map[string]string
}

// Outcome describes how the reconciler handled a completion notification.
// Everything except OutcomeApplied is an acknowledged no-op.
type Outcome string

const (
	OutcomeApplied           Outcome = "applied"
	OutcomeDuplicateEvent    Outcome = "duplicate_event"
	OutcomeIgnored           Outcome = "ignored"
	OutcomeAlreadyProcessed  Outcome = "already_processed"
	OutcomeNoPendingPurchase Outcome = "no_pending_purchase"
)

// SkipReason returns the value for the webhook response "skipped" field and
// whether it should be set at all.
func (o Outcome) SkipReason() (string, bool) {
	switch o {
	case OutcomeAlreadyProcessed:
		return "already_processed", true
	case OutcomeNoPendingPurchase:
		return "no_pending_purchase", true
	case OutcomeDuplicateEvent:
		return "duplicate_event", true
	default:
		return "", false
	}
}

// PricingItem is one configured price with its live amount, as exposed by the
// read-only pricing endpoint.
type PricingItem struct {
	Tier     string `json:"tier"`
	PriceID  string `json:"priceId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Interval string `json:"interval,omitempty"`
}
