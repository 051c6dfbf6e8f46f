package ledger

import "time"

// Status represents the current state of a subscription.
type Status string

const (
	// StatusNone is reported when no subscription row exists. It is never stored.
	StatusNone Status = ""

	StatusTrial        Status = "trial"
	StatusTrialExpired Status = "trial_expired"
	StatusActive       Status = "active"
)

const (
	// TrialDays is the length of the one-time free trial.
	TrialDays = 60

	// PaidTermYears is the entitlement window granted per payment.
	PaidTermYears = 1
)

// Money represents a monetary amount in the smallest currency unit.
// For example, $10.99 USD would be Amount: 1099, Currency: "USD".
type Money struct {
	Amount   int64
	Currency string
}

// Access is the derived gate consumed by access-control middleware.
type Access struct {
	HasAccess       bool
	Status          Status
	EndsAt          *time.Time
	DaysUntilExpiry int
}
