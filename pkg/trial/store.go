package trial

import (
	"context"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// TrackerStore persists trial usage markers. A marker row is created exactly
// once per (email, plan) and is never updated or deleted; its mere existence
// means the trial has been consumed.
type TrackerStore interface {
	// Exists reports whether a marker is present for the email and plan.
	Exists(ctx context.Context, email string, p plan.Plan) (bool, error)

	// Insert creates the marker. The insert must be a single atomic operation
	// whose unique-constraint violation surfaces as ErrAlreadyUsed,
	// distinguishable from any other store error. Of two racing inserts
	// exactly one succeeds.
	Insert(ctx context.Context, email string, p plan.Plan) error
}
