package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// Store defines subscription persistence keyed by (account, plan).
type Store interface {
	// Get retrieves the subscription for an account and plan.
	// Returns ErrNotFound if no row exists.
	Get(ctx context.Context, accountID uuid.UUID, p plan.Plan) (*Subscription, error)

	// Upsert atomically creates or replaces the row for
	// (sub.AccountID, sub.Plan). Must be a single atomic operation so a
	// racing lazy-expiry write cannot resurrect stale state.
	Upsert(ctx context.Context, sub *Subscription) error

	// MarkTrialExpired flips status from trial to trial_expired, touching
	// nothing else. A row that is not currently in trial is left alone.
	MarkTrialExpired(ctx context.Context, accountID uuid.UUID, p plan.Plan) error
}
