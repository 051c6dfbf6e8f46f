package referral

import (
	"context"

	"github.com/google/uuid"
)

// Store persists referral program state.
type Store interface {
	// GetState retrieves an account's referral state.
	// Returns ErrNotOptedIn if the account never opted in.
	GetState(ctx context.Context, accountID uuid.UUID) (*State, error)

	// CreateState records a fresh opt-in.
	// Returns ErrAlreadyOptedIn if a state row already exists for the account.
	CreateState(ctx context.Context, state *State) error

	// IncrementCount atomically bumps the referral counter and returns the
	// post-increment total in the same round trip. The returned total is the
	// sole milestone trigger; a separate read-back would reopen the
	// double-mint race. Returns ErrNotOptedIn for unknown accounts.
	IncrementCount(ctx context.Context, accountID uuid.UUID) (int, error)

	// ClaimMilestone records that the owner reached the milestone and
	// reports whether this call was the first to do so. At most one claim
	// per (owner, milestone) ever succeeds, even under concurrent callers.
	ClaimMilestone(ctx context.Context, accountID uuid.UUID, milestone int) (bool, error)
}
