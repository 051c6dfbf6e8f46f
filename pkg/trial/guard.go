package trial

import (
	"context"
	"strings"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// Guard answers whether an email may still start a trial for a plan, and
// records the consumption when one is granted.
type Guard interface {
	// HasUsedTrial reports whether the email has ever consumed a trial for
	// the plan, regardless of which account id asks.
	HasUsedTrial(ctx context.Context, email string, p plan.Plan) (bool, error)

	// RecordTrialUsed marks the trial as consumed. Returns ErrAlreadyUsed if
	// another request got there first; callers must treat that as terminal
	// and not proceed with granting the trial.
	RecordTrialUsed(ctx context.Context, email string, p plan.Plan) error
}

type guard struct {
	store TrackerStore
}

// NewGuard creates a trial eligibility Guard backed by the given store.
// Panics if store is nil to fail fast during initialization.
func NewGuard(store TrackerStore) Guard {
	if store == nil {
		panic("trial: TrackerStore is required")
	}
	return &guard{store: store}
}

func (g *guard) HasUsedTrial(ctx context.Context, email string, p plan.Plan) (bool, error) {
	email, err := normalizeInput(email, p)
	if err != nil {
		return false, err
	}
	return g.store.Exists(ctx, email, p)
}

func (g *guard) RecordTrialUsed(ctx context.Context, email string, p plan.Plan) error {
	email, err := normalizeInput(email, p)
	if err != nil {
		return err
	}
	return g.store.Insert(ctx, email, p)
}

// normalizeInput lowercases the email so that case variants of one address
// cannot collect multiple trials.
func normalizeInput(email string, p plan.Plan) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmptyEmail
	}
	if !p.Valid() {
		return "", ErrInvalidPlan
	}
	return email, nil
}
