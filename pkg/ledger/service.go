package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// Service defines the public interface for the subscription ledger.
//
// StartTrial is not guarded here: eligibility lives in the trial package and
// callers must have recorded the trial before touching the ledger.
type Service interface {
	// StartTrial upserts the (account, plan) row into trial state for the
	// standard trial window. A pre-existing row in any state is overwritten;
	// the eligibility guard is what makes repeat trials impossible.
	StartTrial(ctx context.Context, accountID uuid.UUID, p plan.Plan) (*Subscription, error)

	// Activate upserts the row into active state for a fresh paid term,
	// recording the payment linkage. Re-activating a still-active
	// subscription resets the window from now; remaining time is not added.
	Activate(ctx context.Context, accountID uuid.UUID, p plan.Plan, orderID string, amount Money, couponCode string) (*Subscription, error)

	// GetStatus reports the access gate for an account and plan. Reading a
	// trial past its end date demotes it to trial_expired before returning.
	// An active row past its end date loses access but keeps its status.
	// A missing row is not an error; it reports no access with StatusNone.
	GetStatus(ctx context.Context, accountID uuid.UUID, p plan.Plan) (Access, error)
}

type service struct {
	store Store
	now   func() time.Time
}

// NewService creates a ledger Service backed by the given store.
// Panics if store is nil to fail fast during initialization.
func NewService(store Store, opts ...ServiceOption) Service {
	if store == nil {
		panic("ledger: Store is required")
	}

	s := &service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServiceOption configures optional service settings.
type ServiceOption func(*service)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *service) StartTrial(ctx context.Context, accountID uuid.UUID, p plan.Plan) (*Subscription, error) {
	if !p.Valid() {
		return nil, ErrInvalidPlan
	}

	now := s.now()
	sub := &Subscription{
		AccountID: accountID,
		Plan:      p,
		Status:    StatusTrial,
		StartsAt:  now,
		EndsAt:    now.AddDate(0, 0, TrialDays),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Activate(ctx context.Context, accountID uuid.UUID, p plan.Plan, orderID string, amount Money, couponCode string) (*Subscription, error) {
	if !p.Valid() {
		return nil, ErrInvalidPlan
	}

	now := s.now()
	sub := &Subscription{
		AccountID:         accountID,
		Plan:              p,
		Status:            StatusActive,
		StartsAt:          now,
		EndsAt:            now.AddDate(PaidTermYears, 0, 0),
		LastPaymentAt:     &now,
		LastPaymentAmount: amount,
		LastOrderID:       orderID,
		CouponCode:        couponCode,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) GetStatus(ctx context.Context, accountID uuid.UUID, p plan.Plan) (Access, error) {
	if !p.Valid() {
		return Access{}, ErrInvalidPlan
	}

	sub, err := s.store.Get(ctx, accountID, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Access{Status: StatusNone}, nil
		}
		return Access{}, err
	}

	now := s.now()

	// Lazy demotion: the write is conditional on status still being trial,
	// so concurrent readers and a racing activation cannot clobber each other.
	if sub.IsTrial() && !sub.EndsAt.After(now) {
		if err := s.store.MarkTrialExpired(ctx, accountID, p); err != nil {
			return Access{}, err
		}
		sub.Status = StatusTrialExpired
	}

	ends := sub.EndsAt
	access := Access{
		HasAccess: sub.GrantsAccessAt(now),
		Status:    sub.Status,
		EndsAt:    &ends,
	}
	if access.HasAccess {
		access.DaysUntilExpiry = sub.DaysUntilExpiryAt(now)
	}
	return access, nil
}
