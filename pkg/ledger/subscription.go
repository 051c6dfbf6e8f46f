package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// Subscription is one row per (account, plan). The pair is the composite key;
// the row is created on first trial or payment and updated in place ever after.
type Subscription struct {
	AccountID uuid.UUID
	Plan      plan.Plan
	Status    Status
	StartsAt  time.Time
	EndsAt    time.Time

	// Payment linkage, set on activation only.
	LastPaymentAt     *time.Time
	LastPaymentAmount Money
	LastOrderID       string
	CouponCode        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) IsTrial() bool {
	return s.Status == StatusTrial
}

func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// GrantsAccessAt reports whether the subscription grants access at the given
// time: the status must be a granting one and the end date still ahead.
func (s *Subscription) GrantsAccessAt(now time.Time) bool {
	if s.Status != StatusTrial && s.Status != StatusActive {
		return false
	}
	return s.EndsAt.After(now)
}

// DaysUntilExpiryAt returns whole days left until the end date, rounding up
// partial days. Returns 0 when access has already lapsed.
func (s *Subscription) DaysUntilExpiryAt(now time.Time) int {
	remaining := s.EndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}

	days := remaining.Hours() / 24
	return int(days + 0.5)
}
