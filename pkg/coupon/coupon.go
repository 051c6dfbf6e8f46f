package coupon

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// Coupon is a redeemable discount code. Zero values mean "no restriction":
// an empty EmailLock allows any redeemer, an empty PlanLock allows any plan,
// a nil ExpiresAt never expires, and MaxUses of zero is unlimited.
type Coupon struct {
	Code            string
	DiscountPercent int
	OwnerID         *uuid.UUID // referral attribution target, nil if unowned
	EmailLock       string     // restricts redemption to a single email
	PlanLock        plan.Plan  // restricts redemption to one plan
	ExpiresAt       *time.Time
	MaxUses         int // 0 = unlimited
	UsedCount       int
	CreatedAt       time.Time
}

// Unlimited indicates no use cap for MaxUses.
const Unlimited = 0

// IsExpired reports whether the coupon is past its expiry at the given time.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// IsExhausted reports whether the use cap has been reached.
func (c *Coupon) IsExhausted() bool {
	return c.MaxUses != Unlimited && c.UsedCount >= c.MaxUses
}

// NormalizeCode canonicalizes a code for case-insensitive storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
