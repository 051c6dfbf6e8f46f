package referral

import (
	"time"

	"github.com/google/uuid"
)

// State is an account's standing in the referral program.
type State struct {
	AccountID     uuid.UUID
	Email         string
	Code          string // globally unique, stable once assigned
	ReferralCount int    // only ever increases
	OptedInAt     time.Time
}

// Reward describes a milestone coupon minted for a referrer.
type Reward struct {
	Milestone       int
	DiscountPercent int
	CouponCode      string
}

// milestoneRewards maps a referral count to the discount percent earned at
// that exact count. Counts beyond the table earn nothing; the table is not
// extrapolated.
var milestoneRewards = map[int]int{
	2:  8,
	4:  17,
	6:  25,
	8:  40,
	10: 50,
}

// RewardPercentFor returns the discount earned at exactly the given referral
// count, or 0 if the count is not a milestone.
func RewardPercentFor(count int) int {
	return milestoneRewards[count]
}
