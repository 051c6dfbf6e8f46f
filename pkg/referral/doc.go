// Package referral grows the user base by rewarding existing users for
// bringing in paying ones.
//
// Opting in mints a personal zero-discount coupon whose only purpose is
// attribution: whenever someone else pays with it, the owner's referral count
// goes up. Crossing a fixed count milestone mints a single-use discount
// coupon locked to the owner's own email.
//
// The count increment returns the post-increment total in one atomic round
// trip, and each milestone can be claimed exactly once per owner, so two
// concurrent payments crediting the same owner can never double-mint a reward.
package referral
