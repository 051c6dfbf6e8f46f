// Package coupon implements discount code storage, validation, and redemption.
//
// Two coupon flavors share one shape: regular discount coupons (optionally
// restricted by email, plan, expiry, or a use cap) and zero-discount referral
// codes whose only job is attributing payments to their owning account.
//
// Validation and redemption are deliberately decoupled. Validate is a
// side-effect-free dry run used for price previews at checkout; Redeem is
// called once a payment is confirmed, performs a fresh lookup, and is the only
// operation that mutates the use counter. No state carries across the gap
// between the two calls.
//
// Usage:
//
//	store := coupon.NewMemoryStore()
//	svc := coupon.NewService(store)
//
//	res, err := svc.Validate(ctx, "SAVE20", "user@example.com", plan.Personal)
//	if err != nil {
//		// store failure, not a rejected coupon
//	}
//	if !res.Valid {
//		// res.Message explains the rejection in user-facing terms
//	}
//
//	ownerID, err := svc.Redeem(ctx, "SAVE20")
package coupon
