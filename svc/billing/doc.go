// Package billing is the orchestration facade over the coupon, trial, ledger,
// referral, and payment packages. It owns the two user-facing entry points —
// starting a trial and completing a payment — and sequences the underlying
// services so each one only worries about its own invariant.
//
// The facade trusts its caller on identity and money: the account id and
// email come from the identity provider, and CompletePayment is only invoked
// after the payment processor has confirmed the charge. Nothing here verifies
// a charge or blocks one; coupon and referral bookkeeping failures after a
// confirmed payment are logged and swallowed rather than failing the payment.
package billing
