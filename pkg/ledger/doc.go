// Package ledger tracks entitlement state per (account, plan).
//
// The state machine is small: a subscription starts as a trial or jumps
// straight to active on payment, and trials are lazily demoted to expired on
// read. Paid subscriptions are deliberately not demoted the same way — an
// active row past its end date simply stops granting access while keeping its
// stored status, so a later payment resumes the same row.
//
//	none --StartTrial--> trial --(read past end)--> trial_expired
//	none | trial | trial_expired --Activate--> active
//
// Activation always resets the paid window from the payment moment; it never
// adds remaining time from an earlier term.
package ledger
