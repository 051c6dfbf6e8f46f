// Package trial enforces the one-trial-per-email-per-plan rule.
//
// Eligibility is keyed by email rather than account id so that deleting an
// account and signing up again under the same email does not grant a fresh
// trial. Each plan is tracked separately: trialing the personal plan leaves
// the business plan's trial untouched.
package trial
