package billing

import "errors"

var (
	// ErrUnauthorized is returned when the caller's identity is missing or
	// incomplete. No side effects are attempted in that case.
	ErrUnauthorized = errors.New("missing or invalid account identity")

	// ErrTrialAlreadyUsed is the user-facing rejection for a second trial
	// attempt on any of the requested plans.
	ErrTrialAlreadyUsed = errors.New("a free trial has already been used for this email")
)
