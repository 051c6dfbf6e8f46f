package trial

import "errors"

var (
	ErrAlreadyUsed = errors.New("trial already used for this email and plan")
	ErrEmptyEmail  = errors.New("email is required")
	ErrInvalidPlan = errors.New("invalid plan")
)
