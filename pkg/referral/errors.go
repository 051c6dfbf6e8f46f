package referral

import "errors"

var (
	ErrNotOptedIn     = errors.New("account has not opted into the referral program")
	ErrAlreadyOptedIn = errors.New("account already opted into the referral program")
	ErrCodeGeneration = errors.New("failed to generate a unique referral code")
	ErrEmptyEmail     = errors.New("email is required")
)
