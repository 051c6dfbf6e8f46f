package coupon

import "errors"

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrDuplicateCode = errors.New("coupon code already exists")
	ErrExhausted     = errors.New("coupon use limit reached")

	ErrEmptyCode       = errors.New("coupon code is required")
	ErrInvalidDiscount = errors.New("coupon discount must be between 0 and 100 percent")
)
