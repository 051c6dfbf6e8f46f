package ledger

import "errors"

var (
	ErrNotFound    = errors.New("subscription not found")
	ErrInvalidPlan = errors.New("invalid plan")
)
