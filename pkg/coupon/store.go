package coupon

import "context"

// Store defines coupon persistence. Codes are stored and looked up in their
// normalized form; implementations must apply NormalizeCode on every access.
type Store interface {
	// GetByCode retrieves a coupon by code.
	// Returns ErrNotFound if no coupon exists.
	GetByCode(ctx context.Context, code string) (*Coupon, error)

	// Create inserts a new coupon.
	// Returns ErrDuplicateCode if the code is already taken.
	Create(ctx context.Context, c *Coupon) error

	// ConsumeUse atomically increments the use counter while it is below the
	// cap and returns the coupon as of the increment. Exactly one of any
	// number of concurrent callers may consume the final use. Returns
	// ErrNotFound for unknown codes and ErrExhausted when the cap is reached.
	ConsumeUse(ctx context.Context, code string) (*Coupon, error)
}
