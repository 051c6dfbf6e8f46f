package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// Service defines the public interface for coupon management.
type Service interface {
	// Validate performs a side-effect-free dry run of a redemption, used for
	// price previews. It never touches the use counter. The returned error is
	// reserved for store failures; business rejections come back as a
	// Validation with Valid=false and a user-facing Message.
	Validate(ctx context.Context, code, email string, p plan.Plan) (Validation, error)

	// Redeem consumes one use of the coupon and returns the owning account id
	// for referral attribution, or nil if the coupon is unowned. It looks the
	// code up fresh, independent of any earlier Validate call.
	Redeem(ctx context.Context, code string) (*uuid.UUID, error)

	// Issue creates a new coupon. The caller is responsible for supplying a
	// collision-free code; a taken code fails with ErrDuplicateCode.
	Issue(ctx context.Context, c Coupon) error
}

// Validation is the outcome of a coupon dry run.
type Validation struct {
	Valid           bool
	DiscountPercent int
	Message         string
}

// genericInvalidMessage deliberately covers not-found, email-lock mismatch,
// and expiry alike so responses don't leak which emails a code is locked to.
const genericInvalidMessage = "This coupon code is invalid or has expired."

type service struct {
	store Store
	now   func() time.Time
}

// NewService creates a coupon Service backed by the given store.
// Panics if store is nil to fail fast during initialization.
func NewService(store Store, opts ...ServiceOption) Service {
	if store == nil {
		panic("coupon: Store is required")
	}

	s := &service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServiceOption configures optional service settings.
type ServiceOption func(*service)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *service) Validate(ctx context.Context, code, email string, p plan.Plan) (Validation, error) {
	c, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Validation{Message: genericInvalidMessage}, nil
		}
		return Validation{}, err
	}

	// Email lock mismatches fail closed with the generic message.
	if c.EmailLock != "" && !strings.EqualFold(c.EmailLock, strings.TrimSpace(email)) {
		return Validation{Message: genericInvalidMessage}, nil
	}

	if c.IsExpired(s.now()) {
		return Validation{Message: genericInvalidMessage}, nil
	}

	// Plan restrictions are the one case where the rejection names its cause:
	// the coupon exists and belongs to the user, they just picked the wrong plan.
	if c.PlanLock != "" && c.PlanLock != p {
		return Validation{
			Message: fmt.Sprintf("This coupon is only valid for the %s plan.", c.PlanLock.DisplayName()),
		}, nil
	}

	return Validation{Valid: true, DiscountPercent: c.DiscountPercent}, nil
}

func (s *service) Redeem(ctx context.Context, code string) (*uuid.UUID, error) {
	c, err := s.store.ConsumeUse(ctx, code)
	if err != nil {
		return nil, err
	}
	return c.OwnerID, nil
}

func (s *service) Issue(ctx context.Context, c Coupon) error {
	c.Code = NormalizeCode(c.Code)
	if c.Code == "" {
		return ErrEmptyCode
	}
	if c.DiscountPercent < 0 || c.DiscountPercent > 100 {
		return ErrInvalidDiscount
	}

	c.UsedCount = 0
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	return s.store.Create(ctx, &c)
}
