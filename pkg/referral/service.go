package referral

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/coupon"
)

// Service defines the public interface for the referral program.
type Service interface {
	// OptIn enrolls the account and returns its referral code. Idempotent:
	// an already-enrolled account gets its existing code back unchanged.
	OptIn(ctx context.Context, accountID uuid.UUID, email string) (string, error)

	// TrackUsage credits the owner for one payment that redeemed a coupon
	// they own. If the new total hits a milestone, a single-use reward
	// coupon is minted and returned; otherwise the reward is nil.
	TrackUsage(ctx context.Context, ownerID uuid.UUID) (*Reward, error)
}

type service struct {
	store   Store
	coupons coupon.Service
	now     func() time.Time
}

// NewService creates a referral Service. The coupon service is a hard
// dependency: referral codes and milestone rewards are both coupons.
// Panics if store or coupons is nil to fail fast during initialization.
func NewService(store Store, coupons coupon.Service, opts ...ServiceOption) Service {
	if store == nil {
		panic("referral: Store is required")
	}
	if coupons == nil {
		panic("referral: coupon.Service is required")
	}

	s := &service{
		store:   store,
		coupons: coupons,
		now:     func() time.Time { return time.Now().UTC() },
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

func (s *service) OptIn(ctx context.Context, accountID uuid.UUID, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmptyEmail
	}

	state, err := s.store.GetState(ctx, accountID)
	if err == nil {
		return state.Code, nil
	}
	if !errors.Is(err, ErrNotOptedIn) {
		return "", err
	}

	// The attribution coupon doubles as the global uniqueness check: issuing
	// it claims the code, and a collision comes back as ErrDuplicateCode.
	code, err := s.issueAttributionCoupon(ctx, accountID)
	if err != nil {
		return "", err
	}

	if err := s.store.CreateState(ctx, &State{
		AccountID: accountID,
		Email:     email,
		Code:      code,
		OptedInAt: s.now(),
	}); err != nil {
		// A concurrent opt-in won the insert; its code is the account's code.
		if errors.Is(err, ErrAlreadyOptedIn) {
			if state, err := s.store.GetState(ctx, accountID); err == nil {
				return state.Code, nil
			}
		}
		return "", err
	}

	return code, nil
}

func (s *service) TrackUsage(ctx context.Context, ownerID uuid.UUID) (*Reward, error) {
	count, err := s.store.IncrementCount(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	percent := RewardPercentFor(count)
	if percent == 0 {
		return nil, nil
	}

	claimed, err := s.store.ClaimMilestone(ctx, ownerID, count)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// A concurrent completion already minted this milestone's reward.
		return nil, nil
	}

	state, err := s.store.GetState(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	code, err := s.issueRewardCoupon(ctx, ownerID, state.Email, percent)
	if err != nil {
		return nil, err
	}

	return &Reward{
		Milestone:       count,
		DiscountPercent: percent,
		CouponCode:      code,
	}, nil
}

// issueAttributionCoupon mints the zero-discount, unlimited-use coupon that
// carries referral attribution, retrying code generation on collisions.
func (s *service) issueAttributionCoupon(ctx context.Context, accountID uuid.UUID) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		err = s.coupons.Issue(ctx, coupon.Coupon{
			Code:    code,
			OwnerID: &accountID,
			MaxUses: coupon.Unlimited,
		})
		if errors.Is(err, coupon.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", ErrCodeGeneration
}

// issueRewardCoupon mints a single-use milestone reward locked to the
// referrer's own email. No expiry, no plan lock.
func (s *service) issueRewardCoupon(ctx context.Context, ownerID uuid.UUID, email string, percent int) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		suffix, err := generateCode()
		if err != nil {
			return "", err
		}
		code := rewardCodePrefix + suffix

		err = s.coupons.Issue(ctx, coupon.Coupon{
			Code:            code,
			DiscountPercent: percent,
			OwnerID:         &ownerID,
			EmailLock:       email,
			MaxUses:         1,
		})
		if errors.Is(err, coupon.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", ErrCodeGeneration
}
