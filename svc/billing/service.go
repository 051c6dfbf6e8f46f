package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/coupon"
	"github.com/dmitrymomot/billingkit/pkg/ledger"
	"github.com/dmitrymomot/billingkit/pkg/payment"
	"github.com/dmitrymomot/billingkit/pkg/plan"
	"github.com/dmitrymomot/billingkit/pkg/referral"
	"github.com/dmitrymomot/billingkit/pkg/trial"
)

// PaymentNotice carries what the payment processor confirmed. The charge has
// already happened; the facade only decides what access it buys.
type PaymentNotice struct {
	AccountID  uuid.UUID
	Email      string
	OrderID    string // processor's opaque order identifier
	Amount     ledger.Money
	Selector   plan.Selector
	CouponCode string // empty when no coupon was applied at checkout
}

// Service defines the user-facing billing operations.
type Service interface {
	// StartTrial grants the one-time trial for every plan the selector
	// covers. Eligibility for ALL requested plans is checked before any of
	// them is recorded, so a combined request cannot leave one plan granted
	// and the other rejected.
	StartTrial(ctx context.Context, accountID uuid.UUID, email string, sel plan.Selector) error

	// CompletePayment records the confirmed charge, redeems the coupon if
	// any, activates every plan the selector covers, and credits the
	// referrer behind the coupon. Coupon and referral failures are logged
	// and swallowed; the payment has already succeeded and is never rolled
	// back for bookkeeping.
	CompletePayment(ctx context.Context, notice PaymentNotice) error

	// ValidateCoupon is the side-effect-free checkout preview. For a
	// combined selector the coupon must be valid for every covered plan.
	ValidateCoupon(ctx context.Context, code, email string, sel plan.Selector) (coupon.Validation, error)

	// GetAccess reports the access gate per plan covered by the selector.
	GetAccess(ctx context.Context, accountID uuid.UUID, sel plan.Selector) (map[plan.Plan]ledger.Access, error)

	// OptInReferral enrolls the account in the referral program and returns
	// its referral code. Idempotent.
	OptInReferral(ctx context.Context, accountID uuid.UUID, email string) (string, error)
}

type service struct {
	coupons   coupon.Service
	guard     trial.Guard
	ledger    ledger.Service
	referrals referral.Service
	payments  payment.Store
	log       *slog.Logger
	now       func() time.Time
}

// NewService wires the billing facade.
// Panics if any required dependency is nil to fail fast during initialization.
func NewService(coupons coupon.Service, guard trial.Guard, led ledger.Service, referrals referral.Service, payments payment.Store, opts ...ServiceOption) Service {
	if coupons == nil {
		panic("billing: coupon.Service is required")
	}
	if guard == nil {
		panic("billing: trial.Guard is required")
	}
	if led == nil {
		panic("billing: ledger.Service is required")
	}
	if referrals == nil {
		panic("billing: referral.Service is required")
	}
	if payments == nil {
		panic("billing: payment.Store is required")
	}

	s := &service{
		coupons:   coupons,
		guard:     guard,
		ledger:    led,
		referrals: referrals,
		payments:  payments,
		log:       slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServiceOption configures optional service settings.
type ServiceOption func(*service)

// WithLogger sets the logger for the swallow-and-log paths.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *service) StartTrial(ctx context.Context, accountID uuid.UUID, email string, sel plan.Selector) error {
	if err := checkIdentity(accountID, email); err != nil {
		return err
	}

	plans, err := plan.Expand(sel)
	if err != nil {
		return err
	}

	// Pre-check every plan before recording any. Without this, a combined
	// request could grant one plan and reject the other.
	for _, p := range plans {
		used, err := s.guard.HasUsedTrial(ctx, email, p)
		if err != nil {
			return fmt.Errorf("trial eligibility check failed: %w", err)
		}
		if used {
			return ErrTrialAlreadyUsed
		}
	}

	for _, p := range plans {
		if err := s.guard.RecordTrialUsed(ctx, email, p); err != nil {
			// A concurrent request consumed the trial between check and
			// record. Terminal: the ledger must not be touched for this plan.
			if errors.Is(err, trial.ErrAlreadyUsed) {
				return ErrTrialAlreadyUsed
			}
			return fmt.Errorf("recording trial usage failed: %w", err)
		}

		if _, err := s.ledger.StartTrial(ctx, accountID, p); err != nil {
			return fmt.Errorf("starting trial subscription failed: %w", err)
		}

		s.log.InfoContext(ctx, "trial started",
			"account_id", accountID, "plan", string(p))
	}

	return nil
}

func (s *service) CompletePayment(ctx context.Context, notice PaymentNotice) error {
	if err := checkIdentity(notice.AccountID, notice.Email); err != nil {
		return err
	}

	plans, err := plan.Expand(notice.Selector)
	if err != nil {
		return err
	}

	if err := s.payments.Append(ctx, &payment.Record{
		ID:        uuid.New(),
		AccountID: notice.AccountID,
		OrderID:   notice.OrderID,
		Amount:    notice.Amount,
		Status:    payment.StatusCompleted,
		CreatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("recording payment failed: %w", err)
	}

	// An invalid code here is not payment-blocking: checkout already
	// rejected bad codes, so a failure at this stage is tolerated.
	var referrerID *uuid.UUID
	if notice.CouponCode != "" {
		ownerID, err := s.coupons.Redeem(ctx, notice.CouponCode)
		if err != nil {
			s.log.WarnContext(ctx, "coupon redemption failed after confirmed payment",
				"coupon", coupon.NormalizeCode(notice.CouponCode),
				"order_id", notice.OrderID, "error", err)
		} else {
			referrerID = ownerID
		}
	}

	for _, p := range plans {
		if _, err := s.ledger.Activate(ctx, notice.AccountID, p, notice.OrderID, notice.Amount, notice.CouponCode); err != nil {
			// Plans already activated in this loop stand; see package docs.
			return fmt.Errorf("activating %s subscription failed: %w", p, err)
		}

		s.log.InfoContext(ctx, "subscription activated",
			"account_id", notice.AccountID, "plan", string(p),
			"order_id", notice.OrderID)
	}

	if referrerID != nil {
		reward, err := s.referrals.TrackUsage(ctx, *referrerID)
		if err != nil {
			s.log.WarnContext(ctx, "referral credit failed after confirmed payment",
				"referrer_id", *referrerID, "order_id", notice.OrderID, "error", err)
			return nil
		}
		if reward != nil {
			s.log.InfoContext(ctx, "referral milestone reward minted",
				"referrer_id", *referrerID, "milestone", reward.Milestone,
				"discount_percent", reward.DiscountPercent)
		}
	}

	return nil
}

func (s *service) ValidateCoupon(ctx context.Context, code, email string, sel plan.Selector) (coupon.Validation, error) {
	plans, err := plan.Expand(sel)
	if err != nil {
		return coupon.Validation{}, err
	}

	var result coupon.Validation
	for _, p := range plans {
		result, err = s.coupons.Validate(ctx, code, email, p)
		if err != nil {
			return coupon.Validation{}, err
		}
		if !result.Valid {
			return result, nil
		}
	}
	return result, nil
}

func (s *service) GetAccess(ctx context.Context, accountID uuid.UUID, sel plan.Selector) (map[plan.Plan]ledger.Access, error) {
	plans, err := plan.Expand(sel)
	if err != nil {
		return nil, err
	}

	result := make(map[plan.Plan]ledger.Access, len(plans))
	for _, p := range plans {
		access, err := s.ledger.GetStatus(ctx, accountID, p)
		if err != nil {
			return nil, err
		}
		result[p] = access
	}
	return result, nil
}

func (s *service) OptInReferral(ctx context.Context, accountID uuid.UUID, email string) (string, error) {
	if err := checkIdentity(accountID, email); err != nil {
		return "", err
	}
	return s.referrals.OptIn(ctx, accountID, email)
}

func checkIdentity(accountID uuid.UUID, email string) error {
	if accountID == uuid.Nil || strings.TrimSpace(email) == "" {
		return ErrUnauthorized
	}
	return nil
}
