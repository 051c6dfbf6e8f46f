package billing_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/coupon"
	"github.com/dmitrymomot/billingkit/pkg/ledger"
	"github.com/dmitrymomot/billingkit/pkg/payment"
	"github.com/dmitrymomot/billingkit/pkg/plan"
	"github.com/dmitrymomot/billingkit/pkg/referral"
	"github.com/dmitrymomot/billingkit/pkg/trial"
	"github.com/dmitrymomot/billingkit/svc/billing"
)

// testEnv wires the facade over in-memory stores and keeps handles on them
// so tests can assert on side effects.
type testEnv struct {
	svc         billing.Service
	coupons     coupon.Service
	couponStore *coupon.MemoryStore
	guard       trial.Guard
	ledger      ledger.Service
	referrals   referral.Service
	payments    *payment.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	couponStore := coupon.NewMemoryStore()
	coupons := coupon.NewService(couponStore)
	guard := trial.NewGuard(trial.NewMemoryStore())
	led := ledger.NewService(ledger.NewMemoryStore())
	referrals := referral.NewService(referral.NewMemoryStore(), coupons)
	payments := payment.NewMemoryStore()

	svc := billing.NewService(coupons, guard, led, referrals, payments,
		billing.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	return &testEnv{
		svc:         svc,
		coupons:     coupons,
		couponStore: couponStore,
		guard:       guard,
		ledger:      led,
		referrals:   referrals,
		payments:    payments,
	}
}

func TestStartTrial(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("grants access for the selected plan", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		accountID := uuid.New()

		require.NoError(t, env.svc.StartTrial(ctx, accountID, "e@x.com", plan.SelectPersonal))

		access, err := env.svc.GetAccess(ctx, accountID, plan.SelectPersonal)
		require.NoError(t, err)
		assert.True(t, access[plan.Personal].HasAccess)
		assert.Equal(t, ledger.StatusTrial, access[plan.Personal].Status)
	})

	t.Run("same email on a different account is rejected", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		require.NoError(t, env.svc.StartTrial(ctx, uuid.New(), "e@x.com", plan.SelectPersonal))

		err := env.svc.StartTrial(ctx, uuid.New(), "e@x.com", plan.SelectPersonal)
		require.ErrorIs(t, err, billing.ErrTrialAlreadyUsed)
	})

	t.Run("same email may trial the other plan", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		accountID := uuid.New()

		require.NoError(t, env.svc.StartTrial(ctx, accountID, "e@x.com", plan.SelectPersonal))
		require.NoError(t, env.svc.StartTrial(ctx, accountID, "e@x.com", plan.SelectBusiness))
	})

	t.Run("combined grants both plans", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		accountID := uuid.New()

		require.NoError(t, env.svc.StartTrial(ctx, accountID, "e@x.com", plan.SelectCombined))

		access, err := env.svc.GetAccess(ctx, accountID, plan.SelectCombined)
		require.NoError(t, err)
		assert.True(t, access[plan.Personal].HasAccess)
		assert.True(t, access[plan.Business].HasAccess)
	})

	t.Run("combined is rejected whole when one plan was already trialed", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		first := uuid.New()
		second := uuid.New()

		require.NoError(t, env.svc.StartTrial(ctx, first, "e@x.com", plan.SelectPersonal))

		err := env.svc.StartTrial(ctx, second, "e@x.com", plan.SelectCombined)
		require.ErrorIs(t, err, billing.ErrTrialAlreadyUsed)

		// The pre-check must prevent a partial grant: business was eligible
		// but must not have been recorded or activated.
		used, err := env.guard.HasUsedTrial(ctx, "e@x.com", plan.Business)
		require.NoError(t, err)
		assert.False(t, used, "eligible plan must not be consumed by a rejected combined request")

		access, err := env.svc.GetAccess(ctx, second, plan.SelectCombined)
		require.NoError(t, err)
		assert.False(t, access[plan.Business].HasAccess)
	})

	t.Run("missing identity attempts nothing", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		err := env.svc.StartTrial(ctx, uuid.Nil, "e@x.com", plan.SelectPersonal)
		require.ErrorIs(t, err, billing.ErrUnauthorized)

		err = env.svc.StartTrial(ctx, uuid.New(), "", plan.SelectPersonal)
		require.ErrorIs(t, err, billing.ErrUnauthorized)

		used, err := env.guard.HasUsedTrial(ctx, "e@x.com", plan.Personal)
		require.NoError(t, err)
		assert.False(t, used)
	})

	t.Run("unknown selector", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		err := env.svc.StartTrial(ctx, uuid.New(), "e@x.com", plan.Selector("TEAM"))
		require.ErrorIs(t, err, plan.ErrUnknownPlan)
	})
}

func TestCompletePayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	amount := ledger.Money{Amount: 9900, Currency: "USD"}

	t.Run("activates every selected plan and logs the charge", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		accountID := uuid.New()

		err := env.svc.CompletePayment(ctx, billing.PaymentNotice{
			AccountID: accountID,
			Email:     "payer@example.com",
			OrderID:   "ord_42",
			Amount:    amount,
			Selector:  plan.SelectCombined,
		})
		require.NoError(t, err)

		access, err := env.svc.GetAccess(ctx, accountID, plan.SelectCombined)
		require.NoError(t, err)
		assert.True(t, access[plan.Personal].HasAccess)
		assert.True(t, access[plan.Business].HasAccess)
		assert.Equal(t, ledger.StatusActive, access[plan.Personal].Status)

		records := env.payments.Records()
		require.Len(t, records, 1)
		assert.Equal(t, accountID, records[0].AccountID)
		assert.Equal(t, "ord_42", records[0].OrderID)
		assert.Equal(t, amount, records[0].Amount)
		assert.Equal(t, payment.StatusCompleted, records[0].Status)
	})

	t.Run("invalid coupon does not block the payment", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		accountID := uuid.New()

		err := env.svc.CompletePayment(ctx, billing.PaymentNotice{
			AccountID:  accountID,
			Email:      "payer@example.com",
			OrderID:    "ord_43",
			Amount:     amount,
			Selector:   plan.SelectPersonal,
			CouponCode: "NOSUCHCODE",
		})
		require.NoError(t, err)

		access, err := env.svc.GetAccess(ctx, accountID, plan.SelectPersonal)
		require.NoError(t, err)
		assert.True(t, access[plan.Personal].HasAccess)
	})

	t.Run("payment activates directly over an existing trial", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		accountID := uuid.New()

		require.NoError(t, env.svc.StartTrial(ctx, accountID, "payer@example.com", plan.SelectPersonal))

		err := env.svc.CompletePayment(ctx, billing.PaymentNotice{
			AccountID: accountID,
			Email:     "payer@example.com",
			OrderID:   "ord_44",
			Amount:    amount,
			Selector:  plan.SelectPersonal,
		})
		require.NoError(t, err)

		access, err := env.svc.GetAccess(ctx, accountID, plan.SelectPersonal)
		require.NoError(t, err)
		assert.Equal(t, ledger.StatusActive, access[plan.Personal].Status)
	})

	t.Run("missing identity attempts nothing", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		err := env.svc.CompletePayment(ctx, billing.PaymentNotice{
			AccountID: uuid.Nil,
			Email:     "payer@example.com",
			OrderID:   "ord_45",
			Amount:    amount,
			Selector:  plan.SelectPersonal,
		})
		require.ErrorIs(t, err, billing.ErrUnauthorized)
		assert.Empty(t, env.payments.Records())
	})
}

func TestValidateCoupon(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	env := newTestEnv(t)
	require.NoError(t, env.coupons.Issue(ctx, coupon.Coupon{
		Code: "BIZONLY", DiscountPercent: 15, PlanLock: plan.Business,
	}))
	require.NoError(t, env.coupons.Issue(ctx, coupon.Coupon{
		Code: "ANYPLAN", DiscountPercent: 20,
	}))

	t.Run("valid for the matching plan", func(t *testing.T) {
		t.Parallel()

		res, err := env.svc.ValidateCoupon(ctx, "BIZONLY", "u@x.com", plan.SelectBusiness)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, 15, res.DiscountPercent)
	})

	t.Run("plan-locked coupon cannot cover a combined purchase", func(t *testing.T) {
		t.Parallel()

		res, err := env.svc.ValidateCoupon(ctx, "BIZONLY", "u@x.com", plan.SelectCombined)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, "This coupon is only valid for the Business plan.", res.Message)
	})

	t.Run("unrestricted coupon covers a combined purchase", func(t *testing.T) {
		t.Parallel()

		res, err := env.svc.ValidateCoupon(ctx, "ANYPLAN", "u@x.com", plan.SelectCombined)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})
}

func TestOptInReferral(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	accountID := uuid.New()

	code, err := env.svc.OptInReferral(ctx, accountID, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	again, err := env.svc.OptInReferral(ctx, accountID, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, code, again)

	_, err = env.svc.OptInReferral(ctx, uuid.Nil, "alice@example.com")
	require.ErrorIs(t, err, billing.ErrUnauthorized)
}
