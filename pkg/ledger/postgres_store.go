package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/pg"
	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// postgresStore implements Store over the subscriptions table. The composite
// primary key (account_id, plan) backs the at-most-one-row invariant, and the
// upsert is a single INSERT ... ON CONFLICT so racing writers cannot produce
// lost updates.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed subscription store.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("ledger: pgxpool.Pool is required")
	}
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Get(ctx context.Context, accountID uuid.UUID, p plan.Plan) (*Subscription, error) {
	var (
		sub      Subscription
		planName string
		status   string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT account_id, plan, status, starts_at, ends_at,
		        last_payment_at, last_payment_amount, last_payment_currency,
		        last_order_id, coupon_code, created_at, updated_at
		 FROM subscriptions
		 WHERE account_id = $1 AND plan = $2`,
		accountID, string(p),
	).Scan(&sub.AccountID, &planName, &status, &sub.StartsAt, &sub.EndsAt,
		&sub.LastPaymentAt, &sub.LastPaymentAmount.Amount, &sub.LastPaymentAmount.Currency,
		&sub.LastOrderID, &sub.CouponCode, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub.Plan = plan.Plan(planName)
	sub.Status = Status(status)
	return &sub, nil
}

func (s *postgresStore) Upsert(ctx context.Context, sub *Subscription) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (
		     account_id, plan, status, starts_at, ends_at,
		     last_payment_at, last_payment_amount, last_payment_currency,
		     last_order_id, coupon_code, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (account_id, plan) DO UPDATE SET
		     status = EXCLUDED.status,
		     starts_at = EXCLUDED.starts_at,
		     ends_at = EXCLUDED.ends_at,
		     last_payment_at = EXCLUDED.last_payment_at,
		     last_payment_amount = EXCLUDED.last_payment_amount,
		     last_payment_currency = EXCLUDED.last_payment_currency,
		     last_order_id = EXCLUDED.last_order_id,
		     coupon_code = EXCLUDED.coupon_code,
		     updated_at = EXCLUDED.updated_at`,
		sub.AccountID, string(sub.Plan), string(sub.Status), sub.StartsAt, sub.EndsAt,
		sub.LastPaymentAt, sub.LastPaymentAmount.Amount, sub.LastPaymentAmount.Currency,
		sub.LastOrderID, sub.CouponCode, sub.CreatedAt, sub.UpdatedAt,
	)
	return err
}

func (s *postgresStore) MarkTrialExpired(ctx context.Context, accountID uuid.UUID, p plan.Plan) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE subscriptions
		 SET status = $3, updated_at = now()
		 WHERE account_id = $1 AND plan = $2 AND status = $4`,
		accountID, string(p), string(StatusTrialExpired), string(StatusTrial),
	)
	return err
}
