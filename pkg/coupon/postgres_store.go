package coupon

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/pg"
	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// postgresStore implements Store on a pgx connection pool. The coupons table
// carries a unique constraint on code; ConsumeUse relies on a single
// conditional UPDATE so the final use of a capped coupon can only be won once.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed coupon store.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("coupon: pgxpool.Pool is required")
	}
	return &postgresStore{pool: pool}
}

const couponColumns = `code, discount_percent, owner_id, email_lock, plan_lock, expires_at, max_uses, used_count, created_at`

func (s *postgresStore) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`,
		NormalizeCode(code),
	)
	return scanCoupon(row)
}

func (s *postgresStore) Create(ctx context.Context, c *Coupon) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO coupons (`+couponColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		NormalizeCode(c.Code), c.DiscountPercent, c.OwnerID, c.EmailLock,
		string(c.PlanLock), c.ExpiresAt, c.MaxUses, c.UsedCount, c.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (s *postgresStore) ConsumeUse(ctx context.Context, code string) (*Coupon, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE coupons
		 SET used_count = used_count + 1
		 WHERE code = $1 AND (max_uses = 0 OR used_count < max_uses)
		 RETURNING `+couponColumns,
		NormalizeCode(code),
	)

	c, err := scanCoupon(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// The conditional UPDATE matched nothing: either the code is unknown or
	// the cap is reached. A second lookup tells the two apart.
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`,
		NormalizeCode(code),
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrExhausted
	}
	return nil, ErrNotFound
}

func scanCoupon(row pgx.Row) (*Coupon, error) {
	var (
		c        Coupon
		planLock string
	)
	err := row.Scan(&c.Code, &c.DiscountPercent, &c.OwnerID, &c.EmailLock,
		&planLock, &c.ExpiresAt, &c.MaxUses, &c.UsedCount, &c.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.PlanLock = plan.Plan(planLock)
	return &c, nil
}
