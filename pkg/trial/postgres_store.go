package trial

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/pg"
	"github.com/dmitrymomot/billingkit/pkg/plan"
)

// postgresStore implements TrackerStore over the trial_trackers table, whose
// primary key (email, plan) is the abuse-prevention mechanism itself.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed tracker store.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) TrackerStore {
	if pool == nil {
		panic("trial: pgxpool.Pool is required")
	}
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Exists(ctx context.Context, email string, p plan.Plan) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM trial_trackers WHERE email = $1 AND plan = $2)`,
		email, string(p),
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *postgresStore) Insert(ctx context.Context, email string, p plan.Plan) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO trial_trackers (email, plan, created_at) VALUES ($1, $2, now())`,
		email, string(p),
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyUsed
		}
		return err
	}
	return nil
}
