package payment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore implements Store over the payments table.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed payment log.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("payment: pgxpool.Pool is required")
	}
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Append(ctx context.Context, rec *Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO payments (id, account_id, order_id, amount, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.AccountID, rec.OrderID, rec.Amount.Amount, rec.Amount.Currency,
		string(rec.Status), rec.CreatedAt,
	)
	return err
}
