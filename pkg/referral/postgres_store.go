package referral

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/pg"
)

// postgresStore implements Store over referral_states and referral_claims.
// The counter bump is a single UPDATE ... RETURNING, and milestone claims ride
// on the (account_id, milestone) primary key with ON CONFLICT DO NOTHING, so
// both atomicity requirements live in the database rather than in Go.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed referral store.
// Panics if pool is nil to fail fast during initialization.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("referral: pgxpool.Pool is required")
	}
	return &postgresStore{pool: pool}
}

func (s *postgresStore) GetState(ctx context.Context, accountID uuid.UUID) (*State, error) {
	var state State
	err := s.pool.QueryRow(ctx,
		`SELECT account_id, email, code, referral_count, opted_in_at
		 FROM referral_states WHERE account_id = $1`,
		accountID,
	).Scan(&state.AccountID, &state.Email, &state.Code, &state.ReferralCount, &state.OptedInAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotOptedIn
		}
		return nil, err
	}
	return &state, nil
}

func (s *postgresStore) CreateState(ctx context.Context, state *State) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO referral_states (account_id, email, code, referral_count, opted_in_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		state.AccountID, state.Email, state.Code, state.ReferralCount, state.OptedInAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrAlreadyOptedIn
		}
		return err
	}
	return nil
}

func (s *postgresStore) IncrementCount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`UPDATE referral_states
		 SET referral_count = referral_count + 1
		 WHERE account_id = $1
		 RETURNING referral_count`,
		accountID,
	).Scan(&count)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return 0, ErrNotOptedIn
		}
		return 0, err
	}
	return count, nil
}

func (s *postgresStore) ClaimMilestone(ctx context.Context, accountID uuid.UUID, milestone int) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO referral_claims (account_id, milestone, claimed_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (account_id, milestone) DO NOTHING`,
		accountID, milestone,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
