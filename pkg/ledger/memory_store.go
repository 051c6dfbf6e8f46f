package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

type subKey struct {
	accountID uuid.UUID
	plan      plan.Plan
}

// memoryStore implements Store with a mutex-guarded map keyed by
// (account, plan), mirroring the SQL store's composite primary key.
type memoryStore struct {
	mu   sync.Mutex
	subs map[subKey]*Subscription
}

// NewMemoryStore returns an in-memory subscription store.
func NewMemoryStore() Store {
	return &memoryStore{
		subs: make(map[subKey]*Subscription),
	}
}

func (s *memoryStore) Get(ctx context.Context, accountID uuid.UUID, p plan.Plan) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subKey{accountID: accountID, plan: p}]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *sub
	return &cp, nil
}

func (s *memoryStore) Upsert(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subKey{accountID: sub.AccountID, plan: sub.Plan}
	cp := *sub
	if existing, ok := s.subs[key]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	s.subs[key] = &cp
	return nil
}

func (s *memoryStore) MarkTrialExpired(ctx context.Context, accountID uuid.UUID, p plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subKey{accountID: accountID, plan: p}]
	if ok && sub.Status == StatusTrial {
		sub.Status = StatusTrialExpired
	}
	return nil
}
