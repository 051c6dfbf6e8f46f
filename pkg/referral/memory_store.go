package referral

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type milestoneKey struct {
	accountID uuid.UUID
	milestone int
}

// memoryStore implements Store with mutex-guarded maps. IncrementCount and
// ClaimMilestone run under one lock, giving the same atomicity the SQL store
// gets from row-level increments and the (owner, milestone) primary key.
type memoryStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*State
	claims map[milestoneKey]struct{}
}

// NewMemoryStore returns an in-memory referral store.
func NewMemoryStore() Store {
	return &memoryStore{
		states: make(map[uuid.UUID]*State),
		claims: make(map[milestoneKey]struct{}),
	}
}

func (s *memoryStore) GetState(ctx context.Context, accountID uuid.UUID) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[accountID]
	if !ok {
		return nil, ErrNotOptedIn
	}

	cp := *state
	return &cp, nil
}

func (s *memoryStore) CreateState(ctx context.Context, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.states[state.AccountID]; exists {
		return ErrAlreadyOptedIn
	}

	cp := *state
	s.states[state.AccountID] = &cp
	return nil
}

func (s *memoryStore) IncrementCount(ctx context.Context, accountID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[accountID]
	if !ok {
		return 0, ErrNotOptedIn
	}

	state.ReferralCount++
	return state.ReferralCount, nil
}

func (s *memoryStore) ClaimMilestone(ctx context.Context, accountID uuid.UUID, milestone int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := milestoneKey{accountID: accountID, milestone: milestone}
	if _, exists := s.claims[key]; exists {
		return false, nil
	}
	s.claims[key] = struct{}{}
	return true, nil
}
