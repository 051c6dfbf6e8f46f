package trial

import (
	"context"
	"sync"

	"github.com/dmitrymomot/billingkit/pkg/plan"
)

type trackerKey struct {
	email string
	plan  plan.Plan
}

// memoryStore implements TrackerStore with a mutex-guarded set, matching the
// insert-once semantics of the SQL store's unique constraint.
type memoryStore struct {
	mu       sync.Mutex
	trackers map[trackerKey]struct{}
}

// NewMemoryStore returns an in-memory tracker store.
func NewMemoryStore() TrackerStore {
	return &memoryStore{
		trackers: make(map[trackerKey]struct{}),
	}
}

func (s *memoryStore) Exists(ctx context.Context, email string, p plan.Plan) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.trackers[trackerKey{email: email, plan: p}]
	return ok, nil
}

func (s *memoryStore) Insert(ctx context.Context, email string, p plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := trackerKey{email: email, plan: p}
	if _, exists := s.trackers[key]; exists {
		return ErrAlreadyUsed
	}
	s.trackers[key] = struct{}{}
	return nil
}
