package coupon

import (
	"context"
	"sync"
)

// MemoryStore implements Store with a mutex-guarded map. It honors the same
// atomicity contract as the SQL store and is used in tests and local setups.
type MemoryStore struct {
	mu      sync.Mutex
	coupons map[string]*Coupon
}

// NewMemoryStore returns an in-memory coupon store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		coupons: make(map[string]*Coupon),
	}
}

func (s *MemoryStore) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.coupons[NormalizeCode(code)]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *c
	return &cp, nil
}

func (s *MemoryStore) Create(ctx context.Context, c *Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := NormalizeCode(c.Code)
	if _, exists := s.coupons[key]; exists {
		return ErrDuplicateCode
	}

	cp := *c
	cp.Code = key
	s.coupons[key] = &cp
	return nil
}

func (s *MemoryStore) ConsumeUse(ctx context.Context, code string) (*Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.coupons[NormalizeCode(code)]
	if !ok {
		return nil, ErrNotFound
	}
	if c.IsExhausted() {
		return nil, ErrExhausted
	}

	c.UsedCount++
	cp := *c
	return &cp, nil
}

// Coupons returns a copy of every stored coupon. Test helper.
func (s *MemoryStore) Coupons() []Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, *c)
	}
	return out
}
