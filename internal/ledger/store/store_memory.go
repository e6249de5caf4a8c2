package store

import (
	"context"
	"sync"

	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded balance table for tests and single-node runs.
type InMemory struct {
	mu       sync.RWMutex
	balances map[domain.AccountID]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[domain.AccountID]uint64)}
}

func (s *InMemory) Deposit(_ context.Context, account domain.AccountID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] += amount
	return nil
}

func (s *InMemory) Balance(_ context.Context, account domain.AccountID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[account], nil
}

func (s *InMemory) Transfer(_ context.Context, from, to domain.AccountID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[from] < amount {
		return sentinel.ErrInsufficient
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}
