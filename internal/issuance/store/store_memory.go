package store

import (
	"context"
	"sort"
	"sync"

	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
)

// InMemory keeps issuance state behind one RWMutex. The allow-list is a set
// keyed by account, so Add is idempotent and membership is O(1).
type InMemory struct {
	mu        sync.RWMutex
	supply    SupplyState
	allowlist map[domain.AccountID]struct{}
}

// NewInMemory starts with the given supply limit and minting disabled.
func NewInMemory(supplyLimit uint64) *InMemory {
	return &InMemory{
		supply:    SupplyState{Limit: supplyLimit},
		allowlist: make(map[domain.AccountID]struct{}),
	}
}

func (s *InMemory) Supply(context.Context) (SupplyState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply, nil
}

func (s *InMemory) AllocateID(context.Context) (domain.AssetID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.supply.Issued >= s.supply.Limit {
		return 0, sentinel.ErrInvalidState
	}
	s.supply.Issued++
	return domain.AssetID(s.supply.Issued), nil
}

func (s *InMemory) SetMintEnabled(_ context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supply.MintEnabled = enabled
	return nil
}

func (s *InMemory) SetSupplyLimit(_ context.Context, newLimit uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newLimit <= s.supply.Limit {
		return sentinel.ErrInvalidState
	}
	s.supply.Limit = newLimit
	return nil
}

func (s *InMemory) AllowlistAdd(_ context.Context, account domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowlist[account] = struct{}{}
	return nil
}

func (s *InMemory) AllowlistRemove(_ context.Context, account domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.allowlist, account)
	return nil
}

func (s *InMemory) IsAllowlisted(_ context.Context, account domain.AccountID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.allowlist[account]
	return ok, nil
}

func (s *InMemory) Allowlist(context.Context) ([]domain.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccountID, 0, len(s.allowlist))
	for account := range s.allowlist {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
