package store

import (
	"context"
	"sort"
	"sync"

	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
)

// InMemory keeps ownership in maps behind one RWMutex, with a per-owner
// index for enumeration.
type InMemory struct {
	mu      sync.RWMutex
	owners  map[domain.AssetID]domain.AccountID
	byOwner map[domain.AccountID]map[domain.AssetID]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		owners:  make(map[domain.AssetID]domain.AccountID),
		byOwner: make(map[domain.AccountID]map[domain.AssetID]struct{}),
	}
}

func (s *InMemory) Issue(_ context.Context, to domain.AccountID, id domain.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.owners[id]; exists {
		return sentinel.ErrConflict
	}
	s.owners[id] = to
	s.index(to, id)
	return nil
}

func (s *InMemory) OwnerOf(_ context.Context, id domain.AssetID) (domain.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[id]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return owner, nil
}

func (s *InMemory) BalanceOf(_ context.Context, account domain.AccountID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.byOwner[account])), nil
}

func (s *InMemory) Transfer(_ context.Context, from, to domain.AccountID, id domain.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner != from {
		return sentinel.ErrInvalidState
	}
	s.owners[id] = to
	delete(s.byOwner[from], id)
	s.index(to, id)
	return nil
}

func (s *InMemory) AssetsOwnedBy(_ context.Context, account domain.AccountID) ([]domain.AssetID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.AssetID, 0, len(s.byOwner[account]))
	for id := range s.byOwner[account] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// index adds id to the owner's enumeration set. Caller holds the write lock.
func (s *InMemory) index(owner domain.AccountID, id domain.AssetID) {
	set, ok := s.byOwner[owner]
	if !ok {
		set = make(map[domain.AssetID]struct{})
		s.byOwner[owner] = set
	}
	set[id] = struct{}{}
}
