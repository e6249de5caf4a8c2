package store

import (
	"context"
	"sort"
	"sync"

	"hangar/internal/asset/models"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
)

// InMemory keeps asset records in maps behind one RWMutex, with a metadata
// hash index for O(1) uniqueness checks.
type InMemory struct {
	mu     sync.RWMutex
	assets map[domain.AssetID]*models.Asset
	byHash map[domain.MetadataHash]domain.AssetID
}

func NewInMemory() *InMemory {
	return &InMemory{
		assets: make(map[domain.AssetID]*models.Asset),
		byHash: make(map[domain.MetadataHash]domain.AssetID),
	}
}

func (s *InMemory) Create(_ context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assets[asset.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, bound := s.byHash[asset.MetadataHash]; bound {
		return sentinel.ErrConflict
	}
	cp := *asset
	s.assets[asset.ID] = &cp
	s.byHash[asset.MetadataHash] = asset.ID
	return nil
}

func (s *InMemory) Get(_ context.Context, id domain.AssetID) (*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *asset
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(*models.Asset) bool { return true }), nil
}

func (s *InMemory) ListByOwner(_ context.Context, owner domain.AccountID) ([]*models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(a *models.Asset) bool { return a.Owner == owner }), nil
}

func (s *InMemory) HashBound(_ context.Context, hash domain.MetadataHash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, bound := s.byHash[hash]
	return bound, nil
}

func (s *InMemory) Execute(_ context.Context, id domain.AssetID,
	validate func(*models.Asset) error,
	mutate func(*models.Asset)) (*models.Asset, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.assets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(asset); err != nil {
		return nil, err
	}
	mutate(asset)
	cp := *asset
	return &cp, nil
}

// snapshot copies matching records in id order. Caller holds at least the
// read lock.
func (s *InMemory) snapshot(match func(*models.Asset) bool) []*models.Asset {
	out := make([]*models.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
