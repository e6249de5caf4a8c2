package store

import (
	"context"
	"sync"

	"hangar/internal/accounts/models"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
)

type InMemory struct {
	mu          sync.RWMutex
	credentials map[domain.AccountID]models.Credential
}

func NewInMemory() *InMemory {
	return &InMemory{credentials: make(map[domain.AccountID]models.Credential)}
}

func (s *InMemory) Create(_ context.Context, credential models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[credential.Account]; ok {
		return sentinel.ErrConflict
	}
	s.credentials[credential.Account] = credential
	return nil
}

func (s *InMemory) Get(_ context.Context, account domain.AccountID) (models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credential, ok := s.credentials[account]
	if !ok {
		return models.Credential{}, sentinel.ErrNotFound
	}
	return credential, nil
}

func (s *InMemory) Delete(_ context.Context, account domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials[account]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.credentials, account)
	return nil
}
