package store

import (
	"context"
	"sync"

	"hangar/internal/settings/models"
)

// InMemory holds the settings in process memory.
type InMemory struct {
	mu       sync.RWMutex
	settings models.Settings
}

func NewInMemory(initial models.Settings) *InMemory {
	return &InMemory{settings: initial}
}

func (s *InMemory) Get(_ context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *InMemory) Update(_ context.Context, validate func(models.Settings) error, mutate func(*models.Settings)) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if validate != nil {
		if err := validate(s.settings); err != nil {
			return models.Settings{}, err
		}
	}
	next := s.settings
	mutate(&next)
	s.settings = next
	return next, nil
}
