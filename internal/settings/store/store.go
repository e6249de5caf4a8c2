// Package store persists the singleton collection settings.
package store

import (
	"context"

	"hangar/internal/settings/models"
)

type Store interface {
	// Get returns the current settings. sentinel.ErrNotFound means the
	// store has never been seeded.
	Get(ctx context.Context) (models.Settings, error)

	// Update replaces the settings after validate approves the current
	// value. mutate edits the value in place.
	Update(ctx context.Context, validate func(models.Settings) error, mutate func(*models.Settings)) (models.Settings, error)
}
