// Package store persists account credentials.
package store

import (
	"context"

	"hangar/internal/accounts/models"
	"hangar/pkg/domain"
)

type Store interface {
	// Create inserts a credential. Fails with sentinel.ErrConflict when the
	// account is already registered.
	Create(ctx context.Context, credential models.Credential) error

	// Get returns the credential or sentinel.ErrNotFound.
	Get(ctx context.Context, account domain.AccountID) (models.Credential, error)

	// Delete removes a credential. Fails with sentinel.ErrNotFound when the
	// account is unknown.
	Delete(ctx context.Context, account domain.AccountID) error
}
