// Package store persists asset records. Implementations return sentinel
// errors; services translate them into coded domain errors.
package store

import (
	"context"

	"hangar/internal/asset/models"
	"hangar/pkg/domain"
)

// Store is the asset record persistence contract shared by the issuance
// controller and the marketplace engine.
type Store interface {
	// Create inserts a new record. Fails with sentinel.ErrConflict when the
	// id or the metadata hash is already bound.
	Create(ctx context.Context, asset *models.Asset) error

	// Get returns the record for id or sentinel.ErrNotFound.
	Get(ctx context.Context, id domain.AssetID) (*models.Asset, error)

	// List returns all minted records in id order.
	List(ctx context.Context) ([]*models.Asset, error)

	// ListByOwner returns records whose tracked owner matches, in id order.
	ListByOwner(ctx context.Context, owner domain.AccountID) ([]*models.Asset, error)

	// HashBound reports whether the metadata hash is bound to any asset.
	HashBound(ctx context.Context, hash domain.MetadataHash) (bool, error)

	// Execute atomically loads the record, runs validate, and applies mutate
	// while holding the record lock. The first failed validation aborts with
	// zero state change. Returns the mutated record.
	Execute(ctx context.Context, id domain.AssetID,
		validate func(*models.Asset) error,
		mutate func(*models.Asset)) (*models.Asset, error)
}
