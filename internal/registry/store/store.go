// Package store persists the ownership ledger: which account owns which
// asset identifier.
package store

import (
	"context"

	"hangar/pkg/domain"
)

// Store is the ownership persistence contract. Implementations return
// sentinel errors; the registry service translates them.
type Store interface {
	// Issue records first ownership of a newly minted identifier. Fails with
	// sentinel.ErrConflict when the identifier already exists.
	Issue(ctx context.Context, to domain.AccountID, id domain.AssetID) error

	// OwnerOf returns the current owner or sentinel.ErrNotFound.
	OwnerOf(ctx context.Context, id domain.AssetID) (domain.AccountID, error)

	// BalanceOf returns how many assets the account currently owns.
	BalanceOf(ctx context.Context, account domain.AccountID) (uint64, error)

	// Transfer moves ownership. Fails with sentinel.ErrNotFound for an
	// unknown identifier and sentinel.ErrInvalidState when from is not the
	// current owner.
	Transfer(ctx context.Context, from, to domain.AccountID, id domain.AssetID) error

	// AssetsOwnedBy enumerates identifiers owned by the account, ascending.
	AssetsOwnedBy(ctx context.Context, account domain.AccountID) ([]domain.AssetID, error)
}
