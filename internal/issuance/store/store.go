// Package store persists issuance state: the supply counters, the
// mint-enabled switch, and the allow-list of minting-eligible accounts.
package store

import (
	"context"

	"hangar/pkg/domain"
)

// SupplyState is the issuance bookkeeping. issued <= limit always; limit
// only ever increases.
type SupplyState struct {
	Issued      uint64
	Limit       uint64
	MintEnabled bool
}

// Store is the issuance persistence contract.
type Store interface {
	// Supply returns the current supply state.
	Supply(ctx context.Context) (SupplyState, error)

	// AllocateID re-checks issued < limit and increments the counter,
	// returning the newly assigned sequential identifier (first mint yields
	// 1). Fails with sentinel.ErrInvalidState when the supply is exhausted.
	AllocateID(ctx context.Context) (domain.AssetID, error)

	// SetMintEnabled flips the administrator-controlled switch.
	SetMintEnabled(ctx context.Context, enabled bool) error

	// SetSupplyLimit raises the cap. Fails with sentinel.ErrInvalidState
	// when newLimit does not exceed the current limit.
	SetSupplyLimit(ctx context.Context, newLimit uint64) error

	// AllowlistAdd inserts the account. Idempotent.
	AllowlistAdd(ctx context.Context, account domain.AccountID) error

	// AllowlistRemove deletes the account. Removing an absent account is not
	// an error.
	AllowlistRemove(ctx context.Context, account domain.AccountID) error

	// IsAllowlisted reports membership.
	IsAllowlisted(ctx context.Context, account domain.AccountID) (bool, error)

	// Allowlist returns all members in stable order.
	Allowlist(ctx context.Context) ([]domain.AccountID, error)
}
