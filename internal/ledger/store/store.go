// Package store persists account credit balances used to settle purchases.
package store

import (
	"context"

	"hangar/pkg/domain"
)

// Store tracks per-account balances in the smallest currency unit.
type Store interface {
	// Deposit credits an account, creating it at zero if unknown.
	Deposit(ctx context.Context, account domain.AccountID, amount uint64) error

	// Balance returns the current balance. Unknown accounts hold zero.
	Balance(ctx context.Context, account domain.AccountID) (uint64, error)

	// Transfer moves amount from one account to another. It fails with
	// sentinel.ErrInsufficient when the source balance is too small.
	// Callers settling multi-step work run it inside a tx.Runner unit.
	Transfer(ctx context.Context, from, to domain.AccountID, amount uint64) error
}
