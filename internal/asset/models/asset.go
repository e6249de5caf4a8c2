package models

import (
	"time"

	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
)

// Asset is one minted drone identity. Records are created only by the
// issuance controller's mint path and are never deleted.
//
// Invariants:
//   - Listed == true implies Price > 0
//   - MetadataHash is bound to at most one asset id at any time
//   - Listing fields (Price, Seller, Listed) are mutated only by the
//     marketplace engine and zeroed on purchase, cancellation, or listing
//     invalidation
//
// Seller is the account recorded at listing time and entitled to sale
// proceeds. It may diverge from the registry-current owner if the asset was
// transferred outside the marketplace; that divergence is what marks a
// listing stale.
type Asset struct {
	ID           domain.AssetID      `json:"id"`
	MetadataHash domain.MetadataHash `json:"metadata_hash"`
	Owner        domain.AccountID    `json:"owner"`
	Seller       domain.AccountID    `json:"seller,omitempty"`
	Price        uint64              `json:"price"`
	Listed       bool                `json:"listed"`
	MintedAt     time.Time           `json:"minted_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewAsset constructs the record created at mint time: owned by the minter,
// not listed.
func NewAsset(id domain.AssetID, hash domain.MetadataHash, owner domain.AccountID, now time.Time) *Asset {
	return &Asset{
		ID:           id,
		MetadataHash: hash,
		Owner:        owner,
		MintedAt:     now,
		UpdatedAt:    now,
	}
}

// CanList checks that a new listing may be recorded. Re-listing an already
// listed asset is rejected; price changes go through CanUpdatePrice.
func (a *Asset) CanList(price uint64) error {
	if a.Listed {
		return dErrors.New(dErrors.CodeAlreadyListed, "asset is already listed")
	}
	if price == 0 {
		return dErrors.New(dErrors.CodeInvalidPrice, "price must be greater than zero")
	}
	return nil
}

// ApplyListing records the sale offer. Call CanList first.
func (a *Asset) ApplyListing(seller domain.AccountID, price uint64, now time.Time) {
	a.Seller = seller
	a.Price = price
	a.Listed = true
	a.UpdatedAt = now
}

// CanUpdatePrice checks that the active listing's price may be overwritten.
func (a *Asset) CanUpdatePrice(newPrice uint64) error {
	if !a.Listed {
		return dErrors.New(dErrors.CodeNotListed, "asset is not listed")
	}
	if newPrice == 0 {
		return dErrors.New(dErrors.CodeInvalidPrice, "price must be greater than zero")
	}
	return nil
}

// ApplyPriceUpdate overwrites the price; the listing stays active.
func (a *Asset) ApplyPriceUpdate(newPrice uint64, now time.Time) {
	a.Price = newPrice
	a.UpdatedAt = now
}

// CanCancel checks that an active listing exists.
func (a *Asset) CanCancel() error {
	if !a.Listed {
		return dErrors.New(dErrors.CodeNotListed, "asset is not listed")
	}
	return nil
}

// ApplyDelisting clears the listing fields to their zero values.
func (a *Asset) ApplyDelisting(now time.Time) {
	a.Price = 0
	a.Seller = ""
	a.Listed = false
	a.UpdatedAt = now
}

// ApplyTransfer moves the tracked owner to the new holder and force-clears
// any active listing. Invoked synchronously on every ownership-changing
// path, purchases included.
func (a *Asset) ApplyTransfer(newOwner domain.AccountID, now time.Time) {
	a.Owner = newOwner
	a.ApplyDelisting(now)
}
