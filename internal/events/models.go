// Package events carries the lifecycle notifications external observers
// consume: mint, listing, cancellation, relisting, settlement, and direct
// transfer.
package events

import (
	"time"

	"hangar/pkg/domain"
)

// Type names a lifecycle notification.
type Type string

const (
	TypeAssetMinted      Type = "asset.minted"
	TypeAssetListed      Type = "asset.listed"
	TypeAssetCancelled   Type = "asset.cancelled"
	TypeAssetRelisted    Type = "asset.relisted"
	TypeAssetSold        Type = "asset.sold"
	TypeAssetTransferred Type = "asset.transferred"
)

// Event is one lifecycle notification. Fields irrelevant to a given type are
// left zero and omitted on the wire.
type Event struct {
	ID           string              `json:"id"`
	Type         Type                `json:"type"`
	AssetID      domain.AssetID      `json:"asset_id"`
	Owner        domain.AccountID    `json:"owner,omitempty"`
	Seller       domain.AccountID    `json:"seller,omitempty"`
	Buyer        domain.AccountID    `json:"buyer,omitempty"`
	Price        uint64              `json:"price,omitempty"`
	MetadataHash domain.MetadataHash `json:"metadata_hash,omitempty"`
	Timestamp    time.Time           `json:"timestamp"`
}
