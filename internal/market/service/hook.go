package service

import (
	"context"
	"time"

	assetmodels "hangar/internal/asset/models"
	assetstore "hangar/internal/asset/store"
	registryservice "hangar/internal/registry/service"
	"hangar/pkg/domain"
)

// NewListingInvalidationHook returns the transfer hook the marketplace
// registers with the ownership registry. It runs synchronously inside every
// ownership-changing path, purchases included: the asset record's tracked
// owner follows the registry and any active listing is forced off sale, so
// a directly transferred asset can never be bought against its old listing.
func NewListingInvalidationHook(assets assetstore.Store) registryservice.TransferHook {
	return func(ctx context.Context, id domain.AssetID, _, to domain.AccountID) error {
		_, err := assets.Execute(ctx, id,
			func(*assetmodels.Asset) error { return nil },
			func(a *assetmodels.Asset) { a.ApplyTransfer(to, time.Now().UTC()) },
		)
		if err != nil {
			return translateAssetErr(err, "invalidate listing")
		}
		return nil
	}
}
