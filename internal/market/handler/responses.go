package handler

import (
	"time"

	assetmodels "hangar/internal/asset/models"
	"hangar/pkg/domain"
)

type assetResponse struct {
	ID           domain.AssetID      `json:"id"`
	MetadataHash domain.MetadataHash `json:"metadata_hash"`
	Owner        domain.AccountID    `json:"owner"`
	Listed       bool                `json:"listed"`
	Seller       domain.AccountID    `json:"seller,omitempty"`
	Price        uint64              `json:"price,omitempty"`
	MintedAt     time.Time           `json:"minted_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type ownedAssetsResponse struct {
	Account domain.AccountID `json:"account"`
	Count   int              `json:"count"`
	Assets  []assetResponse  `json:"assets"`
}

func fromAsset(a *assetmodels.Asset) assetResponse {
	return assetResponse{
		ID:           a.ID,
		MetadataHash: a.MetadataHash,
		Owner:        a.Owner,
		Listed:       a.Listed,
		Seller:       a.Seller,
		Price:        a.Price,
		MintedAt:     a.MintedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromAssets(assets []*assetmodels.Asset) []assetResponse {
	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, fromAsset(a))
	}
	return out
}
