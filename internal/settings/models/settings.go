// Package models defines the mutable collection-level configuration.
package models

import (
	"hangar/internal/platform/config"
	"hangar/pkg/domain"
)

// Settings is the singleton collection configuration. The administrator
// gates every privileged operation across the registry and marketplace.
type Settings struct {
	Administrator domain.AccountID
	BaseURI       string
	ContractURI   string
	RoyaltyBps    uint64
	Treasury      domain.AccountID
	PayoutPolicy  config.PayoutPolicy
	PaymentPolicy config.PaymentPolicy
}

// TokenURI resolves the public metadata location for an asset hash.
// An empty base URI means metadata is served by hash alone.
func (s Settings) TokenURI(hash domain.MetadataHash) string {
	if s.BaseURI == "" {
		return hash.String()
	}
	return s.BaseURI + hash.String()
}
