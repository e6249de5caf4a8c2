package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
)

const testHash = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func newTestAsset() *Asset {
	return NewAsset(1, domain.MetadataHash(testHash), "alice", time.Now())
}

func TestListingTransitions(t *testing.T) {
	now := time.Now()

	t.Run("minted asset is unlisted with zero price", func(t *testing.T) {
		a := newTestAsset()
		assert.False(t, a.Listed)
		assert.Zero(t, a.Price)
		assert.True(t, a.Seller.IsZero())
	})

	t.Run("rejects zero price", func(t *testing.T) {
		a := newTestAsset()
		err := a.CanList(0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidPrice))
	})

	t.Run("rejects re-listing", func(t *testing.T) {
		a := newTestAsset()
		require.NoError(t, a.CanList(100))
		a.ApplyListing("alice", 100, now)

		err := a.CanList(200)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyListed))
	})

	t.Run("listing implies positive price", func(t *testing.T) {
		a := newTestAsset()
		a.ApplyListing("alice", 100, now)
		assert.True(t, a.Listed)
		assert.EqualValues(t, 100, a.Price)
		assert.Equal(t, domain.AccountID("alice"), a.Seller)
	})
}

func TestPriceUpdate(t *testing.T) {
	now := time.Now()

	t.Run("rejects update on unlisted asset", func(t *testing.T) {
		a := newTestAsset()
		err := a.CanUpdatePrice(50)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotListed))
	})

	t.Run("rejects zero price", func(t *testing.T) {
		a := newTestAsset()
		a.ApplyListing("alice", 100, now)
		err := a.CanUpdatePrice(0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidPrice))
	})

	t.Run("overwrites price and keeps listing active", func(t *testing.T) {
		a := newTestAsset()
		a.ApplyListing("alice", 100, now)
		require.NoError(t, a.CanUpdatePrice(250))
		a.ApplyPriceUpdate(250, now)
		assert.True(t, a.Listed)
		assert.EqualValues(t, 250, a.Price)
	})
}

func TestDelisting(t *testing.T) {
	now := time.Now()

	t.Run("cancel requires an active listing", func(t *testing.T) {
		a := newTestAsset()
		err := a.CanCancel()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotListed))
	})

	t.Run("delisting zeroes all listing fields", func(t *testing.T) {
		a := newTestAsset()
		a.ApplyListing("alice", 100, now)
		a.ApplyDelisting(now)
		assert.False(t, a.Listed)
		assert.Zero(t, a.Price)
		assert.True(t, a.Seller.IsZero())
	})
}

func TestTransferInvalidatesListing(t *testing.T) {
	now := time.Now()

	a := newTestAsset()
	a.ApplyListing("alice", 100, now)
	a.ApplyTransfer("bob", now)

	assert.Equal(t, domain.AccountID("bob"), a.Owner)
	assert.False(t, a.Listed)
	assert.Zero(t, a.Price)
	assert.True(t, a.Seller.IsZero())
}
