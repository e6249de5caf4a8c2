package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hangar/internal/asset/models"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/sentinel"
)

type AssetStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestAssetStoreSuite(t *testing.T) {
	suite.Run(t, new(AssetStoreSuite))
}

func (s *AssetStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *AssetStoreSuite) newAsset(id domain.AssetID, hash string, owner domain.AccountID) *models.Asset {
	return models.NewAsset(id, domain.MetadataHash(hash), owner, time.Now())
}

const (
	hashA = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	hashB = "QmbWqxBEKC3P8tqsKc98xmWNzrzDtRLMiMPL8wBuTGsMnR"
)

func (s *AssetStoreSuite) TestCreateAndGet() {
	s.Run("creates and retrieves by id", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newAsset(1, hashA, "alice")))

		found, err := s.store.Get(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), found.Owner)
		s.Equal(domain.MetadataHash(hashA), found.MetadataHash)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Get(s.ctx, 99)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned record is a copy", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newAsset(2, hashB, "alice")))
		found, err := s.store.Get(s.ctx, 2)
		s.Require().NoError(err)
		found.Owner = "mallory"

		again, err := s.store.Get(s.ctx, 2)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), again.Owner)
	})
}

func (s *AssetStoreSuite) TestMetadataHashUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newAsset(1, hashA, "alice")))

	s.Run("rejects second binding of the same hash", func() {
		err := s.store.Create(s.ctx, s.newAsset(2, hashA, "bob"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("reports a bound hash", func() {
		bound, err := s.store.HashBound(s.ctx, hashA)
		s.Require().NoError(err)
		s.True(bound)

		bound, err = s.store.HashBound(s.ctx, hashB)
		s.Require().NoError(err)
		s.False(bound)
	})
}

func (s *AssetStoreSuite) TestListings() {
	s.Require().NoError(s.store.Create(s.ctx, s.newAsset(1, hashA, "alice")))
	s.Require().NoError(s.store.Create(s.ctx, s.newAsset(2, hashB, "bob")))

	s.Run("lists all in id order", func() {
		all, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 2)
		s.Equal(domain.AssetID(1), all[0].ID)
		s.Equal(domain.AssetID(2), all[1].ID)
	})

	s.Run("lists by owner", func() {
		owned, err := s.store.ListByOwner(s.ctx, "bob")
		s.Require().NoError(err)
		s.Require().Len(owned, 1)
		s.Equal(domain.AssetID(2), owned[0].ID)
	})
}

func (s *AssetStoreSuite) TestExecute() {
	s.Require().NoError(s.store.Create(s.ctx, s.newAsset(1, hashA, "alice")))

	s.Run("applies mutation after validation passes", func() {
		now := time.Now()
		updated, err := s.store.Execute(s.ctx, 1,
			func(a *models.Asset) error { return a.CanList(100) },
			func(a *models.Asset) { a.ApplyListing("alice", 100, now) },
		)
		s.Require().NoError(err)
		s.True(updated.Listed)
		s.EqualValues(100, updated.Price)
	})

	s.Run("failed validation leaves zero state change", func() {
		_, err := s.store.Execute(s.ctx, 1,
			func(a *models.Asset) error { return a.CanList(200) },
			func(a *models.Asset) { a.ApplyListing("alice", 200, time.Now()) },
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyListed))

		found, err := s.store.Get(s.ctx, 1)
		s.Require().NoError(err)
		s.EqualValues(100, found.Price)
	})

	s.Run("unknown id fails with ErrNotFound", func() {
		_, err := s.store.Execute(s.ctx, 42,
			func(*models.Asset) error { return nil },
			func(*models.Asset) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
