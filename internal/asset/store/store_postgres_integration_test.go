//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hangar/internal/asset/models"
	"hangar/internal/asset/store"
	"hangar/internal/platform/postgres"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.pg.DB))
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) mint(id domain.AssetID, hash domain.MetadataHash, owner domain.AccountID) *models.Asset {
	asset := models.NewAsset(id, hash, owner, time.Now().UTC())
	s.Require().NoError(s.store.Create(context.Background(), asset))
	return asset
}

func (s *PostgresStoreSuite) TestCreateAndGet() {
	ctx := context.Background()
	s.mint(1, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "alice")

	got, err := s.store.Get(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), got.Owner)
	s.False(got.Listed)

	bound, err := s.store.HashBound(ctx, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
	s.Require().NoError(err)
	s.True(bound)
}

func (s *PostgresStoreSuite) TestDuplicateHashRejected() {
	ctx := context.Background()
	s.mint(1, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "alice")

	dup := models.NewAsset(2, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "bob", time.Now().UTC())
	err := s.store.Create(ctx, dup)
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.Get(ctx, 2)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestExecuteAbortsOnValidateError() {
	ctx := context.Background()
	s.mint(1, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "alice")

	sentinelErr := sentinel.ErrInvalidState
	_, err := s.store.Execute(ctx, 1,
		func(a *models.Asset) error { return sentinelErr },
		func(a *models.Asset) { a.ApplyListing("alice", 100, time.Now().UTC()) })
	s.ErrorIs(err, sentinelErr)

	got, err := s.store.Get(ctx, 1)
	s.Require().NoError(err)
	s.False(got.Listed, "a failed validation must leave the record untouched")
	s.Zero(got.Price)
}

// TestConcurrentListing drives many listing attempts at the same record. The
// row lock serializes them, so exactly one sees an unlisted record and wins.
func (s *PostgresStoreSuite) TestConcurrentListing() {
	ctx := context.Background()
	s.mint(1, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "alice")

	const goroutines = 20
	var wg sync.WaitGroup
	var wins atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(price uint64) {
			defer wg.Done()
			_, err := s.store.Execute(ctx, 1,
				func(a *models.Asset) error { return a.CanList(price) },
				func(a *models.Asset) { a.ApplyListing("alice", price, time.Now().UTC()) })
			if err == nil {
				wins.Add(1)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load(), "exactly one listing attempt should succeed")

	got, err := s.store.Get(ctx, 1)
	s.Require().NoError(err)
	s.True(got.Listed)
	s.NotZero(got.Price)
}

func (s *PostgresStoreSuite) TestListByOwnerOrdering() {
	ctx := context.Background()
	s.mint(3, "QmbWqxBEKC3P8tqsKc98xmWNzrzDtRLMiMPL8wBuTGsMnR", "alice")
	s.mint(1, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", "alice")
	s.mint(2, "QmPZ9gcCEpqKTo6aq61g2nXGUhM4iCL3ewB6LDXZCtioEB", "bob")

	owned, err := s.store.ListByOwner(ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(owned, 2)
	s.Equal(domain.AssetID(1), owned[0].ID)
	s.Equal(domain.AssetID(3), owned[1].ID)

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}
