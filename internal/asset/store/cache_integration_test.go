//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hangar/internal/asset/models"
	"hangar/internal/asset/store"
	"hangar/pkg/domain"
	"hangar/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	inner  *store.InMemory
	cached *store.Cached
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.inner = store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cached = store.NewCached(s.inner, s.redis.Client, time.Minute, logger)
}

func (s *CachedStoreSuite) seed(id domain.AssetID, owner domain.AccountID) {
	asset := models.NewAsset(id, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", owner, time.Now().UTC())
	s.Require().NoError(s.cached.Create(context.Background(), asset))
}

func (s *CachedStoreSuite) TestReadThrough() {
	ctx := context.Background()
	s.seed(1, "alice")

	first, err := s.cached.Get(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), first.Owner)

	// The second read must come from the cache. Mutating the backing store
	// directly, without going through the cached wrapper, leaves the cached
	// record visible until it expires or is invalidated.
	_, err = s.inner.Execute(ctx, 1,
		func(a *models.Asset) error { return nil },
		func(a *models.Asset) { a.ApplyTransfer("bob", time.Now().UTC()) })
	s.Require().NoError(err)

	stale, err := s.cached.Get(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), stale.Owner, "second read should be served from cache")
}

func (s *CachedStoreSuite) TestExecuteInvalidates() {
	ctx := context.Background()
	s.seed(1, "alice")

	_, err := s.cached.Get(ctx, 1)
	s.Require().NoError(err)

	_, err = s.cached.Execute(ctx, 1,
		func(a *models.Asset) error { return a.CanList(100) },
		func(a *models.Asset) { a.ApplyListing("alice", 100, time.Now().UTC()) })
	s.Require().NoError(err)

	fresh, err := s.cached.Get(ctx, 1)
	s.Require().NoError(err)
	s.True(fresh.Listed, "mutation must invalidate the cached record")
	s.Equal(uint64(100), fresh.Price)
}

func (s *CachedStoreSuite) TestCorruptEntryFallsBack() {
	ctx := context.Background()
	s.seed(1, "alice")

	err := s.redis.Client.Set(ctx, "hangar:asset:1", "{not json", time.Minute).Err()
	s.Require().NoError(err)

	got, err := s.cached.Get(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), got.Owner, "corrupt cache entry should fall back to the store")
}
