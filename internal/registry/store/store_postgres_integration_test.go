//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"hangar/internal/platform/postgres"
	"hangar/internal/registry/store"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/testutil/containers"
)

type PostgresOwnershipSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
}

func TestPostgresOwnershipSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresOwnershipSuite))
}

func (s *PostgresOwnershipSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.pg.DB))
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *PostgresOwnershipSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PostgresOwnershipSuite) TestIssueAndOwnership() {
	ctx := context.Background()
	s.Require().NoError(s.store.Issue(ctx, "alice", 1))

	owner, err := s.store.OwnerOf(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), owner)

	s.ErrorIs(s.store.Issue(ctx, "bob", 1), sentinel.ErrConflict)

	count, err := s.store.BalanceOf(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(uint64(1), count)
}

func (s *PostgresOwnershipSuite) TestTransferGuardsCurrentOwner() {
	ctx := context.Background()
	s.Require().NoError(s.store.Issue(ctx, "alice", 1))

	s.ErrorIs(s.store.Transfer(ctx, "bob", "carol", 1), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.Transfer(ctx, "alice", "bob", 99), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Transfer(ctx, "alice", "bob", 1))
	owner, err := s.store.OwnerOf(ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("bob"), owner)
}

func (s *PostgresOwnershipSuite) TestAssetsOwnedByAscending() {
	ctx := context.Background()
	s.Require().NoError(s.store.Issue(ctx, "alice", 3))
	s.Require().NoError(s.store.Issue(ctx, "alice", 1))
	s.Require().NoError(s.store.Issue(ctx, "bob", 2))

	owned, err := s.store.AssetsOwnedBy(ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]domain.AssetID{1, 3}, owned)

	none, err := s.store.AssetsOwnedBy(ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}
