//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"hangar/internal/issuance/store"
	"hangar/internal/platform/postgres"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/testutil/containers"
)

type PostgresSupplySuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.Postgres
}

func TestPostgresSupplySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSupplySuite))
}

func (s *PostgresSupplySuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.EnsureSchema(context.Background(), s.pg.DB))
	s.store = store.NewPostgres(s.pg.DB)
}

func (s *PostgresSupplySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateAll(ctx))
	s.Require().NoError(s.store.Seed(ctx, 100))
}

func (s *PostgresSupplySuite) TestSeedIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.Seed(ctx, 999))

	state, err := s.store.Supply(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(100), state.Limit, "re-seeding must not overwrite existing state")
	s.Zero(state.Issued)
}

func (s *PostgresSupplySuite) TestAllocateIDSequential() {
	ctx := context.Background()
	first, err := s.store.AllocateID(ctx)
	s.Require().NoError(err)
	s.Equal(domain.AssetID(1), first)

	second, err := s.store.AllocateID(ctx)
	s.Require().NoError(err)
	s.Equal(domain.AssetID(2), second)

	state, err := s.store.Supply(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), state.Issued)
}

// TestConcurrentAllocation hammers AllocateID and checks that the counter
// hands out each identifier exactly once.
func (s *PostgresSupplySuite) TestConcurrentAllocation() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[domain.AssetID]bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.store.AllocateID(ctx)
			if err != nil {
				return
			}
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(seen, goroutines, "every allocation should yield a distinct identifier")

	state, err := s.store.Supply(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(goroutines), state.Issued)
}

func (s *PostgresSupplySuite) TestSupplyExhaustion() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateAll(ctx))
	s.Require().NoError(s.store.Seed(ctx, 2))

	_, err := s.store.AllocateID(ctx)
	s.Require().NoError(err)
	_, err = s.store.AllocateID(ctx)
	s.Require().NoError(err)

	_, err = s.store.AllocateID(ctx)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	state, err := s.store.Supply(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), state.Issued, "a failed allocation must not bump the counter")
}

func (s *PostgresSupplySuite) TestSupplyLimitRaiseOnly() {
	ctx := context.Background()
	s.ErrorIs(s.store.SetSupplyLimit(ctx, 100), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.SetSupplyLimit(ctx, 50), sentinel.ErrInvalidState)

	s.Require().NoError(s.store.SetSupplyLimit(ctx, 200))
	state, err := s.store.Supply(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(200), state.Limit)
}

func (s *PostgresSupplySuite) TestMintSwitch() {
	ctx := context.Background()
	state, err := s.store.Supply(ctx)
	s.Require().NoError(err)
	s.False(state.MintEnabled)

	s.Require().NoError(s.store.SetMintEnabled(ctx, true))
	state, err = s.store.Supply(ctx)
	s.Require().NoError(err)
	s.True(state.MintEnabled)
}

func (s *PostgresSupplySuite) TestAllowlistIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.store.AllowlistAdd(ctx, "alice"))
	s.Require().NoError(s.store.AllowlistAdd(ctx, "alice"))
	s.Require().NoError(s.store.AllowlistAdd(ctx, "bob"))

	ok, err := s.store.IsAllowlisted(ctx, "alice")
	s.Require().NoError(err)
	s.True(ok)

	accounts, err := s.store.Allowlist(ctx)
	s.Require().NoError(err)
	s.Len(accounts, 2)

	s.Require().NoError(s.store.AllowlistRemove(ctx, "alice"))
	s.Require().NoError(s.store.AllowlistRemove(ctx, "alice"))

	ok, err = s.store.IsAllowlisted(ctx, "alice")
	s.Require().NoError(err)
	s.False(ok)
}
