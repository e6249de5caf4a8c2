package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	assetstore "hangar/internal/asset/store"
	"hangar/internal/events"
	"hangar/internal/issuance/store"
	"hangar/internal/platform/logger"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
)

const (
	hashA = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	hashB = "QmbWqxBEKC3P8tqsKc98xmWNzrzDtRLMiMPL8wBuTGsMnR"
	hashC = "QmNrgEMcUygbKzZeZgYFosdd27VE9KnWbyUD73bKZJ3bGi"
)

// fakeRegistry records issued ownership, standing in for the registry
// service in unit tests.
type fakeRegistry struct {
	issued map[domain.AssetID]domain.AccountID
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{issued: make(map[domain.AssetID]domain.AccountID)}
}

func (f *fakeRegistry) Issue(_ context.Context, to domain.AccountID, id domain.AssetID) error {
	f.issued[id] = to
	return nil
}

// staticAdmin treats exactly one account as administrator.
type staticAdmin struct{ admin domain.AccountID }

func (a staticAdmin) IsAdmin(_ context.Context, account domain.AccountID) (bool, error) {
	return account == a.admin, nil
}

type IssuanceServiceSuite struct {
	suite.Suite
	ctx      context.Context
	service  *Service
	store    *store.InMemory
	assets   *assetstore.InMemory
	registry *fakeRegistry
	sink     *events.MemorySink
}

func TestIssuanceServiceSuite(t *testing.T) {
	suite.Run(t, new(IssuanceServiceSuite))
}

func (s *IssuanceServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory(2)
	s.assets = assetstore.NewInMemory()
	s.registry = newFakeRegistry()
	s.sink = events.NewMemorySink()
	s.service = New(s.store, s.assets, s.registry, staticAdmin{admin: "admin"},
		WithPublisher(s.sink),
		WithLogger(logger.NewTest()),
	)
}

func (s *IssuanceServiceSuite) enableMinting(accounts ...domain.AccountID) {
	s.Require().NoError(s.service.SetMintEnabled(s.ctx, "admin", true))
	for _, a := range accounts {
		s.Require().NoError(s.service.AllowlistAdd(s.ctx, "admin", a))
	}
}

func (s *IssuanceServiceSuite) TestMintPreconditionOrder() {
	s.Run("malformed hash is rejected before anything else", func() {
		_, err := s.service.Mint(s.ctx, "alice", "nonsense")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidMetadata))
	})

	s.Run("minting disabled beats supply and allow-list", func() {
		_, err := s.service.Mint(s.ctx, "alice", hashA)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeMintingDisabled))
	})

	s.Run("non-allow-listed caller is rejected", func() {
		s.Require().NoError(s.service.SetMintEnabled(s.ctx, "admin", true))
		_, err := s.service.Mint(s.ctx, "alice", hashA)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotAllowlisted))
	})
}

func (s *IssuanceServiceSuite) TestMintHappyPath() {
	s.enableMinting("alice")

	asset, err := s.service.Mint(s.ctx, "alice", hashA)
	s.Require().NoError(err)

	s.Run("ids are sequential from 1", func() {
		s.Equal(domain.AssetID(1), asset.ID)
	})

	s.Run("new asset is owned by the caller and unlisted", func() {
		s.Equal(domain.AccountID("alice"), asset.Owner)
		s.False(asset.Listed)
		s.Zero(asset.Price)
		s.Equal(domain.AccountID("alice"), s.registry.issued[asset.ID])
	})

	s.Run("issued count increased by exactly 1", func() {
		supply, err := s.service.Supply(s.ctx)
		s.Require().NoError(err)
		s.EqualValues(1, supply.Issued)
	})

	s.Run("mint notification carries id, owner, and hash", func() {
		minted := s.sink.OfType(events.TypeAssetMinted)
		s.Require().Len(minted, 1)
		s.Equal(asset.ID, minted[0].AssetID)
		s.Equal(domain.AccountID("alice"), minted[0].Owner)
		s.Equal(domain.MetadataHash(hashA), minted[0].MetadataHash)
	})
}

func (s *IssuanceServiceSuite) TestMetadataHashUniqueness() {
	s.enableMinting("alice", "bob")

	_, err := s.service.Mint(s.ctx, "alice", hashA)
	s.Require().NoError(err)

	_, err = s.service.Mint(s.ctx, "bob", hashA)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidMetadata))

	s.Run("rejection allocated no id", func() {
		supply, err := s.service.Supply(s.ctx)
		s.Require().NoError(err)
		s.EqualValues(1, supply.Issued)
	})
}

func (s *IssuanceServiceSuite) TestSupplyExhaustion() {
	s.enableMinting("alice")

	_, err := s.service.Mint(s.ctx, "alice", hashA)
	s.Require().NoError(err)
	_, err = s.service.Mint(s.ctx, "alice", hashB)
	s.Require().NoError(err)

	_, err = s.service.Mint(s.ctx, "alice", hashC)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSupplyExhausted))
}

func (s *IssuanceServiceSuite) TestSupplyLimitAdmin() {
	s.Run("non-admin cannot raise the cap", func() {
		err := s.service.SetSupplyLimit(s.ctx, "alice", 10)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("lowering is a distinct failure", func() {
		err := s.service.SetSupplyLimit(s.ctx, "admin", 1)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeSupplyLimitDecrease))
	})

	s.Run("raising the cap unlocks further mints", func() {
		s.enableMinting("alice")
		_, err := s.service.Mint(s.ctx, "alice", hashA)
		s.Require().NoError(err)
		_, err = s.service.Mint(s.ctx, "alice", hashB)
		s.Require().NoError(err)

		s.Require().NoError(s.service.SetSupplyLimit(s.ctx, "admin", 3))
		_, err = s.service.Mint(s.ctx, "alice", hashC)
		s.Require().NoError(err)
	})
}

func (s *IssuanceServiceSuite) TestAllowlistAdmin() {
	s.Run("only admin mutates the allow-list", func() {
		err := s.service.AllowlistAdd(s.ctx, "alice", "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("membership is idempotent and reversible", func() {
		s.Require().NoError(s.service.AllowlistAdd(s.ctx, "admin", "alice"))
		s.Require().NoError(s.service.AllowlistAdd(s.ctx, "admin", "alice"))

		members, err := s.service.Allowlist(s.ctx)
		s.Require().NoError(err)
		s.Len(members, 1)

		ok, err := s.service.IsAllowlisted(s.ctx, "alice")
		s.Require().NoError(err)
		s.True(ok)

		s.Require().NoError(s.service.AllowlistRemove(s.ctx, "admin", "alice"))
		ok, err = s.service.IsAllowlisted(s.ctx, "alice")
		s.Require().NoError(err)
		s.False(ok)
	})
}
