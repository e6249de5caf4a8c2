package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"hangar/internal/platform/config"
	"hangar/internal/platform/logger"
	"hangar/internal/settings/models"
	"hangar/internal/settings/store"
	dErrors "hangar/pkg/domain-errors"
)

const metadataHash = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

type SettingsServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func TestSettingsServiceSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.service = New(store.NewInMemory(models.Settings{
		Administrator: "admin",
		PayoutPolicy:  config.PayoutDirectToSeller,
		PaymentPolicy: config.PaymentExact,
	}), WithLogger(logger.NewTest()))
}

func (s *SettingsServiceSuite) TestIsAdmin() {
	ok, err := s.service.IsAdmin(s.ctx, "admin")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.IsAdmin(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.service.IsAdmin(s.ctx, "")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *SettingsServiceSuite) TestTransferAdmin() {
	s.Run("rejects non-administrator", func() {
		err := s.service.TransferAdmin(s.ctx, "alice", "bob")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("rejects empty successor", func() {
		err := s.service.TransferAdmin(s.ctx, "admin", "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("hands over the role", func() {
		s.Require().NoError(s.service.TransferAdmin(s.ctx, "admin", "bob"))

		ok, err := s.service.IsAdmin(s.ctx, "bob")
		s.Require().NoError(err)
		s.True(ok)

		ok, err = s.service.IsAdmin(s.ctx, "admin")
		s.Require().NoError(err)
		s.False(ok, "previous administrator loses the role")
	})
}

func (s *SettingsServiceSuite) TestTokenURI() {
	s.Run("without base uri", func() {
		uri, err := s.service.TokenURI(s.ctx, metadataHash)
		s.Require().NoError(err)
		s.Equal(metadataHash, uri)
	})

	s.Run("with base uri", func() {
		s.Require().NoError(s.service.SetBaseURI(s.ctx, "admin", "ipfs://"))

		uri, err := s.service.TokenURI(s.ctx, metadataHash)
		s.Require().NoError(err)
		s.Equal("ipfs://"+metadataHash, uri)
	})
}

func (s *SettingsServiceSuite) TestSetRoyalty() {
	s.Require().NoError(s.service.SetRoyalty(s.ctx, "admin", 500))

	settings, err := s.service.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(500), settings.RoyaltyBps)

	err = s.service.SetRoyalty(s.ctx, "admin", 10_001)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *SettingsServiceSuite) TestSetPolicies() {
	s.Run("accepts known policies", func() {
		s.Require().NoError(s.service.SetPayoutPolicy(s.ctx, "admin", config.PayoutTreasury))
		s.Require().NoError(s.service.SetPaymentPolicy(s.ctx, "admin", config.PaymentMinimum))

		settings, err := s.service.Get(s.ctx)
		s.Require().NoError(err)
		s.Equal(config.PayoutTreasury, settings.PayoutPolicy)
		s.Equal(config.PaymentMinimum, settings.PaymentPolicy)
	})

	s.Run("rejects unknown policies", func() {
		err := s.service.SetPayoutPolicy(s.ctx, "admin", "escrow")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		err = s.service.SetPaymentPolicy(s.ctx, "admin", "auction")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
