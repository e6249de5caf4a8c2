// Package service manages the collection settings and answers
// administrator checks for the rest of the application.
package service

import (
	"context"
	"errors"
	"log/slog"

	"hangar/internal/platform/config"
	"hangar/internal/settings/models"
	"hangar/internal/settings/store"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
)

// maxRoyaltyBps caps royalties at 100% of the sale price.
const maxRoyaltyBps = 10_000

type Service struct {
	store  store.Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context) (models.Settings, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		return models.Settings{}, dErrors.Wrap(err, dErrors.CodeInternal, "load settings")
	}
	return settings, nil
}

// IsAdmin satisfies the AdminChecker interfaces of the other services.
func (s *Service) IsAdmin(ctx context.Context, account domain.AccountID) (bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return !account.IsZero() && account == settings.Administrator, nil
}

// TokenURI resolves the metadata location for an asset hash.
func (s *Service) TokenURI(ctx context.Context, hash domain.MetadataHash) (string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return settings.TokenURI(hash), nil
}

// TransferAdmin hands the administrator role to another account.
func (s *Service) TransferAdmin(ctx context.Context, caller, next domain.AccountID) error {
	if next.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "new administrator is required")
	}
	return s.update(ctx, caller, "administrator transferred", func(settings *models.Settings) {
		settings.Administrator = next
	})
}

func (s *Service) SetBaseURI(ctx context.Context, caller domain.AccountID, uri string) error {
	return s.update(ctx, caller, "base uri updated", func(settings *models.Settings) {
		settings.BaseURI = uri
	})
}

func (s *Service) SetContractURI(ctx context.Context, caller domain.AccountID, uri string) error {
	return s.update(ctx, caller, "contract uri updated", func(settings *models.Settings) {
		settings.ContractURI = uri
	})
}

func (s *Service) SetRoyalty(ctx context.Context, caller domain.AccountID, bps uint64) error {
	if bps > maxRoyaltyBps {
		return dErrors.Newf(dErrors.CodeInvalidInput, "royalty exceeds %d basis points", maxRoyaltyBps)
	}
	return s.update(ctx, caller, "royalty updated", func(settings *models.Settings) {
		settings.RoyaltyBps = bps
	})
}

func (s *Service) SetTreasury(ctx context.Context, caller, treasury domain.AccountID) error {
	return s.update(ctx, caller, "treasury updated", func(settings *models.Settings) {
		settings.Treasury = treasury
	})
}

func (s *Service) SetPayoutPolicy(ctx context.Context, caller domain.AccountID, policy config.PayoutPolicy) error {
	if policy != config.PayoutDirectToSeller && policy != config.PayoutTreasury {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown payout policy %q", policy)
	}
	return s.update(ctx, caller, "payout policy updated", func(settings *models.Settings) {
		settings.PayoutPolicy = policy
	})
}

func (s *Service) SetPaymentPolicy(ctx context.Context, caller domain.AccountID, policy config.PaymentPolicy) error {
	if policy != config.PaymentExact && policy != config.PaymentMinimum {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown payment policy %q", policy)
	}
	return s.update(ctx, caller, "payment policy updated", func(settings *models.Settings) {
		settings.PaymentPolicy = policy
	})
}

func (s *Service) update(ctx context.Context, caller domain.AccountID, msg string, mutate func(*models.Settings)) error {
	_, err := s.store.Update(ctx, func(current models.Settings) error {
		if caller.IsZero() || caller != current.Administrator {
			return dErrors.New(dErrors.CodeUnauthorized, "administrator only")
		}
		return nil
	}, mutate)
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update settings")
	}
	s.logger.InfoContext(ctx, msg, "caller", caller)
	return nil
}
