// Package service exposes the credit ledger used to settle purchases.
package service

import (
	"context"
	"errors"
	"log/slog"

	"hangar/internal/ledger/store"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/sentinel"
)

// AdminChecker reports whether an account may run privileged operations.
type AdminChecker interface {
	IsAdmin(ctx context.Context, account domain.AccountID) (bool, error)
}

type Service struct {
	store  store.Store
	admin  AdminChecker
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(st store.Store, admin AdminChecker, opts ...Option) *Service {
	s := &Service{
		store:  st,
		admin:  admin,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deposit credits an account. Only the administrator may mint credits.
func (s *Service) Deposit(ctx context.Context, caller, account domain.AccountID, amount uint64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "account is required")
	}
	if amount == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "amount must be positive")
	}
	if err := s.store.Deposit(ctx, account, amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "deposit credits")
	}
	s.logger.InfoContext(ctx, "credits deposited", "account", account, "amount", amount)
	return nil
}

func (s *Service) Balance(ctx context.Context, account domain.AccountID) (uint64, error) {
	balance, err := s.store.Balance(ctx, account)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "query balance")
	}
	return balance, nil
}

// Pay moves amount between accounts on behalf of a settlement.
func (s *Service) Pay(ctx context.Context, from, to domain.AccountID, amount uint64) error {
	err := s.store.Transfer(ctx, from, to, amount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrInsufficient):
		return dErrors.New(dErrors.CodeInsufficientFunds, "balance too low")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "transfer credits")
	}
}

func (s *Service) requireAdmin(ctx context.Context, caller domain.AccountID) error {
	ok, err := s.admin.IsAdmin(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check administrator")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "administrator only")
	}
	return nil
}
