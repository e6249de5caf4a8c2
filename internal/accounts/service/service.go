// Package service registers API accounts and exchanges their secrets for
// access tokens.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hangar/internal/accounts/models"
	"hangar/internal/accounts/store"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/secrets"
	"hangar/pkg/platform/sentinel"
)

// TokenIssuer mints access tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateAccessToken(account domain.AccountID) (string, error)
}

// AdminChecker reports whether an account may run privileged operations.
type AdminChecker interface {
	IsAdmin(ctx context.Context, account domain.AccountID) (bool, error)
}

type Service struct {
	store  store.Store
	tokens TokenIssuer
	admin  AdminChecker
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(st store.Store, tokens TokenIssuer, admin AdminChecker, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tokens: tokens,
		admin:  admin,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a credential for an account and returns the plaintext
// secret. The secret is never recoverable afterwards.
func (s *Service) Register(ctx context.Context, caller domain.AccountID, rawAccount string) (string, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return "", err
	}
	account, err := domain.ParseAccountID(rawAccount)
	if err != nil {
		return "", err
	}

	secret, err := secrets.Generate()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate secret")
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "hash secret")
	}

	err = s.store.Create(ctx, models.Credential{
		Account:    account,
		SecretHash: hash,
		CreatedAt:  time.Now().UTC(),
	})
	if errors.Is(err, sentinel.ErrConflict) {
		return "", dErrors.New(dErrors.CodeConflict, "account already registered")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "store credential")
	}

	s.logger.InfoContext(ctx, "account registered", "account", account)
	return secret, nil
}

// Revoke removes an account's credential.
func (s *Service) Revoke(ctx context.Context, caller, account domain.AccountID) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	err := s.store.Delete(ctx, account)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "account not registered")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete credential")
	}
	s.logger.InfoContext(ctx, "account revoked", "account", account)
	return nil
}

// IssueToken verifies the account secret and mints an access token.
// Unknown accounts and wrong secrets fail identically.
func (s *Service) IssueToken(ctx context.Context, rawAccount, secret string) (string, error) {
	account, err := domain.ParseAccountID(rawAccount)
	if err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	credential, err := s.store.Get(ctx, account)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load credential")
	}
	if err := secrets.Verify(secret, credential.SecretHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "verify secret")
	}

	token, err := s.tokens.GenerateAccessToken(account)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "issue token")
	}
	return token, nil
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
