package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hangar/internal/accounts/models"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, credential models.Credential) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (account, secret_hash, created_at)
		VALUES ($1, $2, $3)`,
		credential.Account.String(), credential.SecretHash, credential.CreatedAt)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, account domain.AccountID) (models.Credential, error) {
	var (
		out models.Credential
		acc string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT account, secret_hash, created_at FROM accounts WHERE account = $1`,
		account.String()).Scan(&acc, &out.SecretHash, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Credential{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("query credential: %w", err)
	}
	out.Account = domain.AccountID(acc)
	return out, nil
}

func (s *Postgres) Delete(ctx context.Context, account domain.AccountID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE account = $1`, account.String())
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
