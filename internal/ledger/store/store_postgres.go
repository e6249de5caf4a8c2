package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/platform/tx"
)

// Postgres keeps balances in a single table keyed by account.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) queryer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *Postgres) Deposit(ctx context.Context, account domain.AccountID, amount uint64) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO balances (account, balance)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET balance = balances.balance + EXCLUDED.balance`,
		account.String(), int64(amount))
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

func (s *Postgres) Balance(ctx context.Context, account domain.AccountID) (uint64, error) {
	var balance int64
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT balance FROM balances WHERE account = $1`, account.String()).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return uint64(balance), nil
}

func (s *Postgres) Transfer(ctx context.Context, from, to domain.AccountID, amount uint64) error {
	run := s.execer(ctx)

	res, err := run.ExecContext(ctx, `
		UPDATE balances SET balance = balance - $2
		WHERE account = $1 AND balance >= $2`,
		from.String(), int64(amount))
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if n == 0 {
		return sentinel.ErrInsufficient
	}

	_, err = run.ExecContext(ctx, `
		INSERT INTO balances (account, balance)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET balance = balances.balance + EXCLUDED.balance`,
		to.String(), int64(amount))
	if err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	return nil
}
