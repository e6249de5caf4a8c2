package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	txcontext "hangar/pkg/platform/tx"
)

// Postgres persists issuance state. The supply counters live in a singleton
// row; identifier allocation uses a conditional update so two concurrent
// mints can never allocate past the cap.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Seed inserts the singleton supply row if missing. Called once at startup.
func (s *Postgres) Seed(ctx context.Context, supplyLimit uint64) error {
	query := `
		INSERT INTO supply_state (id, issued, supply_limit, mint_enabled)
		VALUES (1, 0, $1, FALSE)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, int64(supplyLimit)); err != nil {
		return fmt.Errorf("seed supply state: %w", err)
	}
	return nil
}

func (s *Postgres) Supply(ctx context.Context) (SupplyState, error) {
	var (
		st            SupplyState
		issued, limit int64
	)
	query := `SELECT issued, supply_limit, mint_enabled FROM supply_state WHERE id = 1`
	if err := s.execer(ctx).QueryRowContext(ctx, query).Scan(&issued, &limit, &st.MintEnabled); err != nil {
		return SupplyState{}, fmt.Errorf("read supply state: %w", err)
	}
	st.Issued = uint64(issued)
	st.Limit = uint64(limit)
	return st, nil
}

func (s *Postgres) AllocateID(ctx context.Context) (domain.AssetID, error) {
	var issued int64
	query := `
		UPDATE supply_state
		SET issued = issued + 1
		WHERE id = 1 AND issued < supply_limit
		RETURNING issued
	`
	err := s.execer(ctx).QueryRowContext(ctx, query).Scan(&issued)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sentinel.ErrInvalidState
		}
		return 0, fmt.Errorf("allocate asset id: %w", err)
	}
	return domain.AssetID(issued), nil
}

func (s *Postgres) SetMintEnabled(ctx context.Context, enabled bool) error {
	query := `UPDATE supply_state SET mint_enabled = $1 WHERE id = 1`
	if _, err := s.execer(ctx).ExecContext(ctx, query, enabled); err != nil {
		return fmt.Errorf("set mint enabled: %w", err)
	}
	return nil
}

func (s *Postgres) SetSupplyLimit(ctx context.Context, newLimit uint64) error {
	query := `UPDATE supply_state SET supply_limit = $1 WHERE id = 1 AND supply_limit < $1`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(newLimit))
	if err != nil {
		return fmt.Errorf("set supply limit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set supply limit: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) AllowlistAdd(ctx context.Context, account domain.AccountID) error {
	query := `
		INSERT INTO allowlist (account, added_at)
		VALUES ($1, $2)
		ON CONFLICT (account) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, account.String(), time.Now()); err != nil {
		return fmt.Errorf("allowlist add: %w", err)
	}
	return nil
}

func (s *Postgres) AllowlistRemove(ctx context.Context, account domain.AccountID) error {
	query := `DELETE FROM allowlist WHERE account = $1`
	if _, err := s.execer(ctx).ExecContext(ctx, query, account.String()); err != nil {
		return fmt.Errorf("allowlist remove: %w", err)
	}
	return nil
}

func (s *Postgres) IsAllowlisted(ctx context.Context, account domain.AccountID) (bool, error) {
	var allowed bool
	query := `SELECT EXISTS (SELECT 1 FROM allowlist WHERE account = $1)`
	if err := s.execer(ctx).QueryRowContext(ctx, query, account.String()).Scan(&allowed); err != nil {
		return false, fmt.Errorf("allowlist check: %w", err)
	}
	return allowed, nil
}

func (s *Postgres) Allowlist(ctx context.Context) ([]domain.AccountID, error) {
	query := `SELECT account FROM allowlist ORDER BY account`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("allowlist list: %w", err)
	}
	defer rows.Close()

	var out []domain.AccountID
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("scan allowlist row: %w", err)
		}
		out = append(out, domain.AccountID(account))
	}
	return out, rows.Err()
}
