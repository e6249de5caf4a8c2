package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	txcontext "hangar/pkg/platform/tx"
)

// Postgres persists ownership rows in PostgreSQL. Mutations honor a
// transaction carried in the context.
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

func (s *Postgres) Issue(ctx context.Context, to domain.AccountID, id domain.AssetID) error {
	query := `INSERT INTO ownerships (asset_id, owner, updated_at) VALUES ($1, $2, $3)`
	_, err := s.execer(ctx).ExecContext(ctx, query, int64(id), to.String(), time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("issue ownership: %w", err)
	}
	return nil
}

func (s *Postgres) OwnerOf(ctx context.Context, id domain.AssetID) (domain.AccountID, error) {
	var owner string
	query := `SELECT owner FROM ownerships WHERE asset_id = $1`
	err := s.execer(ctx).QueryRowContext(ctx, query, int64(id)).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("owner of: %w", err)
	}
	return domain.AccountID(owner), nil
}

func (s *Postgres) BalanceOf(ctx context.Context, account domain.AccountID) (uint64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM ownerships WHERE owner = $1`
	if err := s.execer(ctx).QueryRowContext(ctx, query, account.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("balance of: %w", err)
	}
	return uint64(count), nil
}

// Transfer moves ownership using a conditional update so the owner check and
// the write are one statement.
func (s *Postgres) Transfer(ctx context.Context, from, to domain.AccountID, id domain.AssetID) error {
	query := `UPDATE ownerships SET owner = $3, updated_at = $4 WHERE asset_id = $1 AND owner = $2`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(id), from.String(), to.String(), time.Now())
	if err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Distinguish unknown identifier from wrong current owner.
	if _, err := s.OwnerOf(ctx, id); err != nil {
		return err
	}
	return sentinel.ErrInvalidState
}

func (s *Postgres) AssetsOwnedBy(ctx context.Context, account domain.AccountID) ([]domain.AssetID, error) {
	query := `SELECT asset_id FROM ownerships WHERE owner = $1 ORDER BY asset_id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, account.String())
	if err != nil {
		return nil, fmt.Errorf("assets owned by: %w", err)
	}
	defer rows.Close()

	var ids []domain.AssetID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan asset id: %w", err)
		}
		ids = append(ids, domain.AssetID(id))
	}
	return ids, rows.Err()
}
