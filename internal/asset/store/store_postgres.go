package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hangar/internal/asset/models"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	txcontext "hangar/pkg/platform/tx"
)

// Postgres persists asset records in PostgreSQL. Mutations honor a
// transaction carried in the context so purchases settle atomically with the
// ledger and ownership writes.
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

const assetColumns = `id, metadata_hash, owner, seller, price, listed, minted_at, updated_at`

func (s *Postgres) Create(ctx context.Context, asset *models.Asset) error {
	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		int64(asset.ID), asset.MetadataHash.String(), asset.Owner.String(),
		asset.Seller.String(), int64(asset.Price), asset.Listed,
		asset.MintedAt, asset.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id domain.AssetID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	asset, err := scanAsset(s.execer(ctx).QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY id`
	return s.queryAssets(ctx, query)
}

func (s *Postgres) ListByOwner(ctx context.Context, owner domain.AccountID) ([]*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE owner = $1 ORDER BY id`
	return s.queryAssets(ctx, query, owner.String())
}

func (s *Postgres) HashBound(ctx context.Context, hash domain.MetadataHash) (bool, error) {
	var bound bool
	query := `SELECT EXISTS (SELECT 1 FROM assets WHERE metadata_hash = $1)`
	if err := s.execer(ctx).QueryRowContext(ctx, query, hash.String()).Scan(&bound); err != nil {
		return false, fmt.Errorf("check metadata hash: %w", err)
	}
	return bound, nil
}

// Execute locks the row FOR UPDATE, validates, and writes the mutated record
// back. When the context does not already carry a transaction, one is opened
// so the lock spans validate and mutate.
func (s *Postgres) Execute(ctx context.Context, id domain.AssetID,
	validate func(*models.Asset) error,
	mutate func(*models.Asset)) (*models.Asset, error) {

	if _, ok := txcontext.From(ctx); ok {
		return s.executeLocked(ctx, id, validate, mutate)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin asset tx: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback()
	}()

	asset, err := s.executeLocked(txcontext.WithTx(ctx, dbTx), id, validate, mutate)
	if err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit asset tx: %w", err)
	}
	return asset, nil
}

func (s *Postgres) executeLocked(ctx context.Context, id domain.AssetID,
	validate func(*models.Asset) error,
	mutate func(*models.Asset)) (*models.Asset, error) {

	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 FOR UPDATE`
	asset, err := scanAsset(s.execer(ctx).QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock asset: %w", err)
	}

	if err := validate(asset); err != nil {
		return nil, err
	}
	mutate(asset)

	update := `
		UPDATE assets
		SET owner = $2, seller = $3, price = $4, listed = $5, updated_at = $6
		WHERE id = $1
	`
	_, err = s.execer(ctx).ExecContext(ctx, update,
		int64(asset.ID), asset.Owner.String(), asset.Seller.String(),
		int64(asset.Price), asset.Listed, asset.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	return asset, nil
}

func (s *Postgres) queryAssets(ctx context.Context, query string, args ...any) ([]*models.Asset, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var out []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	var (
		a             models.Asset
		id, price     int64
		hash          string
		owner, seller string
	)
	if err := row.Scan(&id, &hash, &owner, &seller, &price, &a.Listed, &a.MintedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ID = domain.AssetID(id)
	a.MetadataHash = domain.MetadataHash(hash)
	a.Owner = domain.AccountID(owner)
	a.Seller = domain.AccountID(seller)
	a.Price = uint64(price)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
