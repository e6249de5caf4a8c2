package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hangar/internal/platform/config"
	"hangar/internal/settings/models"
	"hangar/pkg/domain"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/platform/tx"
)

const settingsColumns = `administrator, base_uri, contract_uri, royalty_bps, treasury, payout_policy, payment_policy`

// Postgres keeps the settings in a single-row table (id = 1).
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

// Seed inserts the initial row if the table is empty.
func (s *Postgres) Seed(ctx context.Context, initial models.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, `+settingsColumns+`)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		initial.Administrator.String(), initial.BaseURI, initial.ContractURI,
		int64(initial.RoyaltyBps), initial.Treasury.String(),
		string(initial.PayoutPolicy), string(initial.PaymentPolicy))
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context) (models.Settings, error) {
	return s.get(ctx, s.execer(ctx), false)
}

func (s *Postgres) Update(ctx context.Context, validate func(models.Settings) error, mutate func(*models.Settings)) (models.Settings, error) {
	var updated models.Settings

	apply := func(ctx context.Context) error {
		run := s.execer(ctx)

		current, err := s.get(ctx, run, true)
		if err != nil {
			return err
		}
		if validate != nil {
			if err := validate(current); err != nil {
				return err
			}
		}
		next := current
		mutate(&next)

		_, err = run.ExecContext(ctx, `
			UPDATE settings SET
				administrator = $1, base_uri = $2, contract_uri = $3,
				royalty_bps = $4, treasury = $5, payout_policy = $6, payment_policy = $7
			WHERE id = 1`,
			next.Administrator.String(), next.BaseURI, next.ContractURI,
			int64(next.RoyaltyBps), next.Treasury.String(),
			string(next.PayoutPolicy), string(next.PaymentPolicy))
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		updated = next
		return nil
	}

	if _, ok := tx.From(ctx); ok {
		if err := apply(ctx); err != nil {
			return models.Settings{}, err
		}
		return updated, nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Settings{}, fmt.Errorf("begin settings update: %w", err)
	}
	if err := apply(tx.WithTx(ctx, dbTx)); err != nil {
		_ = dbTx.Rollback()
		return models.Settings{}, err
	}
	if err := dbTx.Commit(); err != nil {
		return models.Settings{}, fmt.Errorf("commit settings update: %w", err)
	}
	return updated, nil
}

func (s *Postgres) get(ctx context.Context, run queryer, forUpdate bool) (models.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE id = 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		out                     models.Settings
		administrator, treasury string
		payout, payment         string
		royalty                 int64
	)
	err := run.QueryRowContext(ctx, query).Scan(
		&administrator, &out.BaseURI, &out.ContractURI,
		&royalty, &treasury, &payout, &payment)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("query settings: %w", err)
	}
	out.Administrator = domain.AccountID(administrator)
	out.Treasury = domain.AccountID(treasury)
	out.RoyaltyBps = uint64(royalty)
	out.PayoutPolicy = config.PayoutPolicy(payout)
	out.PaymentPolicy = config.PaymentPolicy(payment)
	return out, nil
}
