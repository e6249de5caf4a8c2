// Package postgres opens the shared database handle and applies the schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS assets (
		id            BIGINT PRIMARY KEY,
		metadata_hash TEXT NOT NULL UNIQUE,
		owner         TEXT NOT NULL,
		seller        TEXT NOT NULL DEFAULT '',
		price         BIGINT NOT NULL DEFAULT 0,
		listed        BOOLEAN NOT NULL DEFAULT FALSE,
		minted_at     TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assets_owner_idx ON assets (owner)`,

	`CREATE TABLE IF NOT EXISTS ownerships (
		asset_id   BIGINT PRIMARY KEY,
		owner      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ownerships_owner_idx ON ownerships (owner)`,

	`CREATE TABLE IF NOT EXISTS supply_state (
		id           SMALLINT PRIMARY KEY,
		issued       BIGINT NOT NULL DEFAULT 0,
		supply_limit BIGINT NOT NULL,
		mint_enabled BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE TABLE IF NOT EXISTS allowlist (
		account  TEXT PRIMARY KEY,
		added_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS balances (
		account TEXT PRIMARY KEY,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id             SMALLINT PRIMARY KEY,
		administrator  TEXT NOT NULL,
		base_uri       TEXT NOT NULL DEFAULT '',
		contract_uri   TEXT NOT NULL DEFAULT '',
		royalty_bps    BIGINT NOT NULL DEFAULT 0,
		treasury       TEXT NOT NULL DEFAULT '',
		payout_policy  TEXT NOT NULL,
		payment_policy TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		account     TEXT PRIMARY KEY,
		secret_hash TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates every table the stores expect. Statements are
// idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
