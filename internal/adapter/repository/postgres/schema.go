package postgres

import (
	"context"
	"fmt"
)

// schema is applied statement by statement; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS transfers (
		id            UUID PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		from_address  TEXT NOT NULL,
		from_currency TEXT NOT NULL,
		to_address    TEXT NOT NULL,
		to_currency   TEXT NOT NULL,
		amount        NUMERIC NOT NULL CHECK (amount > 0),
		bctx          TEXT,
		state         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transfers_from_address_idx ON transfers (from_address)`,
	`CREATE INDEX IF NOT EXISTS transfers_to_address_idx ON transfers (to_address)`,
	`CREATE INDEX IF NOT EXISTS transfers_state_idx ON transfers (state)`,
	`CREATE TABLE IF NOT EXISTS wallet_balances (
		seq             BIGSERIAL,
		address         TEXT NOT NULL,
		currency        TEXT NOT NULL,
		offchain_amount NUMERIC NOT NULL DEFAULT 0,
		pending_txs     TEXT[] NOT NULL DEFAULT '{}',
		PRIMARY KEY (address, currency)
	)`,
}

// Migrate creates the tables used by the transfer and wallet repositories
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
