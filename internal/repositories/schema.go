package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-transfer-engine/internal/logger"
)

// Migrations creates the ledger tables. Every statement is idempotent.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		account_id BIGSERIAL PRIMARY KEY,
		account_number VARCHAR(20) NOT NULL UNIQUE,
		account_holder VARCHAR(100) NOT NULL,
		account_type VARCHAR(10) NOT NULL DEFAULT 'SAVINGS',
		balance NUMERIC(15,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		opening_balance NUMERIC(15,2) NOT NULL DEFAULT 0,
		status VARCHAR(10) NOT NULL DEFAULT 'ACTIVE',
		risk_level VARCHAR(10) NOT NULL DEFAULT 'LOW',
		daily_limit NUMERIC(15,2) NOT NULL DEFAULT 100000.00,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_transaction_at TIMESTAMPTZ
	);`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id BIGSERIAL PRIMARY KEY,
		transaction_uuid VARCHAR(36) NOT NULL UNIQUE,
		from_account_id BIGINT NOT NULL,
		to_account_id BIGINT NOT NULL,
		amount NUMERIC(15,2) NOT NULL,
		state VARCHAR(20) NOT NULL,
		risk_score INT NOT NULL DEFAULT 0,
		risk_factors TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		initiated_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		error_message TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_from_state
		ON transactions (from_account_id, state, initiated_at);`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_to_state
		ON transactions (to_account_id, state, initiated_at);`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_state
		ON transactions (state, initiated_at);`,
}

// Migrate applies Migrations in order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, m := range Migrations {
		_, err := db.ExecContext(ctx, m)

		logger.Log.Infow(
			"migration",
			"query", strings.Join(strings.Fields(m), " "),
			"error", err,
		)

		if err != nil {
			return err
		}
	}
	return nil
}
