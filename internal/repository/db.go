package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the initial schema migration.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id                  TEXT PRIMARY KEY,
			email               TEXT NOT NULL UNIQUE,
			password            TEXT NOT NULL,
			name                TEXT NOT NULL,
			credits             BIGINT NOT NULL DEFAULT 0 CHECK (credits >= 0),
			subscription_plan   TEXT,
			subscription_start  TIMESTAMPTZ,
			subscription_end    TIMESTAMPTZ,
			subscription_status TEXT,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

		CREATE TABLE IF NOT EXISTS applications (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL REFERENCES users(id),
			company_name       TEXT NOT NULL,
			job_title          TEXT NOT NULL,
			job_description    TEXT NOT NULL DEFAULT '',
			additional_details TEXT NOT NULL DEFAULT '',
			resume_url         TEXT NOT NULL DEFAULT '',
			generated_email    TEXT NOT NULL,
			status             TEXT NOT NULL DEFAULT 'draft',
			sent_at            TIMESTAMPTZ,
			mirror_record_id   TEXT NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_applications_user_created ON applications(user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS payments (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL REFERENCES users(id),
			gateway_order_id   TEXT NOT NULL UNIQUE,
			gateway_payment_id TEXT NOT NULL UNIQUE,
			amount             BIGINT NOT NULL,
			currency           TEXT NOT NULL,
			plan               TEXT NOT NULL,
			credits            BIGINT NOT NULL,
			status             TEXT NOT NULL DEFAULT 'pending',
			payment_method     TEXT NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments(user_id, created_at DESC);
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
