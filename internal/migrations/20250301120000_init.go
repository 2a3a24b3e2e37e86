package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE accounts (
		account_id BIGSERIAL PRIMARY KEY,
		platform TEXT NOT NULL,
		handle TEXT NOT NULL,
		display_name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'unknown'
			CHECK (category IN ('government', 'independent', 'unknown', 'other')),
		role TEXT,
		is_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		verification_url TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE UNIQUE INDEX accounts_platform_handle_key ON accounts (platform, lower(handle));

	CREATE TABLE posts (
		id BIGSERIAL PRIMARY KEY,
		platform TEXT NOT NULL,
		post_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL UNIQUE,
		tagged_account_handle TEXT,
		tagged_hashtags TEXT,
		language TEXT,
		author_handle TEXT NOT NULL,
		author_display_name TEXT NOT NULL,
		category TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ,
		retrieved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		media_json TEXT,
		metrics_json TEXT,
		raw_json TEXT,
		account_id BIGINT REFERENCES accounts (account_id) ON DELETE CASCADE,
		reply_to_post_id TEXT,
		quoted_post_id TEXT
	);
	`)
	return err
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE posts;
	DROP TABLE accounts;
	`)
	return err
}
