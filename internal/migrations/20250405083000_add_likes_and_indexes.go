package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddLikesAndIndexes, downAddLikesAndIndexes)
}

func upAddLikesAndIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE post_likes (
		post_id TEXT PRIMARY KEY,
		like_count INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX posts_category_idx ON posts (category);
	CREATE INDEX posts_account_id_idx ON posts (account_id);
	CREATE INDEX posts_created_at_idx ON posts (created_at DESC NULLS LAST);
	`)
	return err
}

func downAddLikesAndIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP INDEX posts_created_at_idx;
	DROP INDEX posts_account_id_idx;
	DROP INDEX posts_category_idx;
	DROP TABLE post_likes;
	`)
	return err
}
