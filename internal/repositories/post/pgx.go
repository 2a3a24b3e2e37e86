package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/repositories"
	"github.com/icewatch/x-monitor/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

var postColumns = []string{
	"p.id", "p.platform", "p.post_id", "p.url",
	"p.tagged_account_handle", "p.tagged_hashtags", "p.language",
	"p.author_handle", "p.author_display_name", "p.category", "p.text",
	"p.created_at", "p.retrieved_at",
	"p.media_json", "p.metrics_json",
	"p.account_id", "p.reply_to_post_id", "p.quoted_post_id",
	"COALESCE(l.like_count, 0) AS like_count",
}

// CreateBatch inserts the batch inside a single transaction. Every insert
// carries ON CONFLICT DO NOTHING, so a duplicate post_id (or url) is a
// silent no-op and the existing row is left untouched.
func (p *Pgx) CreateBatch(ctx context.Context, posts []domain.Post) (int, error) {
	tx, err := p.pg.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	inserted := 0
	for _, post := range posts {
		query, args, err := repositories.SqBuilder.
			Insert("posts").
			Columns(
				"platform", "post_id", "url",
				"tagged_account_handle", "tagged_hashtags", "language",
				"author_handle", "author_display_name", "category", "text",
				"created_at", "retrieved_at",
				"media_json", "metrics_json", "raw_json",
				"account_id", "reply_to_post_id", "quoted_post_id",
			).
			Values(
				post.Platform, post.PostID, post.URL,
				post.TaggedAccountHandle, post.TaggedHashtags, post.Language,
				post.AuthorHandle, post.AuthorDisplayName, string(post.Category), post.Text,
				post.CreatedAt, post.RetrievedAt,
				post.MediaJSON, post.MetricsJSON, post.RawJSON,
				post.AccountID, post.ReplyToPostID, post.QuotedPostID,
			).
			Suffix("ON CONFLICT DO NOTHING").
			ToSql()
		if err != nil {
			return 0, repositories.ErrBadQuery
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 1 {
			inserted++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

func (p *Pgx) List(ctx context.Context, f Filter) ([]*domain.PostWithLikes, error) {
	builder := repositories.SqBuilder.
		Select(postColumns...).
		From("posts p").
		LeftJoin("post_likes l ON l.post_id = p.post_id").
		Where(sq.Eq{"p.platform": f.Platform}).
		OrderBy("p.created_at DESC NULLS LAST, p.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	if f.Category != "" {
		builder = builder.Where(sq.Eq{"p.category": f.Category})
	}
	if f.AccountID != nil {
		builder = builder.Where(sq.Eq{"p.account_id": *f.AccountID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.PostWithLikes
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (p *Pgx) Count(ctx context.Context, f Filter) (int, error) {
	builder := repositories.SqBuilder.
		Select("COUNT(*)").
		From("posts p").
		Where(sq.Eq{"p.platform": f.Platform})

	if f.Category != "" {
		builder = builder.Where(sq.Eq{"p.category": f.Category})
	}
	if f.AccountID != nil {
		builder = builder.Where(sq.Eq{"p.account_id": *f.AccountID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var total int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (p *Pgx) GetByPostID(ctx context.Context, postID string) (*domain.PostWithLikes, error) {
	query, args, err := repositories.SqBuilder.
		Select(postColumns...).
		From("posts p").
		LeftJoin("post_likes l ON l.post_id = p.post_id").
		Where(sq.Eq{"p.post_id": postID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanPost(rows)
}

func scanPost(rows pgx.Rows) (*domain.PostWithLikes, error) {
	var post domain.PostWithLikes
	var category string
	var mediaJSON, metricsJSON *string

	err := rows.Scan(
		&post.ID, &post.Platform, &post.PostID, &post.URL,
		&post.TaggedAccountHandle, &post.TaggedHashtags, &post.Language,
		&post.AuthorHandle, &post.AuthorDisplayName, &category, &post.Text,
		&post.CreatedAt, &post.RetrievedAt,
		&mediaJSON, &metricsJSON,
		&post.AccountID, &post.ReplyToPostID, &post.QuotedPostID,
		&post.LikeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	post.Category = domain.Category(category)
	if mediaJSON != nil {
		post.MediaJSON = *mediaJSON
	}
	if metricsJSON != nil {
		post.MetricsJSON = *metricsJSON
	}
	return &post, nil
}
