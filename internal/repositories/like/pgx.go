package like

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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
		logger: logger.WithComponent("LikeRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Increment(ctx context.Context, postID string) (int, error) {
	query, args, err := repositories.SqBuilder.
		Insert("post_likes").
		Columns("post_id", "like_count", "updated_at").
		Values(postID, 1, time.Now().UTC()).
		Suffix("ON CONFLICT (post_id) DO UPDATE SET like_count = post_likes.like_count + 1, updated_at = EXCLUDED.updated_at").
		Suffix("RETURNING like_count").
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var count int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *Pgx) Get(ctx context.Context, postID string) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("like_count").
		From("post_likes").
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var count int
	err = p.pg.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}
