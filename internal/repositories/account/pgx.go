package account

import (
	"context"
	"errors"
	"time"

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
		logger: logger.WithComponent("AccountRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) ListEnabled(ctx context.Context, platform string) ([]domain.Account, error) {
	query, args, err := repositories.SqBuilder.
		Select("account_id", "platform", "handle", "display_name", "category").
		From("accounts").
		Where(sq.Eq{"is_enabled": true, "platform": platform}).
		OrderBy("account_id").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var acc domain.Account
		var category string
		if err := rows.Scan(&acc.ID, &acc.Platform, &acc.Handle, &acc.DisplayName, &category); err != nil {
			return nil, err
		}
		acc.Category = domain.Category(category)
		acc.IsEnabled = true
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (p *Pgx) GetByHandle(ctx context.Context, platform, handle string) (*domain.Account, error) {
	query, args, err := repositories.SqBuilder.
		Select("account_id", "platform", "handle", "display_name", "category", "role",
			"is_enabled", "verification_url", "notes", "created_at", "updated_at").
		From("accounts").
		Where(sq.Eq{"platform": platform}).
		Where("lower(handle) = lower(?)", handle).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var acc domain.Account
	var category string
	var role, verificationURL, notes *string
	err = p.pg.QueryRow(ctx, query, args...).Scan(
		&acc.ID, &acc.Platform, &acc.Handle, &acc.DisplayName, &category, &role,
		&acc.IsEnabled, &verificationURL, &notes, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	acc.Category = domain.Category(category)
	if role != nil {
		acc.Role = *role
	}
	if verificationURL != nil {
		acc.VerificationURL = *verificationURL
	}
	if notes != nil {
		acc.Notes = *notes
	}
	return &acc, nil
}

// Upsert keys on (platform, lower(handle)): update when the account already
// exists, insert otherwise. Returns true when a new row was created.
func (p *Pgx) Upsert(ctx context.Context, acc domain.Account) (bool, error) {
	existing, err := p.GetByHandle(ctx, acc.Platform, acc.Handle)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}

	now := time.Now().UTC()

	if existing != nil {
		query, args, err := repositories.SqBuilder.
			Update("accounts").
			Set("display_name", acc.DisplayName).
			Set("category", string(acc.Category)).
			Set("role", acc.Role).
			Set("is_enabled", acc.IsEnabled).
			Set("verification_url", acc.VerificationURL).
			Set("notes", acc.Notes).
			Set("updated_at", now).
			Where(sq.Eq{"account_id": existing.ID}).
			ToSql()
		if err != nil {
			return false, repositories.ErrBadQuery
		}
		if _, err := p.pg.Exec(ctx, query, args...); err != nil {
			return false, err
		}
		return false, nil
	}

	query, args, err := repositories.SqBuilder.
		Insert("accounts").
		Columns("platform", "handle", "display_name", "category", "role",
			"is_enabled", "verification_url", "notes", "created_at", "updated_at").
		Values(acc.Platform, acc.Handle, acc.DisplayName, string(acc.Category), acc.Role,
			acc.IsEnabled, acc.VerificationURL, acc.Notes, now, now).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}
	if _, err := p.pg.Exec(ctx, query, args...); err != nil {
		return false, err
	}
	return true, nil
}
