package account

import (
	"context"
	"errors"

	"github.com/icewatch/x-monitor/internal/domain"
)

var ErrNotFound = errors.New("account not found")

//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=mocks/mock.go
type Repository interface {
	// ListEnabled returns all enabled accounts for a platform. This is the
	// only account access the ingestion pipeline has; it never mutates.
	ListEnabled(ctx context.Context, platform string) ([]domain.Account, error)

	// GetByHandle looks an account up by (platform, lower(handle)).
	GetByHandle(ctx context.Context, platform, handle string) (*domain.Account, error)

	// Upsert creates or updates an account keyed on (platform, lower(handle)).
	// Returns true when a new row was created.
	Upsert(ctx context.Context, acc domain.Account) (bool, error)
}
