package post

import (
	"context"
	"errors"

	"github.com/icewatch/x-monitor/internal/domain"
)

var ErrNotFound = errors.New("post not found")

// Filter narrows post reads for the serving layer.
type Filter struct {
	Platform  string
	Category  string
	AccountID *int64
	Limit     int
	Offset    int
}

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// CreateBatch persists a batch of normalized posts in one transaction.
	// Each insert is a no-op when the post already exists; the return value
	// is the number of rows actually created, not the batch size.
	CreateBatch(ctx context.Context, posts []domain.Post) (int, error)

	// List returns posts joined with their like counters, newest first.
	List(ctx context.Context, f Filter) ([]*domain.PostWithLikes, error)

	// Count returns the total matching a filter, ignoring pagination.
	Count(ctx context.Context, f Filter) (int, error)

	// GetByPostID returns a single post by its platform post identifier.
	GetByPostID(ctx context.Context, postID string) (*domain.PostWithLikes, error)
}
