package like

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=like.go -destination=mocks/mock.go
type Repository interface {
	// Increment bumps the like counter for a post and returns the new count.
	// The row is created on first like.
	Increment(ctx context.Context, postID string) (int, error)

	// Get returns the current like count, zero when no row exists.
	Get(ctx context.Context, postID string) (int, error)
}
