package scraper

import (
	"context"
	"errors"
)

// ErrAppCrashed marks the transient state where the target web app rendered
// its crash page instead of the timeline. Retryable.
var ErrAppCrashed = errors.New("target web app crashed during render")

// RawTweet is one timeline item as extracted from the upstream capture.
// Field names follow the upstream service's internal naming; presence of any
// field is optional. The looseness stays at this boundary only; the
// normalizer turns it into a fully typed Post.
type RawTweet map[string]any

// String returns the string value under key, or "" when absent or not a string.
func (t RawTweet) String(key string) string {
	s, _ := t[key].(string)
	return s
}

//go:generate go run go.uber.org/mock/mockgen -source=scraper.go -destination=mocks/mock.go
type Client interface {
	// FetchTimeline renders the profile page for handle and returns the raw
	// timeline entries captured from its network traffic, in upstream order.
	FetchTimeline(ctx context.Context, handle string) ([]RawTweet, error)
}
