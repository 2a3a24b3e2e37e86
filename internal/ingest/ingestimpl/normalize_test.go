package ingestimpl

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/scraper"
)

func govAccount() domain.Account {
	return domain.Account{
		ID:          7,
		Platform:    "x",
		Handle:      "agency1",
		DisplayName: "Agency One",
		Category:    domain.CategoryGovernment,
		IsEnabled:   true,
	}
}

func TestNormalizePost_RejectsMissingID(t *testing.T) {
	_, ok := normalizePost(scraper.RawTweet{"text": "no id here"}, govAccount())
	assert.False(t, ok)

	_, ok = normalizePost(scraper.RawTweet{"id": ""}, govAccount())
	assert.False(t, ok)
}

func TestNormalizePost_SynthesizesURL(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{"id": "12345"}, govAccount())
	require.True(t, ok)
	assert.Equal(t, "https://x.com/agency1/status/12345", post.URL)
}

func TestNormalizePost_KeepsExplicitURL(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{
		"id":  "12345",
		"url": "https://x.com/agency1/status/12345?src=captured",
	}, govAccount())
	require.True(t, ok)
	assert.Equal(t, "https://x.com/agency1/status/12345?src=captured", post.URL)
}

func TestNormalizePost_CategoryCoercion(t *testing.T) {
	acc := govAccount()
	acc.Category = domain.Category("invalid-value-not-in-enum")

	post, ok := normalizePost(scraper.RawTweet{"id": "1"}, acc)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryUnknown, post.Category)

	// "other" is a valid account category but not allowed on posts.
	acc.Category = domain.CategoryOther
	post, _ = normalizePost(scraper.RawTweet{"id": "2"}, acc)
	assert.Equal(t, domain.CategoryUnknown, post.Category)

	acc.Category = domain.CategoryGovernment
	post, _ = normalizePost(scraper.RawTweet{"id": "3"}, acc)
	assert.Equal(t, domain.CategoryGovernment, post.Category)
}

func TestNormalizePost_MetricsDefaultToZero(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{
		"id":             "1",
		"favorite_count": float64(42),
		"views":          "1337", // views arrive as a string from the API
	}, govAccount())
	require.True(t, ok)

	var metrics domain.Metrics
	require.NoError(t, json.Unmarshal([]byte(post.MetricsJSON), &metrics))
	assert.Equal(t, 42, metrics.FavoriteCount)
	assert.Equal(t, 1337, metrics.Views)
	assert.Equal(t, 0, metrics.RetweetCount)
	assert.Equal(t, 0, metrics.ReplyCount)
	assert.Equal(t, 0, metrics.QuoteCount)
	assert.Equal(t, 0, metrics.BookmarkCount)
}

func TestNormalizePost_MediaHardcodedPhoto(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{
		"id":             "1",
		"attached_media": []any{"https://pbs.example/a.jpg", "https://pbs.example/b.jpg"},
	}, govAccount())
	require.True(t, ok)

	var media []domain.Media
	require.NoError(t, json.Unmarshal([]byte(post.MediaJSON), &media))
	require.Len(t, media, 2)
	for _, m := range media {
		assert.Equal(t, "photo", m.Type)
	}
}

func TestNormalizePost_TagsNullWhenEmpty(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{"id": "1"}, govAccount())
	require.True(t, ok)
	assert.Nil(t, post.TaggedAccountHandle)
	assert.Nil(t, post.TaggedHashtags)

	post, _ = normalizePost(scraper.RawTweet{
		"id":              "2",
		"tagged_users":    []any{"alice", "bob"},
		"tagged_hashtags": []any{"news"},
	}, govAccount())
	require.NotNil(t, post.TaggedAccountHandle)
	assert.JSONEq(t, `["alice","bob"]`, *post.TaggedAccountHandle)
	require.NotNil(t, post.TaggedHashtags)
	assert.JSONEq(t, `["news"]`, *post.TaggedHashtags)
}

func TestNormalizePost_ThreadLinkage(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{
		"id":                    "1",
		"in_reply_to_status_id": "100",
		"quoted_status_id":      "200",
	}, govAccount())
	require.True(t, ok)
	require.NotNil(t, post.ReplyToPostID)
	assert.Equal(t, "100", *post.ReplyToPostID)
	require.NotNil(t, post.QuotedPostID)
	assert.Equal(t, "200", *post.QuotedPostID)

	post, _ = normalizePost(scraper.RawTweet{"id": "2"}, govAccount())
	assert.Nil(t, post.ReplyToPostID)
	assert.Nil(t, post.QuotedPostID)
}

func TestNormalizePost_RetrievedAtIsLocalUTC(t *testing.T) {
	before := time.Now().UTC()
	post, ok := normalizePost(scraper.RawTweet{
		"id":         "1",
		"created_at": "Wed Oct 10 20:19:24 +0000 2018",
	}, govAccount())
	require.True(t, ok)

	assert.Equal(t, time.UTC, post.RetrievedAt.Location())
	assert.False(t, post.RetrievedAt.Before(before))

	// created_at comes from the platform, never from the clock.
	require.NotNil(t, post.CreatedAt)
	assert.Equal(t, 2018, post.CreatedAt.Year())
}

func TestNormalizePost_UnparseableCreatedAt(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{
		"id":         "1",
		"created_at": "not a timestamp",
	}, govAccount())
	require.True(t, ok)
	assert.Nil(t, post.CreatedAt)
}

func TestNormalizePost_RawPayloadKeptVerbatim(t *testing.T) {
	item := scraper.RawTweet{
		"id":         "1",
		"text":       "hello",
		"extraField": map[string]any{"nested": true},
	}
	post, ok := normalizePost(item, govAccount())
	require.True(t, ok)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(post.RawJSON), &raw))
	assert.Equal(t, "1", raw["id"])
	assert.Contains(t, raw, "extraField")
}

func TestNormalizePost_InheritsAccountFields(t *testing.T) {
	post, ok := normalizePost(scraper.RawTweet{"id": "1"}, govAccount())
	require.True(t, ok)
	assert.Equal(t, "x", post.Platform)
	assert.Equal(t, "agency1", post.AuthorHandle)
	assert.Equal(t, "Agency One", post.AuthorDisplayName)
	require.NotNil(t, post.AccountID)
	assert.Equal(t, int64(7), *post.AccountID)
}
