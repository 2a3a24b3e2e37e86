package ingestimpl

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/scraper"
)

// normalizePost maps one raw scraped item plus its owning account into the
// canonical post shape. The second return value is false when the item
// carries no usable identifier; the caller just skips the item.
func normalizePost(item scraper.RawTweet, acc domain.Account) (domain.Post, bool) {
	postID := item.String("id")
	if postID == "" {
		return domain.Post{}, false
	}

	// The account's category was already coerced at import time, but the
	// caller is not trusted: re-validate here so an out-of-set value can
	// never reach a post row.
	category := acc.Category.CoerceForPost()

	url := item.String("url")
	if url == "" {
		url = "https://x.com/" + acc.Handle + "/status/" + postID
	}

	var media []domain.Media
	for _, u := range stringSlice(item["attached_media"]) {
		// Type detection happens downstream if ever needed; everything the
		// timeline capture hands us here is a photo URL.
		media = append(media, domain.Media{URL: u, Type: "photo"})
	}
	mediaJSON, _ := json.Marshal(media)
	if media == nil {
		mediaJSON = []byte("[]")
	}

	metrics := domain.Metrics{
		FavoriteCount: intField(item, "favorite_count"),
		RetweetCount:  intField(item, "retweet_count"),
		ReplyCount:    intField(item, "reply_count"),
		QuoteCount:    intField(item, "quote_count"),
		BookmarkCount: intField(item, "bookmark_count"),
		Views:         intField(item, "views"),
	}
	metricsJSON, _ := json.Marshal(metrics)

	rawJSON, _ := json.Marshal(map[string]any(item))

	post := domain.Post{
		Platform:            acc.Platform,
		PostID:              postID,
		URL:                 url,
		TaggedAccountHandle: jsonArrayOrNil(stringSlice(item["tagged_users"])),
		TaggedHashtags:      jsonArrayOrNil(stringSlice(item["tagged_hashtags"])),
		Language:            stringOrNil(item.String("language")),
		AuthorHandle:        acc.Handle,
		AuthorDisplayName:   acc.DisplayName,
		Category:            category,
		Text:                item.String("text"),
		CreatedAt:           parseCreatedAt(item.String("created_at")),
		RetrievedAt:         time.Now().UTC(),
		MediaJSON:           string(mediaJSON),
		MetricsJSON:         string(metricsJSON),
		RawJSON:             string(rawJSON),
		ReplyToPostID:       stringOrNil(item.String("in_reply_to_status_id")),
		QuotedPostID:        stringOrNil(item.String("quoted_status_id")),
	}

	if acc.ID != 0 {
		id := acc.ID
		post.AccountID = &id
	}

	return post, true
}

// parseCreatedAt handles the timestamp format the timeline API reports
// ("Wed Oct 10 20:19:24 +0000 2018"), falling back to RFC 3339. Anything
// else yields nil rather than a guessed time.
func parseCreatedAt(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RubyDate, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// jsonArrayOrNil serializes a non-empty list to a compact JSON array string.
// Empty lists become nil so the column stores NULL, never "".
func jsonArrayOrNil(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// intField reads a numeric field, tolerating the types JSON decoding and
// the upstream API produce (float64, json.Number, numeric strings).
func intField(item scraper.RawTweet, key string) int {
	switch v := item[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
