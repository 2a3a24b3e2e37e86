package domain

import "time"

// Media is one attachment on a post.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Metrics is the fixed-shape engagement snapshot taken at ingestion time.
// Missing upstream fields default to zero.
type Metrics struct {
	FavoriteCount int `json:"favorite_count"`
	RetweetCount  int `json:"retweet_count"`
	ReplyCount    int `json:"reply_count"`
	QuoteCount    int `json:"quote_count"`
	BookmarkCount int `json:"bookmark_count"`
	Views         int `json:"views"`
}

// Post is the canonical row every ingested item is normalized into.
// PostID is the sole authoritative dedup key; inserting a duplicate is a
// no-op, never an overwrite.
type Post struct {
	ID                  int64
	Platform            string
	PostID              string
	URL                 string
	TaggedAccountHandle *string // JSON array of mentioned handles, or NULL
	TaggedHashtags      *string // JSON array of hashtags, or NULL
	Language            *string
	AuthorHandle        string
	AuthorDisplayName   string
	Category            Category
	Text                string
	CreatedAt           *time.Time // platform-reported, nil when unparseable
	RetrievedAt         time.Time  // always set locally at normalization
	MediaJSON           string
	MetricsJSON         string
	RawJSON             string // full-fidelity upstream payload, forensic use only
	AccountID           *int64
	ReplyToPostID       *string
	QuotedPostID        *string
}

// PostWithLikes is a post joined with its engagement counter. The counter
// lives in a separate table owned by the serving layer; ingestion never
// touches it.
type PostWithLikes struct {
	Post
	LikeCount int
}
