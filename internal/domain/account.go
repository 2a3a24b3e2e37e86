package domain

import (
	"strings"
	"time"
)

// Category labels the kind of source an account is. Posts copy the owning
// account's category at ingestion time and keep it even if the account is
// later relabeled.
type Category string

const (
	CategoryGovernment  Category = "government"
	CategoryIndependent Category = "independent"
	CategoryUnknown     Category = "unknown"
	CategoryOther       Category = "other"
)

// allowedPostCategories is the set a post may carry. Anything else is
// coerced to "unknown" when a post is normalized.
var allowedPostCategories = map[Category]struct{}{
	CategoryGovernment:  {},
	CategoryIndependent: {},
	CategoryUnknown:     {},
}

// ValidForPost reports whether the category may appear on a post as-is.
func (c Category) ValidForPost() bool {
	_, ok := allowedPostCategories[c]
	return ok
}

// CoerceForPost returns the category itself when allowed on posts,
// otherwise "unknown".
func (c Category) CoerceForPost() Category {
	if c.ValidForPost() {
		return c
	}
	return CategoryUnknown
}

// ParseCategory normalizes a free-form category string. Values outside the
// account enumeration collapse to "unknown".
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryGovernment:
		return CategoryGovernment
	case CategoryIndependent:
		return CategoryIndependent
	case CategoryOther:
		return CategoryOther
	default:
		return CategoryUnknown
	}
}

// Account is a monitored source identity. The ingestion pipeline only ever
// reads accounts; they are created and updated through the bulk importer.
type Account struct {
	ID              int64
	Platform        string
	Handle          string
	DisplayName     string
	Category        Category
	Role            string
	IsEnabled       bool
	VerificationURL string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
