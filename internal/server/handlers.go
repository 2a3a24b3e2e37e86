package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/repositories/post"
)

// Hard pagination bounds, independent of whatever the client asks for.
const (
	maxLimit  = 100
	maxOffset = 10000
)

type postOut struct {
	ID                  int64      `json:"id"`
	Platform            string     `json:"platform"`
	PostID              string     `json:"post_id"`
	URL                 string     `json:"url"`
	AuthorHandle        string     `json:"author_handle"`
	AuthorDisplayName   string     `json:"author_display_name"`
	Category            string     `json:"category"`
	Text                string     `json:"text"`
	CreatedAt           *time.Time `json:"created_at"`
	RetrievedAt         time.Time  `json:"retrieved_at"`
	TaggedAccountHandle *string    `json:"tagged_account_handle"`
	TaggedHashtags      *string    `json:"tagged_hashtags"`
	Language            *string    `json:"language"`
	MediaJSON           string     `json:"media_json"`
	MetricsJSON         string     `json:"metrics_json"`
	AccountID           *int64     `json:"account_id"`
	LikeCount           int        `json:"like_count"`
}

type postListResponse struct {
	Posts []postOut `json:"posts"`
	Total int       `json:"total"`
}

func toPostOut(p *domain.PostWithLikes) postOut {
	return postOut{
		ID:                  p.ID,
		Platform:            p.Platform,
		PostID:              p.PostID,
		URL:                 p.URL,
		AuthorHandle:        p.AuthorHandle,
		AuthorDisplayName:   p.AuthorDisplayName,
		Category:            string(p.Category),
		Text:                p.Text,
		CreatedAt:           p.CreatedAt,
		RetrievedAt:         p.RetrievedAt,
		TaggedAccountHandle: p.TaggedAccountHandle,
		TaggedHashtags:      p.TaggedHashtags,
		Language:            p.Language,
		MediaJSON:           p.MediaJSON,
		MetricsJSON:         p.MetricsJSON,
		AccountID:           p.AccountID,
		LikeCount:           p.LikeCount,
	}
}

func (s *Server) listPosts(c *gin.Context) {
	filter := post.Filter{
		Platform: s.config.Ingest.Platform,
		Category: c.Query("category"),
		Limit:    clampInt(intQuery(c, "limit", 50), 1, maxLimit),
		Offset:   clampInt(intQuery(c, "offset", 0), 0, maxOffset),
	}

	if raw := c.Query("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account_id"})
			return
		}
		filter.AccountID = &id
	}

	posts, err := s.postRepo.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("Failed to list posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	total, err := s.postRepo.Count(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("Failed to count posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]postOut, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostOut(p))
	}
	c.JSON(http.StatusOK, postListResponse{Posts: out, Total: total})
}

func (s *Server) getPost(c *gin.Context) {
	p, err := s.postRepo.GetByPostID(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		s.logger.Error("Failed to get post", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toPostOut(p))
}

func (s *Server) likePost(c *gin.Context) {
	if !s.likeLimiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	postID := c.Param("post_id")

	// Counter rows only exist for posts we actually hold.
	if _, err := s.postRepo.GetByPostID(c.Request.Context(), postID); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		s.logger.Error("Failed to check post before like", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	count, err := s.likeRepo.Increment(c.Request.Context(), postID)
	if err != nil {
		s.logger.Error("Failed to increment like", "post_id", postID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	s.metrics.LikesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "like_count": count})
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.accountRepo.ListEnabled(c.Request.Context(), s.config.Ingest.Platform)
	if err != nil {
		s.logger.Error("Failed to list accounts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	type accountOut struct {
		AccountID   int64  `json:"account_id"`
		Platform    string `json:"platform"`
		Handle      string `json:"handle"`
		DisplayName string `json:"display_name"`
		Category    string `json:"category"`
	}

	out := make([]accountOut, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, accountOut{
			AccountID:   acc.ID,
			Platform:    acc.Platform,
			Handle:      acc.Handle,
			DisplayName: acc.DisplayName,
			Category:    string(acc.Category),
		})
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
