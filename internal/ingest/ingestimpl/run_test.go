package ingestimpl

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/metrics"
	"github.com/icewatch/x-monitor/internal/repositories/post"
	"github.com/icewatch/x-monitor/internal/scraper"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
)

type fakeScraper struct {
	timelines map[string][]scraper.RawTweet
	errs      map[string]error
	calls     []string
}

func (f *fakeScraper) FetchTimeline(_ context.Context, handle string) ([]scraper.RawTweet, error) {
	f.calls = append(f.calls, handle)
	if err := f.errs[handle]; err != nil {
		return nil, err
	}
	return f.timelines[handle], nil
}

type fakeAccountRepo struct {
	accounts []domain.Account
}

func (f *fakeAccountRepo) ListEnabled(context.Context, string) ([]domain.Account, error) {
	return f.accounts, nil
}

func (f *fakeAccountRepo) GetByHandle(context.Context, string, string) (*domain.Account, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAccountRepo) Upsert(context.Context, domain.Account) (bool, error) {
	return false, errors.New("not implemented")
}

// fakePostRepo mimics insert-or-ignore semantics: first write of a post_id
// creates a row, every later write is a silent no-op.
type fakePostRepo struct {
	rows    map[string]domain.Post
	batches [][]domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{rows: make(map[string]domain.Post)}
}

func (f *fakePostRepo) CreateBatch(_ context.Context, posts []domain.Post) (int, error) {
	f.batches = append(f.batches, posts)
	inserted := 0
	for _, p := range posts {
		if _, exists := f.rows[p.PostID]; exists {
			continue
		}
		f.rows[p.PostID] = p
		inserted++
	}
	return inserted, nil
}

func (f *fakePostRepo) List(context.Context, post.Filter) ([]*domain.PostWithLikes, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePostRepo) Count(context.Context, post.Filter) (int, error) {
	return len(f.rows), nil
}

func (f *fakePostRepo) GetByPostID(context.Context, string) (*domain.PostWithLikes, error) {
	return nil, post.ErrNotFound
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) { f.messages = append(f.messages, text) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Ingest.Platform = "x"
	cfg.Ingest.MaxPostsPerAccount = 10
	return cfg
}

func newTestIngest(t *testing.T, sc scraper.Client, accounts []domain.Account, posts *fakePostRepo) *IngestImpl {
	t.Helper()
	return &IngestImpl{
		Scraper:     sc,
		AccountRepo: &fakeAccountRepo{accounts: accounts},
		PostRepo:    posts,
		Notifier:    &fakeNotifier{},
		Metrics:     metrics.NewWith(prometheus.NewRegistry()),
		Logger:      logger.New(logger.Opts{Env: "test"}),
		Config:      testConfig(t),
	}
}

func rawTweets(n int, startID int) []scraper.RawTweet {
	tweets := make([]scraper.RawTweet, 0, n)
	for i := 0; i < n; i++ {
		tweets = append(tweets, scraper.RawTweet{
			"id":   fmt.Sprintf("%d", startID+i),
			"text": fmt.Sprintf("post %d", startID+i),
		})
	}
	return tweets
}

func TestRunOnce_CapsInsertsPerAccount(t *testing.T) {
	acc := domain.Account{ID: 1, Platform: "x", Handle: "agency1", Category: domain.CategoryGovernment}
	sc := &fakeScraper{timelines: map[string][]scraper.RawTweet{
		"agency1": rawTweets(12, 1000),
	}}
	posts := newFakePostRepo()
	ing := newTestIngest(t, sc, []domain.Account{acc}, posts)

	summary, err := ing.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, summary.Inserted)
	assert.Len(t, posts.rows, 10)
	for id, p := range posts.rows {
		assert.Equal(t, domain.CategoryGovernment, p.Category)
		assert.Equal(t, "https://x.com/agency1/status/"+id, p.URL)
	}
}

func TestRunOnce_SecondRunIsIdempotent(t *testing.T) {
	acc := domain.Account{ID: 1, Platform: "x", Handle: "agency1", Category: domain.CategoryGovernment}
	sc := &fakeScraper{timelines: map[string][]scraper.RawTweet{
		"agency1": rawTweets(12, 1000),
	}}
	posts := newFakePostRepo()
	ing := newTestIngest(t, sc, []domain.Account{acc}, posts)

	first, err := ing.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, first.Inserted)

	second, err := ing.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Len(t, posts.rows, 10)
}

func TestRunOnce_FailureIsolation(t *testing.T) {
	accounts := []domain.Account{
		{ID: 1, Platform: "x", Handle: "first", Category: domain.CategoryGovernment},
		{ID: 2, Platform: "x", Handle: "broken", Category: domain.CategoryIndependent},
		{ID: 3, Platform: "x", Handle: "third", Category: domain.CategoryIndependent},
	}
	sc := &fakeScraper{
		timelines: map[string][]scraper.RawTweet{
			"first": rawTweets(2, 100),
			"third": rawTweets(3, 300),
		},
		errs: map[string]error{
			"broken": errors.New("scrape exploded"),
		},
	}
	posts := newFakePostRepo()
	ing := newTestIngest(t, sc, accounts, posts)

	summary, err := ing.RunOnce(context.Background())
	require.NoError(t, err)

	// All three accounts were attempted, in order.
	assert.Equal(t, []string{"first", "broken", "third"}, sc.calls)
	assert.Equal(t, 5, summary.Inserted)
	assert.Equal(t, []string{"broken"}, summary.Failed)
	assert.Equal(t, 3, summary.Accounts)
}

func TestProcessAccount_BatchDedup(t *testing.T) {
	acc := domain.Account{ID: 1, Platform: "x", Handle: "agency1", Category: domain.CategoryGovernment}
	// The same tweet surfaced via two extraction paths.
	sc := &fakeScraper{timelines: map[string][]scraper.RawTweet{
		"agency1": {
			{"id": "42", "text": "from path one"},
			{"id": "42", "text": "from path two"},
			{"id": "43", "text": "unique"},
		},
	}}
	posts := newFakePostRepo()
	ing := newTestIngest(t, sc, []domain.Account{acc}, posts)

	inserted, err := ing.processAccount(context.Background(), acc)
	require.NoError(t, err)

	assert.Equal(t, 2, inserted)
	require.Len(t, posts.batches, 1)
	assert.Len(t, posts.batches[0], 2)
	// First occurrence wins.
	assert.Equal(t, "from path one", posts.rows["42"].Text)
}

func TestProcessAccount_RejectedItemsSkipped(t *testing.T) {
	acc := domain.Account{ID: 1, Platform: "x", Handle: "agency1", Category: domain.CategoryGovernment}
	sc := &fakeScraper{timelines: map[string][]scraper.RawTweet{
		"agency1": {
			{"text": "no id, rejected"},
			{"id": "1", "text": "kept"},
		},
	}}
	posts := newFakePostRepo()
	ing := newTestIngest(t, sc, []domain.Account{acc}, posts)

	inserted, err := ing.processAccount(context.Background(), acc)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestDedupeAndCap(t *testing.T) {
	items := []scraper.RawTweet{
		{"id": "a"},
		{"id": "b"},
		{"id": "a"}, // duplicate
		{},          // no id
		{"id": "c"},
	}

	out := dedupeAndCap(items, 10)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].String("id"))

	out = dedupeAndCap(items, 2)
	assert.Len(t, out, 2)

	// Floor of 1 even with a nonsensical cap.
	out = dedupeAndCap(items, 0)
	assert.Len(t, out, 1)
}
