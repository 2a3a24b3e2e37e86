package ingestimpl

import (
	"context"
	"fmt"

	"github.com/icewatch/x-monitor/internal/domain"
	"github.com/icewatch/x-monitor/internal/ingest"
	"github.com/icewatch/x-monitor/internal/scraper"
	apperrors "github.com/icewatch/x-monitor/pkg/errors"
)

// RunOnce drives one ingestion pass. Accounts are processed strictly in
// sequence: the external scraping service is metered per request and
// parallel renders would burn quota for no correctness gain.
func (c *IngestImpl) RunOnce(ctx context.Context) (ingest.Summary, error) {
	platform := c.Config.Ingest.Platform

	accounts, err := c.AccountRepo.ListEnabled(ctx, platform)
	if err != nil {
		return ingest.Summary{}, fmt.Errorf("failed to list enabled accounts: %w", err)
	}

	c.Logger.Info("Starting ingestion run", "platform", platform, "accounts", len(accounts))
	c.Metrics.RunsTotal.Inc()

	summary := ingest.Summary{Accounts: len(accounts)}

	for _, acc := range accounts {
		inserted, err := c.processAccount(ctx, acc)
		if err != nil {
			// One account failing must never abort the run; log and move on.
			c.Logger.Error("Account processing failed",
				"handle", acc.Handle,
				"error", truncateError(err, 300),
			)
			c.Metrics.AccountFailures.Inc()
			summary.Failed = append(summary.Failed, acc.Handle)
			continue
		}
		summary.Inserted += inserted
	}

	c.Logger.Info("Ingestion run finished",
		"platform", platform,
		"accounts", summary.Accounts,
		"inserted", summary.Inserted,
		"failed", len(summary.Failed),
	)
	return summary, nil
}

// processAccount runs scrape → normalize → dedup/cap → write for one account
// and returns how many rows were actually created. All of the account's
// writes happen in a single transaction inside CreateBatch; an error leaves
// nothing behind for this account.
func (c *IngestImpl) processAccount(ctx context.Context, acc domain.Account) (int, error) {
	raw, err := c.Scraper.FetchTimeline(ctx, acc.Handle)
	if err != nil {
		return 0, apperrors.Wrap(err, "scrape failed")
	}

	batch := dedupeAndCap(raw, c.Config.Ingest.MaxPostsPerAccount)

	posts := make([]domain.Post, 0, len(batch))
	for _, item := range batch {
		post, ok := normalizePost(item, acc)
		if !ok {
			continue
		}
		posts = append(posts, post)
	}

	if len(posts) == 0 {
		c.Logger.Info("No usable posts scraped", "handle", acc.Handle, "raw", len(raw))
		return 0, nil
	}

	inserted, err := c.PostRepo.CreateBatch(ctx, posts)
	if err != nil {
		return 0, apperrors.Wrap(err, "write failed")
	}

	c.Metrics.PostsInserted.Add(float64(inserted))
	c.Logger.Info("Account processed",
		"handle", acc.Handle,
		"scraped", len(raw),
		"submitted", len(posts),
		"inserted", inserted,
	)
	return inserted, nil
}

// dedupeAndCap drops in-batch duplicates by id (first occurrence wins; the
// same tweet can surface through two extraction paths) and truncates the
// batch to the newest max items. There is no backfill cursor: posts beyond
// the cap on a first run, or bursts larger than the cap between runs, are
// never ingested.
func dedupeAndCap(items []scraper.RawTweet, max int) []scraper.RawTweet {
	if max < 1 {
		max = 1
	}

	seen := make(map[string]struct{}, len(items))
	deduped := make([]scraper.RawTweet, 0, len(items))
	for _, item := range items {
		id := item.String("id")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, item)
	}

	if len(deduped) > max {
		deduped = deduped[:max]
	}
	return deduped
}

func truncateError(err error, n int) string {
	msg := err.Error()
	if len(msg) <= n {
		return msg
	}
	return msg[:n]
}
