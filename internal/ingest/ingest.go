package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/icewatch/x-monitor/pkg/formatter"
)

// Summary is the outcome of one full ingestion run across all enabled
// accounts for the configured platform.
type Summary struct {
	Accounts int      // accounts processed, including failed ones
	Inserted int      // rows actually created across the whole run
	Failed   []string // handles whose processing failed
}

func (s Summary) String() string {
	if len(s.Failed) == 0 {
		return fmt.Sprintf("ingested %s new posts across %d accounts",
			formatter.FormatNumber(s.Inserted), s.Accounts)
	}
	return fmt.Sprintf("ingested %s new posts across %d accounts (%d failed: %s)",
		formatter.FormatNumber(s.Inserted), s.Accounts, len(s.Failed), strings.Join(s.Failed, ", "))
}

//go:generate go run go.uber.org/mock/mockgen -source=ingest.go -destination=mocks/mock.go
type Client interface {
	// RunOnce drives one pass: list enabled accounts, then per account
	// scrape, normalize, dedup/cap and write. One account's failure never
	// aborts the rest of the run.
	RunOnce(ctx context.Context) (Summary, error)

	// ScheduleRuns starts the periodic ingestion schedule and returns.
	// The schedule shuts down when ctx is cancelled.
	ScheduleRuns(ctx context.Context) error
}
