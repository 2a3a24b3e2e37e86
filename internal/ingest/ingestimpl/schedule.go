package ingestimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleRuns starts the periodic ingestion job. Overlapping runs are
// not prevented; conflict-tolerant inserts keep duplicates out.
func (c *IngestImpl) ScheduleRuns(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create ingest scheduler: %w", err)
	}

	jobOpts := []gocron.JobOption{}
	if c.Config.Ingest.RunOnStart {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(c.Config.Ingest.Interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				c.Logger.Info("Context cancelled, skipping scheduled ingestion")
				return
			}

			runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()

			summary, err := c.RunOnce(runCtx)
			if err != nil {
				c.Logger.Error("Scheduled ingestion run failed", "error", err)
				c.Notifier.SendMessage("Ingestion run failed: " + truncateError(err, 300))
				return
			}

			c.Notifier.SendMessage(summary.String())
		}),
		jobOpts...,
	)
	if err != nil {
		return fmt.Errorf("failed to schedule ingestion: %w", err)
	}

	scheduler.Start()
	c.Logger.Info("Ingestion schedule started",
		"interval", c.Config.Ingest.Interval.String(),
		"run_on_start", c.Config.Ingest.RunOnStart,
	)

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping ingestion scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down ingestion scheduler", "error", err)
		}
	}()

	return nil
}
