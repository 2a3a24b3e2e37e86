package app

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	"github.com/icewatch/x-monitor/internal/ingest"
	"github.com/icewatch/x-monitor/internal/ingest/ingestimpl"
	"github.com/icewatch/x-monitor/internal/metrics"
	_ "github.com/icewatch/x-monitor/internal/migrations"
	repositories "github.com/icewatch/x-monitor/internal/repositories/fx"
	"github.com/icewatch/x-monitor/internal/scraper"
	"github.com/icewatch/x-monitor/internal/scraper/scrapflyimpl"
	"github.com/icewatch/x-monitor/internal/server"
	"github.com/icewatch/x-monitor/internal/telegram"
	"github.com/icewatch/x-monitor/internal/telegram/telegramimpl"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
	"github.com/icewatch/x-monitor/pkg/pgx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		metrics.New,
		server.New,
	),
	fx.Provide(
		fx.Annotate(
			scrapflyimpl.New,
			fx.As(new(scraper.Client)),
		),
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Notifier)),
		),
		fx.Annotate(
			ingestimpl.New,
			fx.As(new(ingest.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies the embedded goose migrations before anything else runs.
func migrate(cfg *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are registered from internal/migrations via init; "." just
	// satisfies goose's directory argument.
	if err := goose.Up(db, "."); err != nil {
		return err
	}

	log.Info("Database migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, ingestClient ingest.Client, _ *server.Server) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := ingestClient.ScheduleRuns(runCtx); err != nil {
				log.Error("Failed to start ingestion schedule", "error", err)
				return err
			}
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
