package ingestimpl

import (
	"go.uber.org/fx"

	"github.com/icewatch/x-monitor/internal/ingest"
	"github.com/icewatch/x-monitor/internal/metrics"
	"github.com/icewatch/x-monitor/internal/repositories/account"
	"github.com/icewatch/x-monitor/internal/repositories/post"
	"github.com/icewatch/x-monitor/internal/scraper"
	"github.com/icewatch/x-monitor/internal/telegram"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
)

type Opts struct {
	fx.In

	Scraper     scraper.Client
	AccountRepo account.Repository
	PostRepo    post.Repository
	Notifier    telegram.Notifier
	Metrics     *metrics.Metrics
	Logger      logger.Logger
	Config      *config.Config
}

type IngestImpl struct {
	Scraper     scraper.Client
	AccountRepo account.Repository
	PostRepo    post.Repository
	Notifier    telegram.Notifier
	Metrics     *metrics.Metrics
	Logger      logger.Logger
	Config      *config.Config
}

func New(opts Opts) *IngestImpl {
	return &IngestImpl{
		Scraper:     opts.Scraper,
		AccountRepo: opts.AccountRepo,
		PostRepo:    opts.PostRepo,
		Notifier:    opts.Notifier,
		Metrics:     opts.Metrics,
		Logger:      opts.Logger.WithComponent("Ingest"),
		Config:      opts.Config,
	}
}

var _ ingest.Client = (*IngestImpl)(nil)
