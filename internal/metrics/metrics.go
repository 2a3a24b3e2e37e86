package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xmonitor"

// Metrics holds the process-wide prometheus collectors. Registered once via
// promauto on the default registry; /metrics on the HTTP server exposes them.
type Metrics struct {
	RunsTotal       prometheus.Counter
	PostsInserted   prometheus.Counter
	AccountFailures prometheus.Counter
	LikesTotal      prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Number of ingestion runs started.",
		}),
		PostsInserted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_inserted_total",
			Help:      "Number of post rows actually created (duplicates excluded).",
		}),
		AccountFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_failures_total",
			Help:      "Number of per-account ingestion failures.",
		}),
		LikesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "likes_total",
			Help:      "Number of likes recorded through the API.",
		}),
	}
}
