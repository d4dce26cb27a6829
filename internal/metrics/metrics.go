package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lagent_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lagent_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	FeedRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lagent_feed_refreshes_total",
			Help: "Total categorizer feed refresh attempts",
		},
		[]string{"status"}, // "success" or "error"
	)

	FeedLoadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lagent_feed_load_errors_total",
			Help: "Total feed load failures (worklist degraded to local-only)",
		},
	)

	DispatchSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lagent_dispatch_sessions_total",
			Help: "Total dispatch sessions finished",
		},
		[]string{"outcome"}, // "resolved" or "dismissed"
	)

	DraftRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lagent_draft_requests_total",
			Help: "Total email draft requests",
		},
		[]string{"kind"}, // "initial", "regenerate", "preselect"
	)

	WorklistQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lagent_worklist_queries_total",
			Help: "Total worklist queries",
		},
	)

	// Infrastructure metrics
	ReadModelLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lagent_read_model_latency_seconds",
			Help:    "Read model query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1},
		},
	)
)
