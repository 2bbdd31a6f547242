// Package metrics provides Prometheus metrics for the RetroShelf backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retroshelf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retroshelf_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Auth Metrics
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retroshelf_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success" or "failed"
	)

	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retroshelf_rate_limited_requests_total",
			Help: "Requests rejected by the auth rate limiter",
		},
	)

	// Change Request Metrics
	ItemChangesProposedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retroshelf_item_changes_proposed_total",
			Help: "Total number of item change requests submitted",
		},
	)

	ItemChangesDecidedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retroshelf_item_changes_decided_total",
			Help: "Item change requests decided, by outcome",
		},
		[]string{"outcome"}, // "approved" or "rejected"
	)

	ItemChangesPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "retroshelf_item_changes_pending",
			Help: "Number of change requests currently awaiting a decision",
		},
	)

	// Collection Metrics
	CollectionItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "retroshelf_collection_items_total",
			Help: "Total number of items held across all collections",
		},
	)

	ValuationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retroshelf_valuation_duration_seconds",
			Help:    "Time taken to compute a collection valuation series",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// Catalog Metrics
	GameDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "retroshelf_game_database_size",
			Help: "Number of games in the catalog",
		},
	)
)
