// Package metrics provides Prometheus metrics for the MarketScan backend.
// Scrape these at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketscan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketscan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// JustTCG API Metrics
	JustTCGRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketscan_justtcg_requests_total",
			Help: "Total number of JustTCG API requests made",
		},
	)

	JustTCGQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketscan_justtcg_quota_remaining",
			Help: "Remaining JustTCG API requests for today",
		},
	)

	// Resolver Metrics
	SearchResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketscan_search_results_total",
			Help: "Card search resolutions by outcome",
		},
		[]string{"outcome"}, // "auto", "manual", "empty"
	)

	ImageLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketscan_image_lookups_total",
			Help: "TCGdex image lookups by result",
		},
		[]string{"result"}, // "ok", "cached", "failed"
	)

	// Collection Metrics
	CollectionOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketscan_collection_ops_total",
			Help: "Collection mutations by operation",
		},
		[]string{"op"}, // "add", "remove"
	)

	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketscan_collection_value_usd",
			Help: "Total value of the most recently recomputed collection in USD",
		},
	)

	// Auth Metrics
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketscan_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "ok", "rejected"
	)
)
