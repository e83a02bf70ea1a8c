// Package metrics declares the domain collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	NearbySearches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sitter_nearby_searches_total",
		Help: "Total number of nearby sitter searches.",
	})

	NearbyResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sitter_nearby_results",
		Help:    "Number of sitters returned per nearby search.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	// DirectoryFallbacks counts search results served from the cached
	// snapshot because the user directory lookup missed or failed.
	DirectoryFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sitter_directory_fallbacks_total",
		Help: "Search results enriched from the cached snapshot instead of the directory.",
	})

	PresenceUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sitter_presence_updates_total",
		Help: "Presence writes by resulting online state.",
	}, []string{"online"})

	// Notifications counts full-day fanout deliveries by outcome (sent|failed).
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sitter_full_notifications_total",
		Help: "Full-day notifications handed to the sink, by outcome.",
	}, []string{"outcome"})

	// HTTP traffic, labelled by registered route to keep cardinality bounded.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "Current number of in-flight HTTP requests.",
	})
)

func init() {
	prometheus.MustRegister(
		NearbySearches,
		NearbyResults,
		DirectoryFallbacks,
		PresenceUpdates,
		Notifications,
		HTTPRequests,
		HTTPDuration,
		HTTPInflight,
	)
}
