// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinefinder_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinefinder_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	GatewayLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinefinder_gateway_lookups_total",
		Help: "Gateway lookups by search type and outcome",
	}, []string{"type", "outcome"})

	SearchSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinefinder_search_submissions_total",
		Help: "Search view submissions by result kind",
	}, []string{"kind"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinefinder_active_sessions",
		Help: "Number of open live search sessions",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinefinder_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter",
	})
)

// Lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)
