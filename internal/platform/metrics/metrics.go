// Package metrics declares the process wide Prometheus collectors
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "followstats"

var (
	// CacheTotal counts memoized lookups by key family and outcome
	// (hit, miss, store, skip_empty, malformed, error)
	CacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Cache lookups by key family and outcome",
		},
		[]string{"family", "outcome"},
	)

	// RequestsTotal counts served requests by route pattern and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes handler latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP handler latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RateLimited counts requests rejected by a limiter
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)

	// SummaryUsers tracks how many users the last summary build covered
	SummaryUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_users",
			Help:      "Users covered by the last summary build",
		},
	)
)

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }
