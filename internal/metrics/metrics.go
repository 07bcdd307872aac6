package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "rankboard_upstream_request_duration_seconds",
			Help: "Duration of backend API requests in seconds",
		},
		[]string{"endpoint"},
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankboard_upstream_request_errors_total",
			Help: "Total number of failed backend API requests",
		},
		[]string{"endpoint", "status"},
	)

	ViewBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankboard_view_builds_total",
			Help: "Total number of views rebuilt from upstream data",
		},
		[]string{"view"},
	)

	ViewCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankboard_view_cache_hits_total",
			Help: "Total number of views served from the local cache",
		},
		[]string{"view"},
	)

	PivotRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rankboard_pivot_rows",
			Help:    "Number of product rows produced per pivot",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"view"},
	)

	Computations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankboard_computations_total",
			Help: "Total number of SMART/MOORA computations triggered",
		},
		[]string{"method", "result"},
	)
)
