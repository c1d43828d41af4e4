package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lppool_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lppool_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Pooling metrics
	passesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lppool_passes_total",
			Help: "Total number of pooling passes",
		},
		[]string{"direction", "status"}, // direction: forward, backward
	)

	passDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lppool_pass_duration_seconds",
			Help:    "Pooling pass duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"direction", "backend"},
	)

	validationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lppool_validation_failures_total",
			Help: "Total number of rejected calls by configuration error kind",
		},
		[]string{"kind"},
	)

	elementsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lppool_elements_processed_total",
			Help: "Total number of input elements processed",
		},
		[]string{"direction"},
	)
)
