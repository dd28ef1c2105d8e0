package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cofi_client",
			Name:      "requests_total",
			Help:      "Calls issued, by endpoint and problem code.",
		},
		[]string{"endpoint", "problem"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cofi_client",
			Name:      "request_duration_seconds",
			Help:      "Wall time of a call including reading the body.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	invalidTokenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cofi_client",
			Name:      "invalid_token_total",
			Help:      "Responses rejected with 401 INVALID_TOKEN.",
		},
	)
)
