package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP boundary
var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smolder_http_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smolder_http_request_duration_seconds",
			Help:    "Time taken to serve an API request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Registry activity
var (
	DeploymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smolder_deployments_recorded_total",
			Help: "Total number of deployments written to the registry by source",
		},
		[]string{"source"},
	)

	ContractCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smolder_contract_calls_total",
			Help: "Total number of contract interactions by call type and status",
		},
		[]string{"call_type", "status"},
	)
)

// Deployment sources
const (
	SourceArtifact = "artifact"
)
