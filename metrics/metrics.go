// Package metrics provides Prometheus metrics for FileDeck client
// operations and gateway traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resource client operation metrics
	ClientOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedeck_client_ops_total",
			Help: "Total number of resource client operations",
		},
		[]string{"service", "operation", "outcome"},
	)

	ClientOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filedeck_client_op_duration_seconds",
			Help:    "Resource client operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	// Gateway HTTP metrics
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedeck_gateway_requests_total",
			Help: "Total number of HTTP requests handled by the gateway",
		},
		[]string{"method", "route", "status_code"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filedeck_gateway_request_duration_seconds",
			Help:    "Gateway request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Session lifecycle metrics
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedeck_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"}, // "success", "rejected", "error"
	)

	SessionsCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filedeck_sessions_cleared_total",
			Help: "Total number of sessions destroyed (logout or expiry)",
		},
	)
)

// ObserveOp records one resource client operation outcome.
func ObserveOp(service, operation, outcome string, seconds float64) {
	ClientOpsTotal.WithLabelValues(service, operation, outcome).Inc()
	ClientOpDuration.WithLabelValues(service, operation).Observe(seconds)
}
