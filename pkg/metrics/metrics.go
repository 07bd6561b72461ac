package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by action (signup|login) and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursesite_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"action", "result"},
	)

	// CourseOperations counts course catalog mutations by operation (create|delete).
	CourseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursesite_course_operations_total",
			Help: "Total number of course create/delete operations",
		},
		[]string{"operation"},
	)

	// EmailsSent counts verification emails dispatched by result (success|failure).
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursesite_verification_emails_total",
			Help: "Total number of verification emails dispatched",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursesite_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
