package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	TaskOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operation_count",
			Help: "Total number of task operations",
		},
		[]string{"operation"}, // operation: create, status_update, comment, delete
	)

	AuthAttemptCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempt_count",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"}, // result: success, failed
	)
)

// RecordHTTPRequestDuration records one HTTP request's duration.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementTaskOperation counts a task mutation.
func IncrementTaskOperation(operation string) {
	TaskOperationCount.WithLabelValues(operation).Inc()
}

// IncrementAuthAttempt counts a login attempt outcome.
func IncrementAuthAttempt(result string) {
	AuthAttemptCount.WithLabelValues(result).Inc()
}
