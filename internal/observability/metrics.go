package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "murmur_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthFailures counts rejected credential verifications by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_auth_failures_total",
		Help: "Total number of rejected credential verifications by reason",
	}, []string{"reason"})

	// ClassifiedErrors counts failures leaving the system boundary by external kind.
	ClassifiedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_classified_errors_total",
		Help: "Total number of classified failures by external error kind",
	}, []string{"kind"})
)

// InitHTTPMetrics creates the fiberprometheus middleware for HTTP request metrics.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
