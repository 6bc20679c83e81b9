// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache-aside hits by key prefix.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_cache_hits_total",
		Help: "Total number of cache hits by entity",
	}, []string{"entity"})

	// CacheMisses counts cache-aside misses by key prefix.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_cache_misses_total",
		Help: "Total number of cache misses by entity",
	}, []string{"entity"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// GithubLookupFailures counts failed upstream GitHub repo lookups.
	GithubLookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_github_lookup_failures_total",
		Help: "Total number of failed GitHub repository lookups",
	}, []string{"reason"})

	// AuthFailures counts rejected requests by guard stage.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_auth_failures_total",
		Help: "Total number of authentication failures by stage",
	}, []string{"stage"})
)

// InitMetrics creates the Fiber Prometheus middleware for HTTP metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
