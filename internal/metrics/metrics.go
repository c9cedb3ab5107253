// Package metrics holds the prometheus collectors shared by the cache,
// upstream and AI layers. Collectors register on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheLookups counts read-through lookups by key class and result (hit, miss, corrupt).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_lookups_total",
		Help: "Cache lookups by key class and result",
	}, []string{"class", "result"})

	// CacheWrites counts writebacks by key class.
	CacheWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_writes_total",
		Help: "Cache writebacks by key class",
	}, []string{"class"})

	// UpstreamRequests counts profile API calls by endpoint and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_upstream_requests_total",
		Help: "Profile API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// UpstreamLatency observes profile API latency by endpoint.
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_upstream_request_seconds",
		Help:    "Profile API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// AIAttempts counts generation attempts by outcome.
	AIAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_ai_attempts_total",
		Help: "Text generation attempts by outcome",
	}, []string{"outcome"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
