// Package metrics provides centralized Prometheus metrics registry for the Elo advisor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "elo_advisor"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RankingFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_fetches_total",
		Help:      "Total number of upstream ranking fetches by outcome",
	}, []string{"source", "outcome"})
	RankingCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_cache_hits_total",
		Help:      "Total number of ranking requests served from cache",
	})
	RankingCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_cache_misses_total",
		Help:      "Total number of ranking requests that required an upstream fetch",
	})
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of match analyses by verdict",
	}, []string{"verdict"})
	ValidationRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_rejections_total",
		Help:      "Total number of match inputs rejected by validation",
	})
	CircuitBreakerRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_rejections_total",
		Help:      "Total number of upstream requests refused by the open circuit",
	})
)

// Gauge metrics
var (
	RankingSnapshotEntities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranking_snapshot_entities",
		Help:      "Number of entities in the cached ranking snapshot",
	})
	RankingSnapshotTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranking_snapshot_timestamp_seconds",
		Help:      "Unix time the cached ranking snapshot was fetched",
	})
)

// Histogram metrics
var (
	RankingFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_fetch_duration_seconds",
		Help:      "Duration of upstream ranking fetches in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RankingFetchesTotal)
		registry.MustRegister(RankingCacheHitsTotal)
		registry.MustRegister(RankingCacheMissesTotal)
		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(ValidationRejectionsTotal)
		registry.MustRegister(CircuitBreakerRejectionsTotal)

		// Register gauge metrics
		registry.MustRegister(RankingSnapshotEntities)
		registry.MustRegister(RankingSnapshotTimestamp)

		// Register histogram metrics
		registry.MustRegister(RankingFetchDuration)

		// Register HTTP metrics
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRankingFetch records an upstream fetch and its duration.
// outcome is "success" or an error code.
func RecordRankingFetch(source, outcome string, durationSeconds float64) {
	RankingFetchesTotal.WithLabelValues(source, outcome).Inc()
	RankingFetchDuration.Observe(durationSeconds)
}

// RecordCacheHit records a ranking served from cache.
func RecordCacheHit() {
	RankingCacheHitsTotal.Inc()
}

// RecordCacheMiss records a ranking cache miss.
func RecordCacheMiss() {
	RankingCacheMissesTotal.Inc()
}

// UpdateSnapshot records the size and fetch time of the cached snapshot.
func UpdateSnapshot(entities int, fetchedAtUnix float64) {
	RankingSnapshotEntities.Set(float64(entities))
	RankingSnapshotTimestamp.Set(fetchedAtUnix)
}

// RecordAnalysis records a completed analysis.
func RecordAnalysis(verdict string) {
	AnalysesTotal.WithLabelValues(verdict).Inc()
}

// RecordValidationRejection records rejected match input.
func RecordValidationRejection() {
	ValidationRejectionsTotal.Inc()
}

// RecordCircuitBreakerRejection records a request refused by the open circuit.
func RecordCircuitBreakerRejection() {
	CircuitBreakerRejectionsTotal.Inc()
}
