// Package metrics holds the Prometheus collectors exported by moodcast.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

var (
	CatalogSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcast_catalog_searches_total",
			Help: "Catalog playlist searches by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	CatalogSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodcast_catalog_search_duration_seconds",
			Help:    "Duration of catalog playlist searches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CatalogBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodcast_catalog_breaker_state",
			Help: "Circuit breaker state per catalog (0 closed, 1 half-open, 2 open)",
		},
		[]string{"provider"},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodcast_recommendations_total",
			Help: "Recommendations served by kind (recommend, regenerate) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	Sessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodcast_sessions",
			Help: "Recommendation sessions currently held in memory",
		},
	)

	WeatherCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodcast_weather_cache_hits_total",
			Help: "Weather lookups served from cache",
		},
	)

	WeatherCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodcast_weather_cache_misses_total",
			Help: "Weather lookups that reached the provider",
		},
	)
)

// RecordCatalogSearch records one catalog search.
func RecordCatalogSearch(provider, outcome string, duration time.Duration) {
	CatalogSearches.WithLabelValues(provider, outcome).Inc()
	CatalogSearchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRecommendation records one recommend or regenerate call.
func RecordRecommendation(kind, outcome string) {
	Recommendations.WithLabelValues(kind, outcome).Inc()
}
