package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
)

// Namespace prefixes every exported metric.
const Namespace = "contentdex"

// Search Prometheus metrics.
var (
	CategoryQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "category_queries_total",
			Help:      "Total number of per-category lookups",
		},
		[]string{"category", "status"}, // "ok" / "error" / "timeout"
	)

	CategoryQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "category_query_duration_seconds",
			Help:      "Per-category lookup duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"category"},
	)

	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results_returned",
			Help:      "Number of results on a returned search page",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
		},
	)

	SearchDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_degraded_total",
			Help:      "Searches where at least one category failed",
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_cache_total",
			Help:      "Search cache hits and misses",
		},
		[]string{"category", "result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(CategoryQueriesTotal)
	prometheus.MustRegister(CategoryQueryDuration)
	prometheus.MustRegister(SearchResultsReturned)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchCacheTotal)
	searchMetricsRegistered = true
}

// SearchRecorder feeds orchestrator telemetry into the package metrics.
type SearchRecorder struct{}

// ObserveCategory records one category lookup.
func (SearchRecorder) ObserveCategory(tag category.Tag, status string, d time.Duration) {
	CategoryQueriesTotal.WithLabelValues(string(tag), status).Inc()
	CategoryQueryDuration.WithLabelValues(string(tag)).Observe(d.Seconds())
}

// ObservePage records the size of a returned page.
func (SearchRecorder) ObservePage(results, failed int) {
	SearchResultsReturned.Observe(float64(results))
	if failed > 0 {
		SearchDegradedTotal.Inc()
	}
}
