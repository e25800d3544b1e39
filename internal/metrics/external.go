package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for external collaborators (generation provider,
// search index, query memory).
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "generation_requests_total",
			Help:      "Total number of text generation requests",
		},
		[]string{"model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "journal",
			Name:      "generation_request_duration_seconds",
			Help:      "Text generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"model", "type"},
	)

	IndexRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "index_requests_total",
			Help:      "Total number of search index requests",
		},
		[]string{"operation", "status"},
	)

	MemoryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "search_memory_total",
			Help:      "Query memory log hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var externalMetricsRegistered bool

// RegisterExternalMetrics registers collaborator metrics. Must be called once from main.
func RegisterExternalMetrics() {
	if externalMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(IndexRequestsTotal)
	prometheus.MustRegister(MemoryCacheTotal)
	externalMetricsRegistered = true
}
