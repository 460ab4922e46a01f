package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider-call Prometheus metrics: embedding and summarization round trips.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "policyrag",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "policyrag",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "policyrag",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "policyrag",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SummarizeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "policyrag",
			Name:      "summarize_requests_total",
			Help:      "Total number of summarization requests",
		},
		[]string{"model", "status"},
	)

	SummarizeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "policyrag",
			Name:      "summarize_request_duration_seconds",
			Help:      "Summarization request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	SummarizeTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "policyrag",
			Name:      "summarize_tokens_total",
			Help:      "Total summarization tokens consumed",
		},
		[]string{"model", "type"},
	)
)

var providerMetricsRegistered bool

// RegisterProviderMetrics registers provider-call metrics. Must be called once from main.
func RegisterProviderMetrics() {
	if providerMetricsRegistered {
		return
	}
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(SummarizeRequestsTotal)
	prometheus.MustRegister(SummarizeRequestDuration)
	prometheus.MustRegister(SummarizeTokensTotal)
	providerMetricsRegistered = true
}
