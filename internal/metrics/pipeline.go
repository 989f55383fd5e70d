package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query pipeline Prometheus metrics.
var (
	GuardrailBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guardrail_blocks_total",
			Help:      "Queries rejected as out of domain",
		},
		[]string{"label"},
	)

	IntentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_total",
			Help:      "Chat queries by detected intent",
		},
		[]string{"intent"},
	)

	RerankFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rerank_fallback_total",
			Help:      "Rerank calls that failed and kept similarity order",
		},
	)

	RerankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rerank_duration_seconds",
			Help:      "Reranker call duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	BackfillAddedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_added_total",
			Help:      "Candidates added by backfill after intent filtering",
		},
		[]string{"intent"},
	)

	FilteredCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filtered_candidates",
			Help:      "Candidates surviving the intent filter",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
		[]string{"intent"},
	)

	VectorStoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vector_store_query_duration_seconds",
			Help:      "Vector store KNN query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"driver", "status"},
	)
)

var pipelineOnce sync.Once

// RegisterPipelineMetrics registers query pipeline metrics with the default registry.
func RegisterPipelineMetrics() {
	pipelineOnce.Do(func() {
		prometheus.MustRegister(
			GuardrailBlocksTotal,
			IntentTotal,
			RerankFallbackTotal,
			RerankDuration,
			BackfillAddedTotal,
			FilteredCandidates,
			VectorStoreDuration,
		)
	})
}
