package metrics

import "github.com/prometheus/client_golang/prometheus"

// Corpus and retrieval Prometheus metrics.
var (
	CorpusChunks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chunkdex",
			Name:      "corpus_chunks",
			Help:      "Number of chunks resident in the corpus",
		},
	)

	CorpusVectors = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chunkdex",
			Name:      "corpus_vectors",
			Help:      "Number of vectors resident in the corpus",
		},
	)

	CorpusAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chunkdex",
			Name:      "corpus_available",
			Help:      "1 when the corpus can answer queries (ready or fallback), 0 otherwise",
		},
	)

	CorpusLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chunkdex",
			Name:      "corpus_loads_total",
			Help:      "Corpus load and reload attempts",
		},
		[]string{"op", "result"}, // op: load/reload, result: ok/fallback/error
	)

	CorpusSkippedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chunkdex",
			Name:      "corpus_skipped_records_total",
			Help:      "Snapshot records skipped for missing or malformed fields",
		},
		[]string{"snapshot"}, // chunks / vectors
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chunkdex",
			Name:      "search_requests_total",
			Help:      "Total number of similarity searches",
		},
		[]string{"status"}, // ok / unavailable / error
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chunkdex",
			Name:      "search_duration_seconds",
			Help:      "Similarity search duration in seconds (vectorize + scan)",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chunkdex",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)
)

var corpusMetricsRegistered bool

// RegisterCorpusMetrics registers corpus and search metrics. Must be called once from main.
func RegisterCorpusMetrics() {
	if corpusMetricsRegistered {
		return
	}
	prometheus.MustRegister(CorpusChunks)
	prometheus.MustRegister(CorpusVectors)
	prometheus.MustRegister(CorpusAvailable)
	prometheus.MustRegister(CorpusLoadsTotal)
	prometheus.MustRegister(CorpusSkippedRecordsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	corpusMetricsRegistered = true
}
