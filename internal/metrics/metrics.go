// Package metrics wires the store's operation counters into Prometheus.
// Grounded on the counter/gauge shape services/apiproxy and
// services/streamproxy register in the greymass-roborovski pack.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every counter and gauge the store, shard log, and
// compactor update. A nil *Metrics is valid everywhere it's accepted —
// every method below is a no-op on a nil receiver — so metrics stay
// entirely optional plumbing.
type Metrics struct {
	opsTotal         *prometheus.CounterVec
	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter
	compactionsTotal prometheus.Counter
	compactionErrors prometheus.Counter
	shardBytesGauge  *prometheus.GaugeVec
}

// New registers a fresh set of collectors against reg and returns the
// handle used to update them. Pass prometheus.NewRegistry() for tests to
// avoid colliding with the default global registry across parallel tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		opsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bktkv_ops_total",
			Help: "Number of store operations, by command and result.",
		}, []string{"op", "result"}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bktkv_cache_hits_total",
			Help: "Number of shard LRU cache hits on Get.",
		}),
		cacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bktkv_cache_misses_total",
			Help: "Number of shard LRU cache misses on Get that fell through to the log file.",
		}),
		compactionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bktkv_compactions_total",
			Help: "Number of shard compaction passes completed.",
		}),
		compactionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bktkv_compaction_errors_total",
			Help: "Number of shard compaction passes that failed and were skipped.",
		}),
		shardBytesGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bktkv_shard_bytes",
			Help: "Size in bytes of each shard's log file after its last compaction.",
		}, []string{"shard"}),
	}

	reg.MustRegister(m.opsTotal, m.cacheHitsTotal, m.cacheMissesTotal,
		m.compactionsTotal, m.compactionErrors, m.shardBytesGauge)

	return m
}

func (m *Metrics) ObserveOp(op, result string) {
	if m == nil {
		return
	}
	m.opsTotal.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHitsTotal.Inc()
}

func (m *Metrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMissesTotal.Inc()
}

func (m *Metrics) ObserveCompaction() {
	if m == nil {
		return
	}
	m.compactionsTotal.Inc()
}

func (m *Metrics) ObserveCompactionError() {
	if m == nil {
		return
	}
	m.compactionErrors.Inc()
}

func (m *Metrics) SetShardBytes(shard string, n int64) {
	if m == nil {
		return
	}
	m.shardBytesGauge.WithLabelValues(shard).Set(float64(n))
}
