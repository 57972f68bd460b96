package compactor

import (
	"time"

	"go.uber.org/zap"

	"bktkv/internal/metrics"
	"bktkv/internal/shardmap"
)

// New builds a Compactor over shards. period <= 0 falls back to
// DefaultPeriod. m and log may be nil.
func New(shards *shardmap.Map, period time.Duration, m *metrics.Metrics, log *zap.Logger) *Compactor {
	if period <= 0 {
		period = DefaultPeriod
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Compactor{
		shards:  shards,
		period:  period,
		metrics: m,
		log:     log,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}
