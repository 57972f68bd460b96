// Package compactor implements the background reclamation worker: one
// goroutine, sleeping between passes, walking every shard in fixed order
// and compacting it, trapping and logging any per-shard I/O failure
// without aborting the pass. Modeled on internal/storage/janitor,
// generalized from its three tickers (TTL expiry, cold eviction, cold
// flush) down to the single reclamation pass this store needs.
package compactor

import (
	"time"

	"go.uber.org/zap"

	"bktkv/internal/metrics"
	"bktkv/internal/shardmap"
)

// DefaultPeriod is the default sleep between compaction passes.
const DefaultPeriod = 30 * time.Second

// Compactor is the single dedicated background worker that reclaims
// tombstoned space from every shard.
type Compactor struct {
	shards  *shardmap.Map
	period  time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}
