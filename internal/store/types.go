// Package store implements the top-level facade: owning the shard array
// and the background compactor's lifecycle, and presenting the three
// data-plane operations the server dispatches RESP commands into.
// Grounded on cmd/imcs/main.go's construction sequence (persister → cache
// → janitor → restore), replayed here as file-per-shard construction and
// recovery followed by compactor start.
package store

import (
	"time"

	"go.uber.org/zap"

	"bktkv/internal/compactor"
	"bktkv/internal/metrics"
	"bktkv/internal/shardmap"
)

// Mode selects how New initializes the shard directory.
type Mode int

const (
	// Create wipes dir and creates N empty shard files.
	Create Mode = iota
	// Open creates any missing shard files and runs recovery on every
	// shard file that already existed.
	Open
)

// Options configures a Store's dependencies and tunables.
type Options struct {
	Dir             string
	Shards          int
	CacheCapacity   int
	CompactorPeriod time.Duration
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
}

// Store is the facade the server package drives: it hides sharding,
// caching, on-disk recovery, and background compaction behind three
// verbs matching the RESP command set.
type Store struct {
	shards    *shardmap.Map
	compactor *compactor.Compactor
	metrics   *metrics.Metrics
	log       *zap.Logger
}
