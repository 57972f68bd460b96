// Package shardlog implements the per-shard append-only log: a single file
// of tombstone-capable Records, a readers-writer lock serializing writers
// and the compactor against readers, and an LRU cache absorbing re-reads.
// Modeled on internal/storage/cache/shard.go's per-shard file, generalized
// from an in-RAM map to an on-disk scan: the file is the source of truth
// here, not a side journal backing an in-memory map, so every read and
// write goes through it directly.
package shardlog

import (
	"sync"

	"go.uber.org/zap"

	"bktkv/internal/lrucache"
	"bktkv/internal/metrics"
)

// Shard owns one shard file: its id, its path, its bounded LRU cache, and
// the readers-writer lock guarding both.
type Shard struct {
	id    int
	path  string
	cache *lrucache.Cache

	mu sync.RWMutex

	metrics *metrics.Metrics
	log     *zap.Logger
}

// Options configures a Shard's dependencies that don't vary per instance
// within a Store (logger, metrics sink, cache capacity).
type Options struct {
	CacheCapacity int
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}
