package shardlog

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"bktkv/internal/lrucache"
)

const defaultCacheCapacity = 64

// Open opens (creating if absent) the shard file at path and returns a
// ready Shard. It does not run recovery — callers that reopen an existing
// directory must call Recover explicitly first, before the shard serves
// any requests, so a file left with a partial trailing record from a
// prior crash never gets scanned as-is.
func Open(id int, path string, opts Options) (*Shard, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("shardlog: open shard %d at %s: %w", id, path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("shardlog: close shard %d at %s: %w", id, path, err)
	}

	capacity := opts.CacheCapacity
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Shard{
		id:      id,
		path:    path,
		cache:   lrucache.New(capacity),
		metrics: opts.Metrics,
		log:     logger,
	}, nil
}

// ID returns the shard's index within the store's shard array.
func (s *Shard) ID() int { return s.id }

// Path returns the shard's backing file path.
func (s *Shard) Path() string { return s.path }
