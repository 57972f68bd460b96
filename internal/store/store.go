package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"bktkv/internal/compactor"
	"bktkv/internal/shardlog"
	"bktkv/internal/shardmap"
)

// DefaultShards is the shard count used when Options.Shards is unset.
const DefaultShards = 512

func shardPath(dir string, id int) string {
	return filepath.Join(dir, fmt.Sprintf("%d.bkt", id))
}

// New constructs a Store in the given mode — Create wipes and recreates
// opts.Dir from scratch, Open recovers any shard files already there — and
// starts its background compactor. Callers must call Close when done.
func New(mode Mode, opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("store: Dir is required")
	}
	n := opts.Shards
	if n <= 0 {
		n = DefaultShards
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	switch mode {
	case Create:
		if err := os.RemoveAll(opts.Dir); err != nil {
			return nil, fmt.Errorf("store: wipe %s: %w", opts.Dir, err)
		}
	case Open:
		// fall through to MkdirAll below
	default:
		return nil, fmt.Errorf("store: unknown mode %v", mode)
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", opts.Dir, err)
	}

	shards := make([]*shardlog.Shard, n)
	for i := 0; i < n; i++ {
		path := shardPath(opts.Dir, i)

		existed := false
		if mode == Open {
			if _, err := os.Stat(path); err == nil {
				existed = true
			}
		}

		shard, err := shardlog.Open(i, path, shardlog.Options{
			CacheCapacity: opts.CacheCapacity,
			Metrics:       opts.Metrics,
			Logger:        log,
		})
		if err != nil {
			return nil, fmt.Errorf("store: open shard %d: %w", i, err)
		}

		if existed {
			if err := shard.Recover(); err != nil {
				return nil, fmt.Errorf("store: recover shard %d: %w", i, err)
			}
		}

		shards[i] = shard
	}

	m := shardmap.New(shards)
	c := compactor.New(m, opts.CompactorPeriod, opts.Metrics, log)
	c.Start()

	return &Store{
		shards:    m,
		compactor: c,
		metrics:   opts.Metrics,
		log:       log,
	}, nil
}

// Insert stores value under key, replacing any existing value.
func (s *Store) Insert(key, value []byte) error {
	err := s.shards.Insert(key, value)
	s.metrics.ObserveOp("set", opResult(err))
	return err
}

// Get looks up key, returning ok=false if absent.
func (s *Store) Get(key []byte) (value []byte, ok bool, err error) {
	value, ok, err = s.shards.Get(key)
	s.metrics.ObserveOp("get", opResult(err))
	return value, ok, err
}

// Delete removes key if present, reporting whether it was.
func (s *Store) Delete(key []byte) (removed bool, err error) {
	removed, err = s.shards.Erase(key)
	s.metrics.ObserveOp("del", opResult(err))
	return removed, err
}

// Shards exposes the underlying routing map for callers (e.g. tests)
// that need to inspect individual shard files directly.
func (s *Store) Shards() *shardmap.Map { return s.shards }

// Close stops the compactor and waits for its current pass to finish.
// Shard files require no explicit close: each operation opens and
// closes its own file handle.
func (s *Store) Close() error {
	s.compactor.Stop()
	return nil
}

func opResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
