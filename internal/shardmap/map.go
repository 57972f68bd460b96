package shardmap

import (
	"hash/fnv"

	"bktkv/internal/shardlog"
)

// New wraps shards, indexed 0..N-1, into a routing Map. The caller owns
// opening and (if applicable) recovering each shard first.
func New(shards []*shardlog.Shard) *Map {
	return &Map{shards: shards}
}

// Len returns N, the shard count.
func (m *Map) Len() int { return len(m.shards) }

// Shards returns the underlying shard array, in fixed order — used by the
// compactor to walk shards in a stable sequence.
func (m *Map) Shards() []*shardlog.Shard { return m.shards }

// shardFor computes hash(key) mod N with FNV-1a, matching getShard's
// approach in the sharded cache this package is modeled on. Any stable
// string hash would route consistently; callers must not depend on the
// specific function, only on its stability within one process.
func (m *Map) shardFor(key []byte) *shardlog.Shard {
	h := fnv.New32a()
	h.Write(key)
	idx := h.Sum32() % uint32(len(m.shards))
	return m.shards[idx]
}

// Insert routes key to its shard and inserts value.
func (m *Map) Insert(key, value []byte) error {
	return m.shardFor(key).Insert(key, value)
}

// Get routes key to its shard and looks up value.
func (m *Map) Get(key []byte) ([]byte, bool, error) {
	return m.shardFor(key).Get(key)
}

// Erase routes key to its shard and tombstones its live record, if any.
func (m *Map) Erase(key []byte) (bool, error) {
	return m.shardFor(key).Erase(key)
}
