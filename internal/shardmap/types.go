// Package shardmap implements the sharded routing layer: hashing a key to
// a shard index and delegating to that shard, with no cross-shard
// coordination. Grounded on internal/storage/cache/shard.go's getShard
// (FNV-1a mod shard count), generalized from a fixed 64-shard array to a
// caller-chosen N.
package shardmap

import "bktkv/internal/shardlog"

// Map routes keys to a fixed array of shards by hash. N is chosen at
// construction and never changes for the lifetime of the Map.
type Map struct {
	shards []*shardlog.Shard
}
