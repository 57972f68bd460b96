package shardlog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"bktkv/internal/record"
)

// Get returns the current live value for key, or (nil, false) if none
// exists. A cache hit short-circuits the file scan entirely; a cache miss
// that finds a live record on disk repopulates the cache before
// returning, even though Get only holds the shard's shared (reader) lock —
// the cache has its own internal lock, so this is safe, and it never
// mutates the on-disk state the shard-level lock protects.
func (s *Shard) Get(key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if value, ok := s.cache.Get(string(key)); ok {
		s.metrics.ObserveCacheHit()
		return value, true, nil
	}
	s.metrics.ObserveCacheMiss()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("shardlog: open shard %d for get: %w", s.id, err)
	}
	defer f.Close()

	for {
		hdr, err := record.ReadHeaderAt(f)
		if err == io.EOF {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("shardlog: scan shard %d for get: %w", s.id, err)
		}

		if hdr.Deleted || hdr.KeyLen != int32(len(key)) {
			skip := int64(hdr.KeyLen) + int64(hdr.ValueLen)
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return nil, false, err
			}
			continue
		}

		keyBuf := make([]byte, hdr.KeyLen)
		if _, err := io.ReadFull(f, keyBuf); err != nil {
			return nil, false, err
		}

		if !bytes.Equal(keyBuf, key) {
			if _, err := f.Seek(int64(hdr.ValueLen), io.SeekCurrent); err != nil {
				return nil, false, err
			}
			continue
		}

		valueBuf := make([]byte, hdr.ValueLen)
		if _, err := io.ReadFull(f, valueBuf); err != nil {
			return nil, false, err
		}

		s.cache.Put(string(key), valueBuf)
		return valueBuf, true, nil
	}
}
