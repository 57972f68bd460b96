package shardlog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"bktkv/internal/record"
)

// Insert writes value for key, tombstoning any earlier live record for the
// same key first. After Insert returns, Get(key) yields value until a
// later Insert or Erase of the same key.
func (s *Shard) Insert(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Put(string(key), value)

	f, err := os.OpenFile(s.path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("shardlog: open shard %d for insert: %w", s.id, err)
	}
	defer f.Close()

	if err := tombstoneExisting(f, key); err != nil {
		return fmt.Errorf("shardlog: scan shard %d for insert: %w", s.id, err)
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("shardlog: seek shard %d to end: %w", s.id, err)
	}
	if _, err := f.Write(record.Encode(key, value, false)); err != nil {
		return fmt.Errorf("shardlog: append to shard %d: %w", s.id, err)
	}
	return nil
}

// tombstoneExisting scans f from the start, marking any non-tombstoned
// record whose key matches key as deleted, and keeps scanning to the end
// rather than stopping at the first match — there should only ever be one
// live record for a given key, but if a bug or a corrupted double-write
// ever produced two, this guarantees both get tombstoned instead of
// leaving a stale live record behind.
func tombstoneExisting(f *os.File, key []byte) error {
	var offset int64

	for {
		hdr, err := record.ReadHeaderAt(f)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		recordStart := offset
		offset += record.HeaderSize

		if hdr.Deleted || hdr.KeyLen != int32(len(key)) {
			skip := int64(hdr.KeyLen) + int64(hdr.ValueLen)
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return err
			}
			offset += skip
			continue
		}

		keyBuf := make([]byte, hdr.KeyLen)
		if _, err := io.ReadFull(f, keyBuf); err != nil {
			return err
		}
		offset += int64(hdr.KeyLen)

		if bytes.Equal(keyBuf, key) {
			if _, err := f.Seek(recordStart+8, io.SeekStart); err != nil {
				return err
			}
			if _, err := f.Write([]byte{1}); err != nil {
				return err
			}
		}

		next := offset + int64(hdr.ValueLen)
		if _, err := f.Seek(next, io.SeekStart); err != nil {
			return err
		}
		offset = next
	}
}
