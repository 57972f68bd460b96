package shardlog

import (
	"fmt"
	"io"
	"os"

	"bktkv/internal/record"
)

// Compact rewrites the shard file to contain only its live records, in
// their original order, then truncates it. It holds the writer lock for
// the duration, which is what makes the in-place
// rewrite safe: write_pos never runs ahead of read_pos, so a live record
// is always fully read into memory before its slot might be overwritten
// by an earlier one shifting down.
func (s *Shard) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("shardlog: open shard %d for compact: %w", s.id, err)
	}
	defer f.Close()

	var readPos, writePos int64

	for {
		if _, err := f.Seek(readPos, io.SeekStart); err != nil {
			return fmt.Errorf("shardlog: seek shard %d during compact: %w", s.id, err)
		}
		hdr, err := record.ReadHeaderAt(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("shardlog: read header in shard %d during compact: %w", s.id, err)
		}

		footprint := hdr.Footprint()

		if hdr.Deleted {
			readPos += footprint
			continue
		}

		body := make([]byte, hdr.KeyLen+hdr.ValueLen)
		if _, err := io.ReadFull(f, body); err != nil {
			return fmt.Errorf("shardlog: read body in shard %d during compact: %w", s.id, err)
		}

		if writePos != readPos {
			if _, err := f.Seek(writePos, io.SeekStart); err != nil {
				return fmt.Errorf("shardlog: seek shard %d to write_pos during compact: %w", s.id, err)
			}
			buf := make([]byte, 0, footprint)
			buf = append(buf, record.EncodeHeader(hdr)...)
			buf = append(buf, body...)
			if _, err := f.Write(buf); err != nil {
				return fmt.Errorf("shardlog: rewrite record in shard %d during compact: %w", s.id, err)
			}
		}

		readPos += footprint
		writePos += footprint
	}

	if err := f.Truncate(writePos); err != nil {
		return fmt.Errorf("shardlog: truncate shard %d after compact: %w", s.id, err)
	}

	if s.metrics != nil {
		s.metrics.SetShardBytes(fmt.Sprintf("%d", s.id), writePos)
	}
	return nil
}
