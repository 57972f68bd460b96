package shardlog

import (
	"fmt"
	"io"
	"os"

	"bktkv/internal/record"
)

// Recover scans the shard file from the start and truncates at the first
// record whose header fails to parse or whose footprint runs past the end
// of the file — the shape a crash mid-write leaves behind, since only the
// last record can ever be partial. After it returns, the file is a clean
// prefix-concatenation of records with no partial trailing record. It
// never touches the cache — recovery only establishes on-disk
// well-formedness.
func (s *Shard) Recover() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("shardlog: open shard %d for recovery: %w", s.id, err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("shardlog: stat shard %d for recovery: %w", s.id, err)
	}

	var offset int64
	for offset < size {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("shardlog: seek shard %d during recovery: %w", s.id, err)
		}

		if offset+record.HeaderSize > size {
			break
		}
		hdr, err := record.ReadHeaderAt(f)
		if err != nil {
			break
		}

		footprint := hdr.Footprint()
		if offset+footprint > size {
			break
		}

		offset += footprint
	}

	if offset == size {
		return nil
	}
	if err := f.Truncate(offset); err != nil {
		return fmt.Errorf("shardlog: truncate shard %d during recovery: %w", s.id, err)
	}
	return nil
}
