package shardlog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"bktkv/internal/record"
)

// Erase tombstones the live record for key, if one exists, and returns
// whether it found one.
func (s *Shard) Erase(key []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(string(key))

	f, err := os.OpenFile(s.path, os.O_RDWR, 0644)
	if err != nil {
		return false, fmt.Errorf("shardlog: open shard %d for erase: %w", s.id, err)
	}
	defer f.Close()

	var offset int64
	for {
		hdr, err := record.ReadHeaderAt(f)
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("shardlog: scan shard %d for erase: %w", s.id, err)
		}
		recordStart := offset
		offset += record.HeaderSize

		if hdr.Deleted || hdr.KeyLen != int32(len(key)) {
			skip := int64(hdr.KeyLen) + int64(hdr.ValueLen)
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return false, err
			}
			offset += skip
			continue
		}

		keyBuf := make([]byte, hdr.KeyLen)
		if _, err := io.ReadFull(f, keyBuf); err != nil {
			return false, err
		}
		offset += int64(hdr.KeyLen)

		if !bytes.Equal(keyBuf, key) {
			if _, err := f.Seek(int64(hdr.ValueLen), io.SeekCurrent); err != nil {
				return false, err
			}
			offset += int64(hdr.ValueLen)
			continue
		}

		if _, err := f.Seek(recordStart+8, io.SeekStart); err != nil {
			return false, err
		}
		if _, err := f.Write([]byte{1}); err != nil {
			return false, err
		}
		return true, nil
	}
}
