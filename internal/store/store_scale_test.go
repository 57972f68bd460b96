package store

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
	"time"
)

// TestLargeKeySetRoundTrips inserts 250,000 random 10-byte keys mapping
// to 20-byte values, then reads each one back and expects the inserted
// value. Grounded on internal/storage/stress_test.go's TestStress50K
// (large-N key space, deterministic per-key RNG, a throughput summary at
// the end), simplified from a concurrent mixed-workload stress test to a
// deterministic insert-then-verify shape.
func TestLargeKeySetRoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 250k-key round trip in -short mode")
	}

	const (
		keyCount = 250_000
		keyLen   = 10
		valueLen = 20
	)

	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(Create, Options{
		Dir:             dir,
		Shards:          DefaultShards,
		CacheCapacity:   64,
		CompactorPeriod: time.Hour,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	rng := rand.New(rand.NewSource(1))
	keys := make([][]byte, keyCount)
	values := make([][]byte, keyCount)

	start := time.Now()
	for i := 0; i < keyCount; i++ {
		key := randomBytes(rng, keyLen)
		value := randomBytes(rng, valueLen)
		keys[i] = key
		values[i] = value
		if err := s.Insert(key, value); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	insertElapsed := time.Since(start)

	start = time.Now()
	for i := 0; i < keyCount; i++ {
		got, found, err := s.Get(keys[i])
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if !found {
			t.Fatalf("Get(%d): key %x not found after insert", i, keys[i])
		}
		if string(got) != string(values[i]) {
			t.Fatalf("Get(%d): got %x, want %x", i, got, values[i])
		}
	}
	readElapsed := time.Since(start)

	fmt.Printf("250k round trip: insert %v (%d ops/sec), read %v (%d ops/sec)\n",
		insertElapsed.Round(time.Millisecond), opsPerSec(keyCount, insertElapsed),
		readElapsed.Round(time.Millisecond), opsPerSec(keyCount, readElapsed))
}

func randomBytes(rng *rand.Rand, n int) []byte {
	buf := make([]byte, n)
	rng.Read(buf)
	return buf
}

func opsPerSec(n int, d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(float64(n) / d.Seconds())
}
