package compactor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"bktkv/internal/metrics"
	"bktkv/internal/shardlog"
	"bktkv/internal/shardmap"
)

func newTestShards(t *testing.T, n int) *shardmap.Map {
	t.Helper()
	dir := t.TempDir()
	shards := make([]*shardlog.Shard, n)
	for i := 0; i < n; i++ {
		s, err := shardlog.Open(i, filepath.Join(dir, fmt.Sprintf("%d.bkt", i)), shardlog.Options{})
		require.NoError(t, err)
		shards[i] = s
	}
	return shardmap.New(shards)
}

func TestStartCompactsOnEachTick(t *testing.T) {
	m := newTestShards(t, 4)
	shard := m.Shards()[0]
	require.NoError(t, shard.Insert([]byte("k"), []byte("v1")))
	require.NoError(t, shard.Insert([]byte("k"), []byte("v2")))

	info, err := os.Stat(shard.Path())
	require.NoError(t, err)
	sizeBeforeCompaction := info.Size()

	mx := metrics.New(prometheus.NewRegistry())
	c := New(m, 10*time.Millisecond, mx, nil)
	c.Start()
	defer c.Stop()

	require.Eventually(t, func() bool {
		info, err := os.Stat(shard.Path())
		if err != nil {
			return false
		}
		return info.Size() < sizeBeforeCompaction
	}, time.Second, 5*time.Millisecond)
}

func TestStopIsIdempotentAcrossJoin(t *testing.T) {
	m := newTestShards(t, 1)
	c := New(m, time.Hour, nil, nil)
	c.Start()
	c.Stop()
	c.Stop()
}

func TestCompactPassSkipsOverUnaffectedShardsAfterFailure(t *testing.T) {
	m := newTestShards(t, 3)
	for i, shard := range m.Shards() {
		key := []byte(fmt.Sprintf("k%d", i))
		require.NoError(t, shard.Insert(key, []byte("v")))
	}

	// Remove the backing file for the middle shard to force Compact to
	// fail on it; the pass must still finish the remaining shards.
	require.NoError(t, os.Remove(m.Shards()[1].Path()))

	mx := metrics.New(prometheus.NewRegistry())
	c := New(m, time.Hour, mx, nil)
	c.compactPass()

	for i, shard := range m.Shards() {
		if i == 1 {
			continue
		}
		_, found, err := shard.Get([]byte(fmt.Sprintf("k%d", i)))
		require.NoError(t, err)
		require.True(t, found)
	}
}
