package compactor

import (
	"time"

	"go.uber.org/zap"
)

// Start launches the background worker, modeled on Janitor.Start/run: a
// single goroutine driven by a ticker and a stop channel, generalized
// here to one ticker walking one job instead of three tickers each
// driving a different cache concern.
func (c *Compactor) Start() {
	go c.run()
}

// Stop signals the worker to exit and blocks until it has. Calling Stop
// again after it has returned is a no-op.
func (c *Compactor) Stop() {
	select {
	case <-c.stopCh:
	default:
		close(c.stopCh)
	}
	<-c.doneCh
}

func (c *Compactor) run() {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.compactPass()
		case <-c.stopCh:
			return
		}
	}
}

// compactPass walks every shard, in the map's fixed order, compacting
// each in turn. A shard's I/O failure is logged and counted but never
// aborts the pass — a jammed shard must not starve its neighbors.
func (c *Compactor) compactPass() {
	for _, shard := range c.shards.Shards() {
		if err := shard.Compact(); err != nil {
			c.log.Warn("compaction failed",
				zap.Int("shard", shard.ID()),
				zap.String("path", shard.Path()),
				zap.Error(err),
			)
			c.metrics.ObserveCompactionError()
			continue
		}
		c.metrics.ObserveCompaction()
	}
}
