// Command bktkv runs a disk-persistent key-value store: a fixed number
// of shard logs behind bounded LRU caches, a background compactor, and a
// RESP-2 TCP frontend. Grounded on cmd/imcs/main.go's construction
// sequence (open persistence -> restore -> start background worker ->
// serve -> graceful shutdown on SIGINT/SIGTERM).
package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bktkv/internal/metrics"
	"bktkv/internal/server"
	"bktkv/internal/store"
)

func main() {
	dir := flag.String("dir", "./data", "Directory for shard log files")
	mode := flag.String("mode", "open", "Initialization mode: create (wipe dir) or open (preserve & recover)")
	shards := flag.Int("shards", store.DefaultShards, "Number of shards (N)")
	cacheCapacity := flag.Int("cache-capacity", 64, "Per-shard LRU capacity (K)")
	compactPeriod := flag.Duration("compact-period", 30*time.Second, "Sleep between compaction passes (T)")
	workers := flag.Int("workers", server.DefaultWorkers, "Accept-loop worker slots (P)")
	addr := flag.String("addr", ":6379", "TCP listen address")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (empty disables)")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var storeMode store.Mode
	switch *mode {
	case "create":
		storeMode = store.Create
	case "open":
		storeMode = store.Open
	default:
		log.Fatal("invalid -mode", zap.String("mode", *mode))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", *metricsAddr))
	}

	st, err := store.New(storeMode, store.Options{
		Dir:             *dir,
		Shards:          *shards,
		CacheCapacity:   *cacheCapacity,
		CompactorPeriod: *compactPeriod,
		Metrics:         m,
		Logger:          log,
	})
	if err != nil {
		log.Fatal("cannot open store", zap.Error(err))
	}

	srv := server.New(*addr, st, server.Options{Workers: *workers, Logger: log})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("shutting down")
		srv.Shutdown()
		st.Close()
		log.Info("bye")
		os.Exit(0)
	}()

	log.Info("starting bktkv",
		zap.String("dir", *dir),
		zap.String("mode", *mode),
		zap.Int("shards", *shards),
		zap.Int("cache_capacity", *cacheCapacity),
		zap.Duration("compact_period", *compactPeriod),
		zap.Int("workers", *workers),
		zap.String("addr", *addr),
	)

	if err := srv.Listen(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
