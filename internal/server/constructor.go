package server

import (
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"bktkv/internal/store"
)

// DefaultWorkers is the maximum number of sessions served concurrently
// when Options.Workers is unset.
const DefaultWorkers = 4

// New builds a Server listening at addr over st.
func New(addr string, st *store.Store, opts Options) *Server {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		addr:    addr,
		store:   st,
		workers: int64(workers),
		log:     log,
		sem:     semaphore.NewWeighted(int64(workers)),
		stopCh:  make(chan struct{}),
	}
}
