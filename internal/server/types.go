// Package server implements the RESP-2 wire frontend: an incremental
// parser/session state machine and a TCP accept loop bounded to a fixed
// number of concurrent sessions, carrying over the readRESPCommand
// parsing shape, the resp*() reply builders, and a handleConnection-style
// per-connection loop, generalized from a multi-command Redis-alike with
// AUTH down to the exact {SET,GET,DEL} dispatch table and
// RESP-2-array-only framing this store requires — no inline commands, no
// AUTH.
package server

import (
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"bktkv/internal/store"
)

// Server is the TCP frontend: one listener, one accept loop bounded to
// P concurrently running sessions, one shared Store.
type Server struct {
	addr    string
	store   *store.Store
	workers int64
	log     *zap.Logger

	sem      *semaphore.Weighted
	listener net.Listener
	stopCh   chan struct{}
}

// Options configures a Server's tunables.
type Options struct {
	// Workers is the number of sessions allowed to run concurrently.
	// Defaults to DefaultWorkers.
	Workers int
	Logger  *zap.Logger
}

// session holds the per-connection parser state machine plus the
// connection's correlation id for logging.
type session struct {
	id      uuid.UUID
	conn    net.Conn
	store   *store.Store
	log     *zap.Logger
	scanner *frameScanner
}
