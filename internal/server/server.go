package server

import (
	"context"
	"net"

	"go.uber.org/zap"
)

// Listen binds addr and serves connections until Shutdown is called:
// accept in a loop, spawn a goroutine per connection, treat a
// post-Shutdown accept error as expected rather than fatal. The
// concurrency bound is enforced inside each connection goroutine via
// sem.Acquire, not by gating Accept itself — a slow session never blocks
// new clients from being accepted, only from being served.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.log.Info("listening", zap.String("addr", s.addr), zap.Int64("workers", s.workers))

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return nil
			default:
			}
			s.log.Warn("accept error", zap.Error(err))
			continue
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	if err := s.sem.Acquire(context.Background(), 1); err != nil {
		conn.Close()
		return
	}
	defer s.sem.Release(1)

	sess := newSession(conn, s.store, s.log)
	sess.run()
}

// Shutdown stops accepting new connections. In-flight sessions run to
// completion or until their client disconnects.
func (s *Server) Shutdown() {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}
}
