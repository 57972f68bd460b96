package server

import (
	"bufio"
	"bytes"
	"errors"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bktkv/internal/store"
)

func newSession(conn net.Conn, st *store.Store, log *zap.Logger) *session {
	return &session{
		id:      uuid.New(),
		conn:    conn,
		store:   st,
		log:     log,
		scanner: newFrameScanner(bufio.NewReaderSize(conn, 64*1024)),
	}
}

// run drives one connection to completion: reads commands until the
// client disconnects or a framing error occurs, dispatches each to the
// store, and writes exactly one reply per command in request order. A
// write failure is logged and ends the session; other sessions are
// unaffected.
func (sess *session) run() {
	defer sess.conn.Close()

	writer := bufio.NewWriterSize(sess.conn, 4*1024)

	for {
		parts, err := sess.scanner.readCommand()
		if err != nil {
			if errors.Is(err, errEmptyCommand) {
				if !sess.reply(writer, errEmptyCommandReply) {
					return
				}
				continue
			}
			return
		}

		reply := sess.dispatch(parts)
		if !sess.reply(writer, reply) {
			return
		}
	}
}

func (sess *session) reply(w *bufio.Writer, msg []byte) bool {
	if _, err := w.Write(msg); err != nil {
		sess.log.Debug("write failed, closing session", zap.String("session", sess.id.String()), zap.Error(err))
		return false
	}
	if err := w.Flush(); err != nil {
		sess.log.Debug("flush failed, closing session", zap.String("session", sess.id.String()), zap.Error(err))
		return false
	}
	return true
}

// dispatch implements the full command table: exactly SET (arity 3), GET
// (arity 2), DEL (arity 2); everything else replies with the fixed
// unknown-command-or-arity error.
func (sess *session) dispatch(parts [][]byte) []byte {
	cmd := bytes.ToUpper(parts[0])

	switch {
	case bytes.Equal(cmd, []byte("SET")) && len(parts) == 3:
		if err := sess.store.Insert(parts[1], parts[2]); err != nil {
			sess.log.Warn("store operation failed", zap.String("session", sess.id.String()), zap.String("op", "set"), zap.Error(err))
			return respErrorMsg("ERR " + err.Error())
		}
		return respOK()

	case bytes.Equal(cmd, []byte("GET")) && len(parts) == 2:
		value, found, err := sess.store.Get(parts[1])
		if err != nil {
			sess.log.Warn("store operation failed", zap.String("session", sess.id.String()), zap.String("op", "get"), zap.Error(err))
			return respErrorMsg("ERR " + err.Error())
		}
		if !found {
			return respNilBulk()
		}
		return respBulk(value)

	case bytes.Equal(cmd, []byte("DEL")) && len(parts) == 2:
		removed, err := sess.store.Delete(parts[1])
		if err != nil {
			sess.log.Warn("store operation failed", zap.String("session", sess.id.String()), zap.String("op", "del"), zap.Error(err))
			return respErrorMsg("ERR " + err.Error())
		}
		if removed {
			return respInt(1)
		}
		return respInt(0)

	default:
		return errUnknownOrArity
	}
}
