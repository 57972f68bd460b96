package server

import (
	"bufio"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bktkv/internal/store"
)

func newTestServer(t *testing.T) (addr string, shutdown func()) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	st, err := store.New(store.Create, store.Options{
		Dir:             dir,
		Shards:          4,
		CacheCapacity:   8,
		CompactorPeriod: time.Hour,
	})
	require.NoError(t, err)

	srv := New("127.0.0.1:0", st, Options{Workers: 2})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv.listener = ln

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.serve(conn)
		}
	}()

	return ln.Addr().String(), func() {
		srv.Shutdown()
		st.Close()
	}
}

func dial(t *testing.T, addr string) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewReader(conn)
}

func sendAndRecv(t *testing.T, conn net.Conn, r *bufio.Reader, frame string, expectBytes int) string {
	t.Helper()
	_, err := conn.Write([]byte(frame))
	require.NoError(t, err)
	buf := make([]byte, expectBytes)
	n := 0
	for n < expectBytes {
		m, err := r.Read(buf[n:])
		require.NoError(t, err)
		n += m
	}
	return string(buf[:n])
}

func TestScenarioSetGetHitMissDel(t *testing.T) {
	addr, shutdown := newTestServer(t)
	defer shutdown()
	conn, r := dial(t, addr)

	got := sendAndRecv(t, conn, r, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n", len("+OK\r\n"))
	require.Equal(t, "+OK\r\n", got)

	got = sendAndRecv(t, conn, r, "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n", len("$3\r\nbar\r\n"))
	require.Equal(t, "$3\r\nbar\r\n", got)

	got = sendAndRecv(t, conn, r, "*2\r\n$3\r\nGET\r\n$3\r\nabc\r\n", len("$-1\r\n"))
	require.Equal(t, "$-1\r\n", got)

	got = sendAndRecv(t, conn, r, "*2\r\n$3\r\nDEL\r\n$3\r\nfoo\r\n", len(":1\r\n"))
	require.Equal(t, ":1\r\n", got)

	got = sendAndRecv(t, conn, r, "*2\r\n$3\r\nDEL\r\n$3\r\nfoo\r\n", len(":0\r\n"))
	require.Equal(t, ":0\r\n", got)
}

func TestScenarioUnknownCommandRepliesFixedError(t *testing.T) {
	addr, shutdown := newTestServer(t)
	defer shutdown()
	conn, r := dial(t, addr)

	want := "-ERR unknown command or wrong number of arguments\r\n"
	got := sendAndRecv(t, conn, r, "*1\r\n$4\r\nPING\r\n", len(want))
	require.Equal(t, want, got)
}

func TestScenarioEmptyArrayRepliesEmptyCommandError(t *testing.T) {
	addr, shutdown := newTestServer(t)
	defer shutdown()
	conn, r := dial(t, addr)

	want := "-ERR empty command\r\n"
	got := sendAndRecv(t, conn, r, "*0\r\n", len(want))
	require.Equal(t, want, got)
}

func TestScenarioWrongAritySet(t *testing.T) {
	addr, shutdown := newTestServer(t)
	defer shutdown()
	conn, r := dial(t, addr)

	want := "-ERR unknown command or wrong number of arguments\r\n"
	got := sendAndRecv(t, conn, r, "*2\r\n$3\r\nSET\r\n$3\r\nfoo\r\n", len(want))
	require.Equal(t, want, got)
}

func TestSessionSurvivesMultipleCommandsInOrder(t *testing.T) {
	addr, shutdown := newTestServer(t)
	defer shutdown()
	conn, r := dial(t, addr)

	for i := 0; i < 5; i++ {
		got := sendAndRecv(t, conn, r, "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n", len("+OK\r\n"))
		require.Equal(t, "+OK\r\n", got)
	}
}

func TestBinaryValueWithCRLFRoundTrips(t *testing.T) {
	addr, shutdown := newTestServer(t)
	defer shutdown()
	conn, r := dial(t, addr)

	value := "with\r\nnewlines"

	frame := "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$" + strconv.Itoa(len(value)) + "\r\n" + value + "\r\n"
	got := sendAndRecv(t, conn, r, frame, len("+OK\r\n"))
	require.Equal(t, "+OK\r\n", got)

	want := "$" + strconv.Itoa(len(value)) + "\r\n" + value + "\r\n"
	got = sendAndRecv(t, conn, r, "*2\r\n$3\r\nGET\r\n$1\r\nk\r\n", len(want))
	require.Equal(t, want, got)
}
