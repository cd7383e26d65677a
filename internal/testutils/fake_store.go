package testutils

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pior/resp/wire"
)

// ReplyFunc returns the raw bytes the fake store writes back for a command.
// Raw bytes let tests script malformed and oversized replies.
type ReplyFunc func(cmd []string) string

// FakeStore is a TCP server that reads commands in wire format and answers
// each one with a scripted reply.
type FakeStore struct {
	listener net.Listener
	reply    ReplyFunc

	mu       sync.Mutex
	commands [][]string

	accepted atomic.Int64
	wg       sync.WaitGroup
}

// NewFakeStore starts a fake store on a random local port. It is stopped when
// the test ends.
func NewFakeStore(t testing.TB, reply ReplyFunc) *FakeStore {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start fake store: %v", err)
	}

	s := &FakeStore{
		listener: listener,
		reply:    reply,
	}

	s.wg.Add(1)
	go s.serve()

	t.Cleanup(s.Close)
	return s
}

// StaticReply answers every command with the same raw bytes.
func StaticReply(raw string) ReplyFunc {
	return func([]string) string { return raw }
}

// Addr returns the host:port the store listens on.
func (s *FakeStore) Addr() string {
	return s.listener.Addr().String()
}

// Commands returns the commands received so far, in arrival order.
func (s *FakeStore) Commands() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.commands...)
}

// Accepted returns the number of connections accepted so far.
func (s *FakeStore) Accepted() int {
	return int(s.accepted.Load())
}

// Close stops the listener and waits for open connections to finish.
func (s *FakeStore) Close() {
	_ = s.listener.Close()
	s.wg.Wait()
}

func (s *FakeStore) serve() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.accepted.Add(1)

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *FakeStore) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	d := wire.NewDecoder(conn)
	for {
		v, err := d.Next()
		if err != nil {
			return
		}

		cmd := make([]string, 0, v.Len())
		for _, elem := range v.Elems() {
			cmd = append(cmd, elem.Text())
		}

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		if _, err := conn.Write([]byte(s.reply(cmd))); err != nil {
			return
		}
	}
}
