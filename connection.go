package resp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/pior/resp/wire"
)

// ReadWindow is the largest reply the client accepts. Each command is answered
// by exactly one read of at most ReadWindow bytes; larger replies fail with
// ErrOversizedReply instead of being read in several parts.
const ReadWindow = 128

// connection is a single-use connection to the store.
//
// It carries exactly one command: one write, one read. It is never returned
// to a pool, and release must run on every exit path (use defer).
type connection struct {
	addr    string
	conn    net.Conn
	release func()
	closed  bool
}

func newConnection(addr string, conn net.Conn, release func()) *connection {
	return &connection{
		addr:    addr,
		conn:    conn,
		release: release,
	}
}

// Close releases the connection. Calling it more than once is a no-op.
func (c *connection) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.release()
}

// roundTrip writes req and decodes the reply from a single bounded read.
//
// The returned trailing count is the number of bytes read after the reply
// value. Nothing was asked for them; the caller decides how to report them.
func (c *connection) roundTrip(ctx context.Context, req wire.Value) (wire.Value, int, error) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	} else {
		c.conn.SetDeadline(time.Time{})
	}

	if err := wire.WriteValue(c.conn, req); err != nil {
		return wire.Value{}, 0, &ConnectionError{Op: "write", Addr: c.addr, Err: err}
	}

	// One spare byte tells a reply of exactly ReadWindow bytes from a larger one.
	var window [ReadWindow + 1]byte

	n, err := c.conn.Read(window[:])
	if n == 0 {
		if err == nil {
			err = errors.New("empty read")
		}
		return wire.Value{}, 0, &ConnectionError{Op: "read", Addr: c.addr, Err: err}
	}
	if n > ReadWindow {
		return wire.Value{}, 0, ErrOversizedReply
	}

	v, used, err := wire.Decode(window[:n])
	if errors.Is(err, wire.ErrIncomplete) {
		return wire.Value{}, 0, ErrIncompleteReply
	}
	if err != nil {
		return wire.Value{}, 0, err
	}

	return v, n - used, nil
}
