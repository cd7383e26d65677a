package resp

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/jackc/puddle/v2"
)

// connGate caps the number of simultaneous connections to one server.
//
// It is built on a puddle pool whose resources are never released back: every
// acquired connection is destroyed after its single command, so a slot only
// ever bounds concurrency and no connection is reused.
type connGate struct {
	pool           *puddle.Pool[net.Conn]
	createdConns   atomic.Int64
	destroyedConns atomic.Int64
}

func newConnGate(dial func(ctx context.Context) (net.Conn, error), maxConns int32) (*connGate, error) {
	g := &connGate{}

	pool, err := puddle.NewPool(&puddle.Config[net.Conn]{
		Constructor: func(ctx context.Context) (net.Conn, error) {
			conn, err := dial(ctx)
			if err == nil {
				g.createdConns.Add(1)
			}
			return conn, err
		},
		Destructor: func(conn net.Conn) {
			g.destroyedConns.Add(1)
			_ = conn.Close()
		},
		MaxSize: maxConns,
	})
	if err != nil {
		return nil, err
	}

	g.pool = pool
	return g, nil
}

// acquire waits for a free slot and dials. The returned release func must be
// called exactly once; it closes the connection and frees the slot.
func (g *connGate) acquire(ctx context.Context) (net.Conn, func(), error) {
	res, err := g.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res.Value(), res.Destroy, nil
}

func (g *connGate) close() {
	g.pool.Close()
}

// GateStats is a snapshot of one server's connection cap.
type GateStats struct {
	MaxConns       int32 // Configured cap
	ActiveConns    int32 // Connections currently carrying a command
	AcquireCount   int64 // Successful acquires
	CanceledCount  int64 // Acquires abandoned because the context ended
	CreatedConns   int64 // Connections dialed
	DestroyedConns int64 // Connections closed
}

func (g *connGate) stats() GateStats {
	s := g.pool.Stat()
	return GateStats{
		MaxConns:       s.MaxResources(),
		ActiveConns:    s.AcquiredResources(),
		AcquireCount:   s.AcquireCount(),
		CanceledCount:  s.CanceledAcquireCount(),
		CreatedConns:   g.createdConns.Load(),
		DestroyedConns: g.destroyedConns.Load(),
	}
}
