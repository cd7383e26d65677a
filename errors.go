package resp

import (
	"errors"
	"fmt"

	"github.com/pior/resp/wire"
)

var (
	// ErrOversizedReply is returned when the store sends more than ReadWindow
	// bytes in reply to a single command. The store is reachable but
	// misbehaving or overloaded; the reply is never decoded partially.
	ErrOversizedReply = errors.New("resp: oversized reply")

	// ErrIncompleteReply is returned when the single read did not contain a
	// whole value. The client never reads twice.
	ErrIncompleteReply = errors.New("resp: incomplete reply")

	// ErrClientClosed is returned by calls made after Close.
	ErrClientClosed = errors.New("resp: client closed")

	// ErrInvalidTTL is returned by WriteSession for a ttl under one second.
	ErrInvalidTTL = errors.New("resp: session ttl must be at least one second")
)

// ConnectionError wraps I/O errors from connecting to the store, writing a
// command or reading its reply. It means the store could not be reached or
// dropped the connection.
//
// The connection it occurred on has already been closed.
type ConnectionError struct {
	Op   string // Operation that failed: dial, write, read
	Addr string // Store address
	Err  error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("resp: connection error during %s to %s: %v", e.Op, e.Addr, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// IsTransportError reports whether err comes from the network rather than
// from the content of a reply.
func IsTransportError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsMalformedReply reports whether err comes from a reply that is not valid
// wire format.
func IsMalformedReply(err error) bool {
	return errors.Is(err, wire.ErrMalformed)
}
