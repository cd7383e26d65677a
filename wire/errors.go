package wire

import "errors"

// ErrIncomplete is returned by Decode when the buffer does not yet hold a
// complete value. It is not a failure: nothing was consumed, and the caller may
// append more bytes and decode again from the same offset.
var ErrIncomplete = errors.New("wire: incomplete value")

// ErrMalformed matches every ParseError with errors.Is.
var ErrMalformed = errors.New("wire: malformed value")

// ParseError reports bytes that can never decode into a value, whatever
// follows them. The stream position is lost and the connection must be closed.
//
// Common causes:
//   - Unknown discriminator byte
//   - Length, count or integer that is not a base-10 number
//   - Negative length other than -1
//   - Text that is not valid UTF-8
//   - Status, failure or integer line containing a bare LF
type ParseError struct {
	Message string
	Offset  int   // Offset in the buffer where the problem was found
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "wire: parse error: " + e.Message + ": " + e.Err.Error()
	}
	return "wire: parse error: " + e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformed) true for every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

// ShouldCloseConnection returns true - the stream position is unknown
func (e *ParseError) ShouldCloseConnection() bool {
	return true
}

// ErrorWithConnectionState is implemented by errors that know whether the
// connection they occurred on can still be used.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err leaves the connection unusable.
// nil and ErrIncomplete keep the connection; unknown errors close it.
func ShouldCloseConnection(err error) bool {
	if err == nil || errors.Is(err, ErrIncomplete) {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}
