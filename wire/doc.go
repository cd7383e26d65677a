// Package wire implements the line-oriented request/reply serialization format
// spoken by the key-value backing store (a subset of RESP).
//
// The package is pure: it transforms byte buffers into values and back and
// performs no network I/O. The client in the parent package builds on it.
//
// # Values
//
// Value is a closed tagged union with six kinds:
//
//	Kind          Wire format                   Constructor
//	KindStatus    +<text>\r\n                  Status(text)
//	KindFailure   -<text>\r\n                  Failure(text)
//	KindInteger   :<n>\r\n                     Integer(n)
//	KindBulk      $<len>\r\n<payload>\r\n      Bulk(text), NullBulk()
//	KindSequence  *<count>\r\n<value>*         Sequence(values...)
//	KindNil       _\r\n                        Nil()
//
// Values are immutable. The length sentinel -1 ($-1\r\n, *-1\r\n) always
// decodes as Nil: NullBulk is only built by callers, so NullBulk and Nil stay
// distinct variants.
//
// # Decoding
//
// Decode inspects a buffer and reports one of three outcomes:
//
//	v, n, err := wire.Decode(buf)
//	switch {
//	case err == nil:
//	    // complete: v occupies buf[:n]
//	case errors.Is(err, wire.ErrIncomplete):
//	    // read more bytes, append them to buf, decode again from buf[0]
//	default:
//	    // malformed (*wire.ParseError): abandon the connection
//	}
//
// Incomplete never consumes anything, at any nesting level, so retrying from
// the same offset is always correct. Decoder wraps this loop around an
// io.Reader.
//
// # Encoding
//
// Encode, AppendValue and WriteValue produce the wire form of a value and
// cannot fail. Requests are sequences of bulk strings:
//
//	req := wire.Command("SET", "Session-abc", "10.0.0.5", "EX", "3600")
//	err := wire.WriteValue(conn, req)
package wire
