package wire

// Kind identifies which variant a Value holds.
type Kind uint8

// Value kinds. The zero Kind is KindNil so the zero Value is the Nil sentinel.
const (
	// KindNil is the explicit "no value" sentinel.
	//
	// Wire format: _\r\n
	// Decoded from: _\r\n, $-1\r\n and *-1\r\n
	KindNil Kind = iota

	// KindStatus is a one-line status or acknowledgement.
	//
	// Wire format: +<text>\r\n
	KindStatus

	// KindFailure is a one-line error message sent by the store.
	//
	// Wire format: -<text>\r\n
	KindFailure

	// KindInteger is a signed 64-bit numeric reply.
	//
	// Wire format: :<signed-decimal>\r\n
	KindInteger

	// KindBulk is a length-prefixed string. A bulk value may be absent
	// (see NullBulk), which is only ever built by callers: the decoder
	// maps the -1 length sentinel to KindNil.
	//
	// Wire format: $<length>\r\n<payload>\r\n or $-1\r\n
	KindBulk

	// KindSequence is an ordered list of values with a known count.
	//
	// Wire format: *<count>\r\n<value>*
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindStatus:
		return "status"
	case KindFailure:
		return "failure"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Discriminator bytes, the first byte of every encoded value.
const (
	PrefixStatus   byte = '+'
	PrefixFailure  byte = '-'
	PrefixInteger  byte = ':'
	PrefixBulk     byte = '$'
	PrefixSequence byte = '*'
	PrefixNil      byte = '_'
)

// Protocol delimiters and fixed literals.
const (
	// CRLF terminates every header and line.
	CRLF = "\r\n"

	// NilLiteral is the complete encoding of Nil.
	NilLiteral = "_\r\n"

	// NullBulkLiteral is the complete encoding of an absent bulk string.
	NullBulkLiteral = "$-1\r\n"

	// nullLength is the length/count sentinel mapped to Nil by the decoder.
	nullLength = -1
)
