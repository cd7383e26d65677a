package wire

import (
	"io"
	"strconv"

	"github.com/pior/resp/internal"
)

// Typical command is well under 128 bytes
var bufferPool = internal.NewByteBufferPool(128)

// AppendValue appends the wire encoding of v to dst and returns the extended
// slice.
//
// Format per kind:
//
//	status:    +<text>\r\n
//	failure:   -<text>\r\n
//	integer:   :<n>\r\n
//	bulk:      $<len>\r\n<payload>\r\n   (absent: $-1\r\n)
//	sequence:  *<count>\r\n<element>*
//	nil:       _\r\n
//
// Status and failure text is written as-is: it must not contain CR or LF.
func AppendValue(dst []byte, v Value) []byte {
	switch v.kind {
	case KindStatus:
		dst = append(dst, PrefixStatus)
		dst = append(dst, v.text...)
		return append(dst, CRLF...)

	case KindFailure:
		dst = append(dst, PrefixFailure)
		dst = append(dst, v.text...)
		return append(dst, CRLF...)

	case KindInteger:
		dst = append(dst, PrefixInteger)
		dst = strconv.AppendInt(dst, v.integer, 10)
		return append(dst, CRLF...)

	case KindBulk:
		if !v.present {
			return append(dst, NullBulkLiteral...)
		}
		dst = append(dst, PrefixBulk)
		dst = strconv.AppendInt(dst, int64(len(v.text)), 10)
		dst = append(dst, CRLF...)
		dst = append(dst, v.text...)
		return append(dst, CRLF...)

	case KindSequence:
		dst = append(dst, PrefixSequence)
		dst = strconv.AppendInt(dst, int64(len(v.elems)), 10)
		dst = append(dst, CRLF...)
		for _, elem := range v.elems {
			dst = AppendValue(dst, elem)
		}
		return dst

	default:
		return append(dst, NilLiteral...)
	}
}

// Encode returns the wire encoding of v. It never fails.
func Encode(v Value) []byte {
	return AppendValue(nil, v)
}

// WriteValue encodes v and writes it to w in a single Write call.
func WriteValue(w io.Writer, v Value) error {
	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	buf.Write(AppendValue(buf.AvailableBuffer(), v))

	_, err := w.Write(buf.Bytes())
	return err
}
