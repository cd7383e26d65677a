package wire

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Decoding limits. Headers above these are rejected as malformed instead of
// waiting for bytes that will never arrive.
const (
	// MaxBulkLength is the largest accepted bulk payload (512MB, the store's
	// default proto-max-bulk-len).
	MaxBulkLength = 512 * 1024 * 1024

	// MaxSequenceLength is the largest accepted element count.
	MaxSequenceLength = math.MaxInt32

	// MaxDepth is the deepest accepted sequence nesting.
	MaxDepth = 512
)

// minEncodedLen is the size of the shortest complete encoding (_\r\n, +\r\n).
const minEncodedLen = 3

// Decode parses the value at the start of buf.
//
// Outcomes:
//   - Complete: returns the value and the number of bytes it occupies (n > 0).
//     Bytes after n belong to the next value and are not inspected.
//   - Incomplete: returns ErrIncomplete and n == 0. buf does not yet hold a
//     whole value; append more bytes and call Decode again from the same start.
//   - Malformed: returns a *ParseError (errors.Is(err, ErrMalformed)) and
//     n == 0. No amount of extra bytes can fix the input.
//
// Decode never modifies buf. Sequences are decoded speculatively: an
// incomplete element makes the whole sequence incomplete and nothing is
// consumed at any nesting level.
//
// Decode is safe for concurrent use; it only reads its argument.
func Decode(buf []byte) (Value, int, error) {
	return decode(buf, 0)
}

func decode(buf []byte, depth int) (Value, int, error) {
	if len(buf) == 0 {
		return Value{}, 0, ErrIncomplete
	}

	switch buf[0] {
	case PrefixStatus:
		return decodeText(buf, KindStatus)
	case PrefixFailure:
		return decodeText(buf, KindFailure)
	case PrefixInteger:
		return decodeInteger(buf)
	case PrefixBulk:
		return decodeBulk(buf)
	case PrefixSequence:
		return decodeSequence(buf, depth)
	case PrefixNil:
		return decodeNil(buf)
	default:
		return Value{}, 0, &ParseError{Message: fmt.Sprintf("unknown type byte %q", buf[0])}
	}
}

// readLine returns the bytes between the discriminator and the first CRLF, and
// the length of the whole line including the discriminator and the CRLF.
func readLine(buf []byte) ([]byte, int, error) {
	cr := bytes.IndexByte(buf, '\r')
	// A CR not followed by LF is not told apart from a line still arriving.
	if cr == -1 || cr+1 == len(buf) || buf[cr+1] != '\n' {
		return nil, 0, ErrIncomplete
	}

	line := buf[1:cr]
	if i := bytes.IndexByte(line, '\n'); i != -1 {
		return nil, 0, &ParseError{Message: "line contains LF", Offset: 1 + i}
	}
	return line, cr + 2, nil
}

func decodeText(buf []byte, kind Kind) (Value, int, error) {
	line, n, err := readLine(buf)
	if err != nil {
		return Value{}, 0, err
	}
	if !utf8.Valid(line) {
		return Value{}, 0, &ParseError{Message: "invalid UTF-8 in " + kind.String(), Offset: 1}
	}
	return Value{kind: kind, text: string(line)}, n, nil
}

func decodeInteger(buf []byte) (Value, int, error) {
	line, n, err := readLine(buf)
	if err != nil {
		return Value{}, 0, err
	}

	i, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return Value{}, 0, &ParseError{Message: "invalid integer", Offset: 1, Err: err}
	}
	return Integer(i), n, nil
}

// parseLength parses a bulk length or sequence count. It returns nullLength for
// the -1 sentinel.
func parseLength(line []byte, limit int) (int, error) {
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, &ParseError{Message: "invalid length", Offset: 1, Err: err}
	}
	if n < nullLength {
		return 0, &ParseError{Message: fmt.Sprintf("negative length %d", n), Offset: 1}
	}
	if n > int64(limit) {
		return 0, &ParseError{Message: fmt.Sprintf("length %d exceeds limit %d", n, limit), Offset: 1}
	}
	return int(n), nil
}

func decodeBulk(buf []byte) (Value, int, error) {
	line, header, err := readLine(buf)
	if err != nil {
		return Value{}, 0, err
	}

	length, err := parseLength(line, MaxBulkLength)
	if err != nil {
		return Value{}, 0, err
	}
	if length == nullLength {
		return Nil(), header, nil
	}

	end := header + length
	if len(buf) < end+len(CRLF) || buf[end] != '\r' || buf[end+1] != '\n' {
		return Value{}, 0, ErrIncomplete
	}

	payload := buf[header:end]
	if !utf8.Valid(payload) {
		return Value{}, 0, &ParseError{Message: "invalid UTF-8 in bulk", Offset: header}
	}

	return Value{kind: KindBulk, text: string(payload), present: true}, end + len(CRLF), nil
}

func decodeSequence(buf []byte, depth int) (Value, int, error) {
	if depth >= MaxDepth {
		return Value{}, 0, &ParseError{Message: "sequence nesting too deep"}
	}

	line, header, err := readLine(buf)
	if err != nil {
		return Value{}, 0, err
	}

	count, err := parseLength(line, MaxSequenceLength)
	if err != nil {
		return Value{}, 0, err
	}
	if count == nullLength {
		return Nil(), header, nil
	}

	// The count comes from the peer: size the slice by what the buffer can hold.
	elems := make([]Value, 0, min(count, (len(buf)-header)/minEncodedLen))

	pos := header
	for range count {
		elem, n, err := decode(buf[pos:], depth+1)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Offset += pos
			}
			return Value{}, 0, err
		}
		elems = append(elems, elem)
		pos += n
	}

	return Value{kind: KindSequence, elems: elems}, pos, nil
}

// decodeNil accepts the literal _\r\n at the start of buf. Bytes after it are
// left to the caller. Anything else after the discriminator is incomplete.
func decodeNil(buf []byte) (Value, int, error) {
	if len(buf) < len(NilLiteral) || string(buf[:len(NilLiteral)]) != NilLiteral {
		return Value{}, 0, ErrIncomplete
	}
	return Nil(), len(NilLiteral), nil
}
