package wire

import (
	"slices"
	"strconv"
	"strings"
)

// Value is a single protocol value: a status line, a failure line, an integer,
// a bulk string (possibly absent), a sequence of values, or Nil.
//
// A Value is immutable once built. Sequences own copies of their elements, so
// values only ever form trees. The zero Value is Nil.
type Value struct {
	kind    Kind
	text    string
	present bool // bulk only: false for NullBulk
	integer int64
	elems   []Value
}

// Status returns a status value. text must not contain CR or LF.
func Status(text string) Value {
	return Value{kind: KindStatus, text: text}
}

// Failure returns a failure value. text must not contain CR or LF.
func Failure(text string) Value {
	return Value{kind: KindFailure, text: text}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{kind: KindInteger, integer: n}
}

// Bulk returns a present bulk string.
func Bulk(text string) Value {
	return Value{kind: KindBulk, text: text, present: true}
}

// NullBulk returns an absent bulk string. It encodes as $-1\r\n, which decodes
// back as Nil rather than as NullBulk.
func NullBulk() Value {
	return Value{kind: KindBulk}
}

// Sequence returns a sequence holding a copy of elems.
func Sequence(elems ...Value) Value {
	return Value{kind: KindSequence, elems: slices.Clone(elems)}
}

// Nil returns the Nil sentinel.
func Nil() Value {
	return Value{}
}

// Command builds a request: a sequence of bulk strings made of the command name
// followed by its arguments, in order.
func Command(name string, args ...string) Value {
	elems := make([]Value, 0, len(args)+1)
	elems = append(elems, Bulk(name))
	for _, arg := range args {
		elems = append(elems, Bulk(arg))
	}
	return Value{kind: KindSequence, elems: elems}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the text of a status, failure or bulk value, and "" otherwise.
func (v Value) Text() string {
	return v.text
}

// BulkText returns the payload of a bulk value. ok is false when v is not a
// bulk value or is an absent bulk value.
func (v Value) BulkText() (text string, ok bool) {
	if v.kind != KindBulk || !v.present {
		return "", false
	}
	return v.text, true
}

// Int returns the number held by an integer value, and 0 otherwise.
func (v Value) Int() int64 {
	return v.integer
}

// Len returns the number of elements of a sequence, and 0 otherwise.
func (v Value) Len() int {
	return len(v.elems)
}

// Elem returns the i-th element of a sequence. It panics if i is out of range.
func (v Value) Elem(i int) Value {
	return v.elems[i]
}

// Elems returns a copy of the elements of a sequence.
func (v Value) Elems() []Value {
	return slices.Clone(v.elems)
}

// IsNil reports whether v is the Nil sentinel.
func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// Equal reports whether v and other hold the same variant and payload.
// NullBulk and Nil are not equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNil:
		return true
	case KindStatus, KindFailure:
		return v.text == other.text
	case KindInteger:
		return v.integer == other.integer
	case KindBulk:
		return v.present == other.present && v.text == other.text
	case KindSequence:
		return slices.EqualFunc(v.elems, other.elems, Value.Equal)
	default:
		return false
	}
}

// String renders v for logs and debugging. It is not the wire encoding.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindNil:
		sb.WriteString("(nil)")
	case KindStatus:
		sb.WriteString(v.text)
	case KindFailure:
		sb.WriteString("(error) ")
		sb.WriteString(v.text)
	case KindInteger:
		sb.WriteString("(integer) ")
		sb.WriteString(strconv.FormatInt(v.integer, 10))
	case KindBulk:
		if !v.present {
			sb.WriteString("(nil bulk)")
			return
		}
		sb.WriteString(strconv.Quote(v.text))
	case KindSequence:
		sb.WriteByte('[')
		for i, elem := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			elem.format(sb)
		}
		sb.WriteByte(']')
	}
}
