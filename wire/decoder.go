package wire

import (
	"errors"
	"io"
)

const decoderReadSize = 4096

// Decoder reads consecutive values from a byte stream. It keeps the bytes it
// has read but not yet decoded, and retries Decode from the start of that
// buffer each time more bytes arrive.
type Decoder struct {
	r   io.Reader
	buf []byte
	err error // sticky read or parse error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next complete value.
//
// It returns io.EOF when the stream ends cleanly between values and
// io.ErrUnexpectedEOF when it ends inside a value. A *ParseError is sticky:
// the stream cannot be resynchronised after it.
func (d *Decoder) Next() (Value, error) {
	if d.err != nil {
		return Value{}, d.err
	}

	for {
		v, n, err := Decode(d.buf)
		if err == nil {
			d.buf = d.buf[n:]
			return v, nil
		}
		if !errors.Is(err, ErrIncomplete) {
			d.err = err
			return Value{}, err
		}

		if err := d.fill(); err != nil {
			if err == io.EOF && len(d.buf) > 0 {
				err = io.ErrUnexpectedEOF
			}
			d.err = err
			return Value{}, err
		}
	}
}

// Buffered returns the number of bytes read from the stream but not yet
// decoded.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// fill appends at least one byte from the reader to the buffer.
func (d *Decoder) fill() error {
	// Reallocating also drops the already-decoded bytes in front of d.buf.
	if cap(d.buf)-len(d.buf) < decoderReadSize {
		grown := make([]byte, len(d.buf), 2*cap(d.buf)+decoderReadSize)
		copy(grown, d.buf)
		d.buf = grown
	}

	for {
		n, err := d.r.Read(d.buf[len(d.buf):cap(d.buf)])
		d.buf = d.buf[:len(d.buf)+n]
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
