package wire

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzDecode fuzzes Decode to find crashes and contract violations.
// Run with: go test -fuzz='^FuzzDecode$' -fuzztime=60s ./wire
func FuzzDecode(f *testing.F) {
	// Valid replies
	f.Add([]byte("+OK\r\n"))
	f.Add([]byte("-ERR unknown command\r\n"))
	f.Add([]byte(":0\r\n"))
	f.Add([]byte(":-9223372036854775808\r\n"))
	f.Add([]byte("$6\r\nsecret\r\n"))
	f.Add([]byte("$0\r\n\r\n"))
	f.Add([]byte("$-1\r\n"))
	f.Add([]byte("*-1\r\n"))
	f.Add([]byte("_\r\n"))
	f.Add([]byte("*2\r\n$3\r\nGET\r\n$11\r\nSession-abc\r\n"))
	f.Add([]byte("*3\r\n*1\r\n:1\r\n_\r\n+OK\r\n"))

	// Edge cases
	f.Add([]byte(""))                   // Empty input
	f.Add([]byte("$6\r\nsec"))          // Truncated payload
	f.Add([]byte("$3\r\nabcXY"))        // Wrong terminator
	f.Add([]byte("$-2\r\n"))            // Negative length
	f.Add([]byte("*99999999\r\n"))      // Huge count, no elements
	f.Add([]byte("+OK\rX"))             // CR without LF
	f.Add([]byte("_\r\n_\r\n"))         // Trailing value
	f.Add([]byte("$2\r\n\xff\xfe\r\n")) // Invalid UTF-8

	f.Fuzz(func(t *testing.T, data []byte) {
		snapshot := string(data)

		v, n, err := Decode(data)

		if string(data) != snapshot {
			t.Fatalf("Decode modified its input")
		}

		if err != nil {
			if n != 0 {
				t.Fatalf("error %v with n=%d", err, n)
			}
			if !errors.Is(err, ErrIncomplete) && !errors.Is(err, ErrMalformed) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}

		if n <= 0 || n > len(data) {
			t.Fatalf("consumed %d bytes of %d", n, len(data))
		}

		// Whatever decodes must decode again from exactly the consumed bytes.
		again, m, err := Decode(data[:n])
		if err != nil || m != n || !again.Equal(v) {
			t.Fatalf("re-decode of consumed bytes: %s n=%d err=%v, want %s n=%d", again, m, err, v, n)
		}

		// And survive a round trip through the encoder.
		encoded := Encode(v)
		back, m, err := Decode(encoded)
		if err != nil || m != len(encoded) || !back.Equal(v) {
			t.Fatalf("round trip of %s: %s n=%d err=%v", v, back, m, err)
		}
	})
}

// FuzzRoundTripBulk checks that any UTF-8 payload survives a bulk round trip.
func FuzzRoundTripBulk(f *testing.F) {
	f.Add("secret")
	f.Add("")
	f.Add("a\x00b")
	f.Add("\r\n")
	f.Add("日本語")

	f.Fuzz(func(t *testing.T, s string) {
		v, n, err := Decode(Encode(Bulk(s)))
		if !utf8.ValidString(s) {
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("invalid UTF-8 payload decoded: err=%v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if text, ok := v.BulkText(); !ok || text != s || n != len(Encode(Bulk(s))) {
			t.Fatalf("got %q (ok=%v) n=%d, want %q", text, ok, n, s)
		}
	})
}
