package wire

import (
	"io"
	"strings"
	"testing"
)

// Benchmark encoding the session write command
func BenchmarkEncode_Command(b *testing.B) {
	v := Command("SET", "Session-0b7a4f2c", "10.0.0.5", "EX", "3600")
	buf := make([]byte, 0, 128)
	b.ResetTimer()

	for b.Loop() {
		buf = AppendValue(buf[:0], v)
	}
}

// Benchmark WriteValue through the pooled buffer
func BenchmarkWriteValue_Command(b *testing.B) {
	v := Command("HGET", "credentials", "alice")
	b.ResetTimer()

	for b.Loop() {
		if err := WriteValue(io.Discard, v); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark decoding a status reply
func BenchmarkDecode_Status(b *testing.B) {
	data := []byte("+OK\r\n")
	b.ResetTimer()

	for b.Loop() {
		if _, _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark decoding a small bulk reply
func BenchmarkDecode_Bulk(b *testing.B) {
	data := []byte("$6\r\nsecret\r\n")
	b.ResetTimer()

	for b.Loop() {
		if _, _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark decoding a 1KB bulk reply
func BenchmarkDecode_LargeBulk(b *testing.B) {
	data := Encode(Bulk(strings.Repeat("x", 1024)))
	b.ResetTimer()

	for b.Loop() {
		if _, _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark decoding a nested sequence
func BenchmarkDecode_Sequence(b *testing.B) {
	data := Encode(Sequence(
		Command("SET", "Session-abc", "10.0.0.5"),
		Sequence(Integer(1), Integer(2), Integer(3)),
		Status("OK"),
	))
	b.ResetTimer()

	for b.Loop() {
		if _, _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark the incomplete path, hit on every partial read
func BenchmarkDecode_Incomplete(b *testing.B) {
	full := Encode(Command("SET", "Session-abc", "10.0.0.5", "EX", "3600"))
	data := full[:len(full)-1]
	b.ResetTimer()

	for b.Loop() {
		if _, _, err := Decode(data); err != ErrIncomplete {
			b.Fatal(err)
		}
	}
}
