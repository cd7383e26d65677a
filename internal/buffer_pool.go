package internal

import (
	"bytes"
	"sync"
)

// maxPooledBufferSize bounds the buffers kept for reuse; larger ones are
// dropped so a single big command does not pin memory.
const maxPooledBufferSize = 64 * 1024

// ByteBufferPool recycles bytes.Buffer values used to build wire encodings.
type ByteBufferPool struct {
	pool sync.Pool
}

func NewByteBufferPool(initialSize int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, initialSize))
			},
		},
	}
}

func (p *ByteBufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

func (p *ByteBufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}
