// Package pool reuses render buffers on the live render path.
package pool

import (
	"bytes"
	"sync"
)

// maxPooledSize caps what is returned to the pools. A registration page with
// many rate cards renders well under this.
const maxPooledSize = 64 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer returns an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool. Oversized buffers are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledSize {
		return
	}
	bufferPool.Put(buf)
}

// String runs fn against a pooled buffer and returns what it wrote.
func String(fn func(buf *bytes.Buffer)) string {
	buf := GetBuffer()
	defer PutBuffer(buf)
	fn(buf)
	return buf.String()
}
