// Completion: 100% - Utility module complete
package x64

import (
	"bytes"
	"encoding/binary"
)

// BufferWrapper appends machine code bytes to a growable buffer
type BufferWrapper struct {
	buf *bytes.Buffer
}

// NewBufferWrapper wraps buf, or a fresh buffer when buf is nil
func NewBufferWrapper(buf *bytes.Buffer) *BufferWrapper {
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	return &BufferWrapper{buf: buf}
}

func (bw *BufferWrapper) Write(b byte) int {
	bw.buf.WriteByte(b)
	return 1
}

func (bw *BufferWrapper) WriteBytes(bs ...byte) int {
	bw.buf.Write(bs)
	return len(bs)
}

// WriteInt32 writes v as 4 little-endian two's-complement bytes
func (bw *BufferWrapper) WriteInt32(v int32) int {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	bw.buf.Write(b[:])
	return 4
}

// Patch32 overwrites the 4 bytes at off with v, little-endian
func (bw *BufferWrapper) Patch32(off int, v int32) {
	binary.LittleEndian.PutUint32(bw.buf.Bytes()[off:off+4], uint32(v))
}

func (bw *BufferWrapper) Len() int {
	return bw.buf.Len()
}

func (bw *BufferWrapper) Bytes() []byte {
	return bw.buf.Bytes()
}
