// Package tl implements the binary core of the TL wire format: the byte
// cursor, the fixed scalar encodings, vector framing, the core container
// objects and the constructor registry used to resolve arbitrary frames.
package tl

import "io"

// Buffer is an append-only writer and read cursor over a single byte slice.
// Codecs are pure functions over a Buffer; the type carries no synchronization
// and is not safe for concurrent use.
type Buffer struct {
	buf []byte
	off int
}

// NewBuffer returns a Buffer reading from (and appending to) data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// Bytes returns the full underlying slice, including already-read bytes.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.buf) - b.off
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) {
	b.buf = append(b.buf, p...)
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) {
	b.buf = append(b.buf, c)
}

// ReadN consumes and returns the next n bytes. The returned slice aliases the
// buffer's storage and is only valid until the next Write.
func (b *Buffer) ReadN(n int) ([]byte, error) {
	if n < 0 || len(b.buf)-b.off < n {
		return nil, io.ErrUnexpectedEOF
	}
	p := b.buf[b.off : b.off+n]
	b.off += n
	return p, nil
}

// Rewind moves the read cursor back to the start of the buffer.
func (b *Buffer) Rewind() {
	b.off = 0
}
