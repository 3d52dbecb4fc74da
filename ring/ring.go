/*
NAME
  ring.go

DESCRIPTION
  ring.go provides Buffer, a single-writer/single-reader byte ring with
  wrap-aware, non-blocking reads and writes. It backs the encoder's output
  buffer (package encoder composes it with backpressure on top); this
  package itself never blocks, per spec.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ring provides a bounded, non-blocking byte ring buffer.
package ring

import "sync"

// Buffer is a byte ring with a fixed capacity. Its state is (begin, end,
// size); size never exceeds capacity. All methods are safe for concurrent
// use by one writer and one reader, but Buffer does not itself coordinate
// multiple writers or multiple readers.
type Buffer struct {
	mu       sync.Mutex
	buf      []byte
	begin    int
	end      int
	size     int
	capacity int
}

// NewBuffer returns a Buffer with the given capacity in bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, capacity), capacity: capacity}
}

// Capacity returns the buffer's fixed capacity in bytes.
func (b *Buffer) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Size returns the number of bytes currently held in the buffer.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Write writes up to min(len(data), capacity-size) bytes from data into the
// buffer, wrapping at capacity, and returns the number of bytes written.
// Write never blocks; if the buffer is full the return value may be zero.
func (b *Buffer) Write(data []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(data)
	if free := b.capacity - b.size; n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	first := b.capacity - b.end
	if first > n {
		first = n
	}
	copy(b.buf[b.end:], data[:first])
	if n > first {
		copy(b.buf[0:], data[first:n])
	}

	b.end = (b.end + n) % b.capacity
	b.size += n
	return n
}

// Read reads up to min(len(data), size) bytes into data and returns the
// number of bytes read. If probe is true, the read index is not advanced
// (the same bytes will be returned by the next Read). A nil or empty data
// reads nothing and leaves the read index where it is; use Skip to advance
// without copying.
func (b *Buffer) Read(data []byte, probe bool) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(data)
	if n > b.size {
		n = b.size
	}
	if n == 0 {
		return 0
	}

	first := b.capacity - b.begin
	if first > n {
		first = n
	}
	copy(data[:first], b.buf[b.begin:])
	if n > first {
		copy(data[first:n], b.buf[0:])
	}

	if !probe {
		b.begin = (b.begin + n) % b.capacity
		b.size -= n
	}
	return n
}

// Skip advances the read index by up to min(n, size) bytes without copying
// any data, and returns the number of bytes skipped. This is the "data==nil
// && !probe" case of GetPacket's discard semantics, exposed as its own
// method since a nil Go slice carries no length to drive Read's n.
func (b *Buffer) Skip(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > b.size {
		n = b.size
	}
	if n <= 0 {
		return 0
	}
	b.begin = (b.begin + n) % b.capacity
	b.size -= n
	return n
}

// Peek reads up to len(data) bytes without advancing the read index. It is
// equivalent to Read(data, true).
func (b *Buffer) Peek(data []byte) int { return b.Read(data, true) }
