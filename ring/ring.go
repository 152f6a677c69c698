// File: ring/ring.go
// Package ring implements a fixed-capacity byte ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer is a circular byte buffer over a power-of-two backing slice.
// Index wraparound is a bitwise mask. head==tail encodes "empty", so at most
// Size()-1 bytes are readable at any time. Pushing into a full buffer evicts
// the oldest byte before the new one is written.
//
// Buffer performs no locking. Callers sharing one across goroutines must
// serialise access themselves (see facade.Ring).

package ring

import (
	"io"

	"golang.org/x/sys/cpu"

	"github.com/momentics/ringbuf/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.ByteRing  = (*Buffer)(nil)
	_ io.ReadWriter = (*Buffer)(nil)
	_ io.ByteReader = (*Buffer)(nil)
	_ io.ByteWriter = (*Buffer)(nil)
)

// Buffer is a single-producer/single-consumer oriented byte FIFO.
// The zero value has no storage: it reports empty and full, Pop and Peek
// report no value, and Push or Reset panic until Init is called.
type Buffer struct {
	storage []byte
	mask    uint
	head    uint             // next write index
	_       cpu.CacheLinePad // keep producer and consumer cursors on separate lines
	tail    uint             // next read index
	_       cpu.CacheLinePad
	evicted uint64
}

// IsPowerOfTwo reports whether n is a power of two and at least 1.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate returns an *api.Error when size cannot back a Buffer.
func Validate(size int) error {
	if !IsPowerOfTwo(size) {
		return api.NewError(api.ErrCodeInvalidArgument, "ring size must be a power of two").
			WithContext("size", size)
	}
	return nil
}

// New allocates a Buffer owning a backing slice of the given size.
// It panics if size is not a power of two.
func New(size int) *Buffer {
	if err := Validate(size); err != nil {
		panic(err)
	}
	return NewWithStorage(make([]byte, size))
}

// NewWithStorage builds a Buffer over storage without copying it.
// The caller keeps ownership of storage and must not alias it with another
// Buffer. It panics if len(storage) is not a power of two.
func NewWithStorage(storage []byte) *Buffer {
	b := &Buffer{}
	b.Init(storage)
	return b
}

// Init (re)initialises b over storage. Existing contents are discarded
// logically; storage bytes are not zeroed. It panics if len(storage) is not
// a power of two.
func (b *Buffer) Init(storage []byte) {
	if err := Validate(len(storage)); err != nil {
		panic(err)
	}
	b.storage = storage[:len(storage):len(storage)]
	b.mask = uint(len(storage) - 1)
	b.head = 0
	b.tail = 0
	b.evicted = 0
}

// Reset clears b by re-initialising it over its current storage.
func (b *Buffer) Reset() {
	b.Init(b.storage)
}

// Push writes c at head. When the buffer is full the oldest byte is dropped
// first by advancing tail.
func (b *Buffer) Push(c byte) {
	if b.IsFull() {
		b.tail = (b.tail + 1) & b.mask
		b.evicted++
	}
	b.storage[b.head] = c
	b.head = (b.head + 1) & b.mask
}

// PushBulk pushes p in order, byte 0 first, and returns len(p). A p longer
// than Cap() evicts its own leading bytes.
func (b *Buffer) PushBulk(p []byte) int {
	for _, c := range p {
		b.Push(c)
	}
	return len(p)
}

// Pop removes and returns the oldest byte. ok is false when b is empty.
func (b *Buffer) Pop() (c byte, ok bool) {
	if b.IsEmpty() {
		return 0, false
	}
	c = b.storage[b.tail]
	b.tail = (b.tail + 1) & b.mask
	return c, true
}

// PopBulk pops into dst until dst is full or b is empty and returns the
// number of bytes produced.
func (b *Buffer) PopBulk(dst []byte) int {
	n := 0
	for n < len(dst) {
		c, ok := b.Pop()
		if !ok {
			break
		}
		dst[n] = c
		n++
	}
	return n
}

// Peek returns the index-th oldest byte (0 is the next to be popped) without
// moving either cursor. ok is false when index is outside [0, Len()).
func (b *Buffer) Peek(index int) (c byte, ok bool) {
	if index < 0 || uint(index) >= b.count() {
		return 0, false
	}
	return b.storage[(b.tail+uint(index))&b.mask], true
}

// IsEmpty reports head == tail.
func (b *Buffer) IsEmpty() bool {
	return b.head == b.tail
}

// IsFull reports whether b holds Size()-1 bytes. A size-1 buffer is always
// both empty and full.
func (b *Buffer) IsFull() bool {
	return b.count() == b.mask
}

// Len returns the number of readable bytes.
func (b *Buffer) Len() int {
	return int(b.count())
}

// Cap returns the usable capacity, Size()-1.
func (b *Buffer) Cap() int {
	return int(b.mask)
}

// Size returns the length of the backing storage.
func (b *Buffer) Size() int {
	return len(b.storage)
}

// Evicted returns how many bytes overwrite-on-full has dropped since Init.
func (b *Buffer) Evicted() uint64 {
	return b.evicted
}

// Stats returns a snapshot of b.
func (b *Buffer) Stats() api.Stats {
	return api.Stats{
		Size:    b.Size(),
		Cap:     b.Cap(),
		Len:     b.Len(),
		Evicted: b.evicted,
	}
}

// Write implements io.Writer. It never fails and always consumes all of p.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.PushBulk(p), nil
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	b.Push(c)
	return nil
}

// Read implements io.Reader. It returns io.EOF only when b is empty and p is
// not.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := b.PopBulk(p)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadByte implements io.ByteReader, returning io.EOF when empty.
func (b *Buffer) ReadByte() (byte, error) {
	c, ok := b.Pop()
	if !ok {
		return 0, io.EOF
	}
	return c, nil
}

// count is the unsigned distance from tail to head, wrapped by mask.
func (b *Buffer) count() uint {
	return (b.head - b.tail) & b.mask
}
