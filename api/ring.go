// Package api
// Author: momentics@gmail.com
//
// Byte ring contract shared by the core buffer and the synchronised facade.

package api

// ByteRing is a fixed-capacity FIFO of bytes with overwrite-on-full semantics.
// Implementations never block and never report overflow as an error.
type ByteRing interface {
	// Push appends c, evicting the oldest byte first when full.
	Push(c byte)
	// PushBulk pushes every byte of p in order and returns len(p).
	PushBulk(p []byte) int
	// Pop removes the oldest byte; ok is false when empty.
	Pop() (c byte, ok bool)
	// PopBulk fills dst with the oldest bytes and returns how many were produced.
	PopBulk(dst []byte) int
	// Peek returns the index-th oldest byte without removing it.
	Peek(index int) (c byte, ok bool)
	IsEmpty() bool
	IsFull() bool
	// Len returns the number of readable bytes, in [0, Cap()].
	Len() int
	// Cap returns the usable capacity, Size()-1.
	Cap() int
	// Size returns the power-of-two size of the backing storage.
	Size() int
	Stats() Stats
}

// Stats is a point-in-time view of a ring.
type Stats struct {
	Size    int    // backing storage length (power of two)
	Cap     int    // usable capacity
	Len     int    // readable bytes
	Evicted uint64 // bytes dropped by overwrite-on-full since the last init
}
