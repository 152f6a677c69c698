// File: pool/region.go
// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backing regions for byte rings. A Region is a contiguous block of memory
// handed to ring.NewWithStorage; the ring borrows it, the Region owner
// releases it.

package pool

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/momentics/ringbuf/api"
)

// Backing names where a Region's memory comes from.
type Backing string

const (
	// BackingHeap is a plain Go slice.
	BackingHeap Backing = "heap"
	// BackingMmap is an anonymous private mapping outside the Go heap.
	BackingMmap Backing = "mmap"
)

// Region is a fixed-length memory block.
type Region struct {
	data    []byte
	backing Backing
	free    func([]byte) error

	mu       sync.Mutex
	released bool
}

// NewHeapRegion allocates a heap-backed region of size bytes.
func NewHeapRegion(size int) (*Region, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "region size must be positive").
			WithContext("size", size)
	}
	return &Region{data: make([]byte, size), backing: BackingHeap}, nil
}

// MapRegion maps an anonymous region of size bytes. It returns an error
// wrapping api.ErrNotSupported on platforms without mmap support.
func MapRegion(size int) (*Region, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "region size must be positive").
			WithContext("size", size)
	}
	data, err := mapAnon(size)
	if err != nil {
		return nil, errors.Wrapf(err, "map %d byte region", size)
	}
	return &Region{data: data, backing: BackingMmap, free: unmapAnon}, nil
}

// Allocate returns a region of the requested backing.
func Allocate(b Backing, size int) (*Region, error) {
	switch b {
	case BackingHeap, "":
		return NewHeapRegion(size)
	case BackingMmap:
		return MapRegion(size)
	default:
		return nil, api.NewError(api.ErrCodeInvalidArgument, "unknown region backing").
			WithContext("backing", string(b))
	}
}

// Bytes returns the region memory, or nil after Release. The returned slice
// must not be used once the region is released.
func (r *Region) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Len returns the region length in bytes; 0 after Release.
func (r *Region) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// Backing reports where the memory came from.
func (r *Region) Backing() Backing { return r.backing }

// Release frees the region. A second call returns api.ErrRegionReleased.
func (r *Region) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return api.ErrRegionReleased
	}
	r.released = true
	data := r.data
	r.data = nil
	if r.free == nil {
		return nil
	}
	return errors.Wrap(r.free(data), "release region")
}

// String describes the region, e.g. "mmap region (4.0 KiB)".
func (r *Region) String() string {
	return fmt.Sprintf("%s region (%s)", r.backing, humanize.IBytes(uint64(r.Len())))
}
