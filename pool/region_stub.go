//go:build !linux

// File: pool/region_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without a mapped-region implementation.

package pool

import "github.com/momentics/ringbuf/api"

func mapAnon(size int) ([]byte, error) {
	return nil, api.ErrNotSupported
}

func unmapAnon(b []byte) error {
	return api.ErrNotSupported
}
