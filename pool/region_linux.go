//go:build linux

// File: pool/region_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux anonymous mappings for ring backing memory.

package pool

import "golang.org/x/sys/unix"

func mapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapAnon(b []byte) error {
	return unix.Munmap(b)
}
