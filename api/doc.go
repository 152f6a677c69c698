// Package api
// Author: momentics <momentics@gmail.com>
//
// Contracts shared by ringbuf packages: the ByteRing operation set, stats
// snapshots, structured errors, debug and shutdown hooks.
package api
