// Package pool
// Author: momentics <momentics@gmail.com>
//
// Backing memory for byte rings.
// Regions are either Go heap slices or, on Linux, anonymous mappings that
// live outside the garbage-collected heap. A ring borrows a region; the
// region's owner releases it. See region.go.
package pool
