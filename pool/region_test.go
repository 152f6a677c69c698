package pool_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/ringbuf/api"
	"github.com/momentics/ringbuf/pool"
	"github.com/momentics/ringbuf/ring"
)

func TestHeapRegion(t *testing.T) {
	r, err := pool.NewHeapRegion(1024)
	require.NoError(t, err)
	assert.Equal(t, 1024, r.Len())
	assert.Equal(t, pool.BackingHeap, r.Backing())
	assert.Equal(t, "heap region (1.0 KiB)", r.String())

	require.NoError(t, r.Release())
	assert.ErrorIs(t, r.Release(), api.ErrRegionReleased)
}

func TestRegionRejectsBadSize(t *testing.T) {
	_, err := pool.NewHeapRegion(0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	_, err = pool.MapRegion(-4)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	_, err = pool.Allocate("shm", 16)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestMapRegionBacksRing(t *testing.T) {
	r, err := pool.MapRegion(4096)
	if runtime.GOOS != "linux" {
		assert.ErrorIs(t, err, api.ErrNotSupported)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, pool.BackingMmap, r.Backing())

	rb := ring.NewWithStorage(r.Bytes())
	rb.PushBulk([]byte("mapped"))
	assert.Equal(t, byte('m'), r.Bytes()[0])

	out := make([]byte, 16)
	n := rb.PopBulk(out)
	assert.Equal(t, "mapped", string(out[:n]))

	require.NoError(t, r.Release())
	assert.Nil(t, r.Bytes())
}

func TestAllocateDefaultsToHeap(t *testing.T) {
	r, err := pool.Allocate("", 8)
	require.NoError(t, err)
	assert.Equal(t, pool.BackingHeap, r.Backing())
}

func TestRegionConcurrentDescribeAndRelease(t *testing.T) {
	for i := 0; i < 100; i++ {
		r, err := pool.NewHeapRegion(64)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.String()
			_ = r.Bytes()
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Release())
		}()
		wg.Wait()
		assert.Equal(t, 0, r.Len())
		assert.Equal(t, "heap region (0 B)", r.String())
	}
}
