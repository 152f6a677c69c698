package ring_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/ringbuf/api"
	"github.com/momentics/ringbuf/ring"
)

func TestNew_PowerOfTwoSizes(t *testing.T) {
	for size := 1; size <= 1<<16; size <<= 1 {
		rb := ring.New(size)
		assert.Equal(t, size, rb.Size())
		assert.Equal(t, size-1, rb.Cap(), "usable capacity for size %d", size)
		assert.True(t, rb.IsEmpty())
		assert.Equal(t, 0, rb.Len())
	}
}

func TestNew_RejectsNonPowerOfTwo(t *testing.T) {
	for _, size := range []int{0, -1, -8, 3, 5, 6, 7, 100, 129, 1000} {
		size := size
		assert.Panics(t, func() { ring.New(size) }, "size %d", size)
		assert.Panics(t, func() { ring.NewWithStorage(make([]byte, max(size, 0))) }, "storage %d", size)
	}
}

func TestNew_PanicValueIsStructured(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*api.Error)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, api.ErrCodeInvalidArgument, err.Code)
		assert.Equal(t, 12, err.Context["size"])
		assert.ErrorIs(t, err, api.ErrInvalidArgument)
	}()
	ring.New(12)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, ring.Validate(1))
	assert.NoError(t, ring.Validate(128))
	assert.ErrorIs(t, ring.Validate(0), api.ErrInvalidArgument)
	assert.ErrorIs(t, ring.Validate(96), api.ErrInvalidArgument)
	assert.False(t, ring.IsPowerOfTwo(0))
	assert.True(t, ring.IsPowerOfTwo(1<<20))
}

func TestZeroValueBuffer(t *testing.T) {
	var rb ring.Buffer
	assert.True(t, rb.IsEmpty())
	assert.True(t, rb.IsFull())
	assert.Equal(t, 0, rb.Size())
	_, ok := rb.Pop()
	assert.False(t, ok)
	_, ok = rb.Peek(0)
	assert.False(t, ok)
	assert.Panics(t, func() { rb.Push(1) })
	assert.Panics(t, rb.Reset)

	rb.Init(make([]byte, 4))
	rb.Push(1)
	assert.Equal(t, 1, rb.Len())
}

func TestEmptyFullAfterInit(t *testing.T) {
	rb := ring.New(8)
	assert.True(t, rb.IsEmpty())
	assert.False(t, rb.IsFull())
}

func TestSizeOneIsEmptyAndFull(t *testing.T) {
	rb := ring.New(1)
	assert.True(t, rb.IsEmpty())
	assert.True(t, rb.IsFull())
	assert.Equal(t, 0, rb.Cap())

	rb.Push(42)
	rb.Push(43)
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, uint64(2), rb.Evicted())

	_, ok := rb.Pop()
	assert.False(t, ok)
	_, ok = rb.Peek(0)
	assert.False(t, ok)
	assert.Equal(t, 0, rb.PopBulk(make([]byte, 4)))
}

func TestFIFOOrder(t *testing.T) {
	rb := ring.New(16)
	for i := 0; i < 15; i++ {
		rb.Push(byte(i))
		assert.Equal(t, i+1, rb.Len())
	}
	assert.True(t, rb.IsFull())
	for i := 0; i < 15; i++ {
		c, ok := rb.Pop()
		require.True(t, ok)
		assert.Equal(t, byte(i), c)
	}
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 0, rb.Len())
	_, ok := rb.Pop()
	assert.False(t, ok)
}

func TestOverwriteOnFull(t *testing.T) {
	rb := ring.New(4)
	rb.PushBulk([]byte{0, 1, 2, 3})

	assert.True(t, rb.IsFull())
	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, uint64(1), rb.Evicted())

	out := make([]byte, 3)
	require.Equal(t, 3, rb.PopBulk(out))
	assert.Equal(t, []byte{1, 2, 3}, out)
	assert.True(t, rb.IsEmpty())
}

func TestOverwriteKeepsNewestAcrossWrap(t *testing.T) {
	rb := ring.New(8)
	for i := 0; i < 100; i++ {
		rb.Push(byte(i))
	}
	assert.Equal(t, 7, rb.Len())
	assert.Equal(t, uint64(93), rb.Evicted())
	for i := 93; i < 100; i++ {
		c, ok := rb.Pop()
		require.True(t, ok)
		assert.Equal(t, byte(i), c)
	}
}

func TestBulkPushLargerThanCapEvictsOwnBytes(t *testing.T) {
	rb := ring.New(4)
	n := rb.PushBulk([]byte("abcdefg"))
	assert.Equal(t, 7, n)
	out := make([]byte, 8)
	got := rb.PopBulk(out)
	assert.Equal(t, "efg", string(out[:got]))
}

func TestPeekNonDestructive(t *testing.T) {
	rb := ring.New(8)
	rb.PushBulk([]byte{10, 20, 30})

	for i := 0; i < 3; i++ {
		c, ok := rb.Peek(1)
		require.True(t, ok)
		assert.Equal(t, byte(20), c)
		assert.Equal(t, 3, rb.Len())
	}
	c, ok := rb.Pop()
	require.True(t, ok)
	assert.Equal(t, byte(10), c)

	c, ok = rb.Peek(0)
	require.True(t, ok)
	assert.Equal(t, byte(20), c)
}

func TestPeekOutOfRange(t *testing.T) {
	rb := ring.New(8)
	_, ok := rb.Peek(0)
	assert.False(t, ok)

	rb.PushBulk([]byte{1, 2, 3})
	_, ok = rb.Peek(rb.Len())
	assert.False(t, ok)
	_, ok = rb.Peek(7)
	assert.False(t, ok)
	_, ok = rb.Peek(-1)
	assert.False(t, ok)
}

func TestPeekAfterWrap(t *testing.T) {
	rb := ring.New(4)
	rb.PushBulk([]byte{1, 2, 3})
	rb.Pop()
	rb.Pop()
	rb.PushBulk([]byte{4, 5})
	// tail=2, head=1: window wraps the end of storage.
	for i, want := range []byte{3, 4, 5} {
		c, ok := rb.Peek(i)
		require.True(t, ok)
		assert.Equal(t, want, c)
	}
}

func TestBulkRoundTrip(t *testing.T) {
	rb := ring.New(32)
	src := []byte("hello, ring buffer")
	assert.Equal(t, len(src), rb.PushBulk(src))

	dst := make([]byte, len(src))
	assert.Equal(t, len(src), rb.PopBulk(dst))
	assert.Equal(t, src, dst)
	assert.Equal(t, 0, rb.Len())
}

func TestBulkPartialDrain(t *testing.T) {
	rb := ring.New(16)
	rb.PushBulk([]byte{1, 2, 3, 4, 5})

	dst := make([]byte, 10)
	assert.Equal(t, 5, rb.PopBulk(dst))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, dst[:5])
	assert.True(t, rb.IsEmpty())

	assert.Equal(t, 0, rb.PopBulk(dst))
	assert.Equal(t, 0, rb.PopBulk(nil))
}

func TestReinitClears(t *testing.T) {
	storage := make([]byte, 8)
	rb := ring.NewWithStorage(storage)
	rb.PushBulk([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.True(t, rb.IsFull())

	rb.Init(storage)
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, uint64(0), rb.Evicted())
	// Memory is not zeroed.
	assert.NotEqual(t, make([]byte, 8), storage)

	rb.PushBulk([]byte{9, 9})
	rb.Reset()
	assert.True(t, rb.IsEmpty())
	assert.Equal(t, 8, rb.Size())
}

func TestBorrowedStorageIsUsedInPlace(t *testing.T) {
	storage := make([]byte, 4)
	rb := ring.NewWithStorage(storage)
	rb.PushBulk([]byte{7, 8})
	assert.Equal(t, []byte{7, 8, 0, 0}, storage)
}

func TestEndToEndScenario(t *testing.T) {
	rb := ring.New(128)
	for i := 0; i < 100; i++ {
		rb.Push(byte(i))
	}
	assert.Equal(t, 100, rb.Len())
	c, ok := rb.Peek(3)
	require.True(t, ok)
	assert.Equal(t, byte(3), c)

	for i := 0; i < 100; i++ {
		c, ok := rb.Pop()
		require.True(t, ok)
		assert.Equal(t, byte(i), c)
	}
	assert.True(t, rb.IsEmpty())
}

func TestIOInterfaces(t *testing.T) {
	rb := ring.New(64)
	n, err := io.Copy(rb, bytes.NewReader([]byte("stream")))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	c, err := rb.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('s'), c)
	require.NoError(t, rb.WriteByte('!'))

	rest, err := io.ReadAll(rb)
	require.NoError(t, err)
	assert.Equal(t, "tream!", string(rest))

	_, err = rb.ReadByte()
	assert.Equal(t, io.EOF, err)
	n2, err := rb.Read(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, n2)
}

func TestStats(t *testing.T) {
	rb := ring.New(4)
	rb.PushBulk([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, api.Stats{Size: 4, Cap: 3, Len: 3, Evicted: 2}, rb.Stats())
}

func BenchmarkPushPop(b *testing.B) {
	rb := ring.New(1024)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rb.Push(byte(i))
		rb.Pop()
	}
}

func BenchmarkPushBulk(b *testing.B) {
	rb := ring.New(4096)
	src := bytes.Repeat([]byte{0xAB}, 512)
	dst := make([]byte, 512)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rb.PushBulk(src)
		rb.PopBulk(dst)
	}
}
