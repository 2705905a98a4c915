package matches

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanmem/process"
	"scanmem/value"
)

func TestNewStoreIsEmpty(t *testing.T) {
	s, err := New(1024, quiet())
	require.NoError(t, err)

	assert.Equal(t, SwathHeaderSize, s.Cap())
	assert.Equal(t, 1024, s.MaxBytes())
	assert.True(t, s.First().IsSentinel())
	assert.Equal(t, 0, s.Count())

	_, ok := s.NthMatch(0)
	assert.False(t, ok)

	_, _, ok = s.RemoteAddressRange()
	assert.False(t, ok)
}

func TestNewPanicsWithoutRoomForSentinel(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = New(SwathHeaderSize-1, quiet())
	})
}

func TestGrowthDoublesAndLogs(t *testing.T) {
	log := &recordingLogger{}
	s, err := New(1<<20, WithLogger(log))
	require.NoError(t, err)

	w := s.First()
	w, err = s.Append(w, 0x1000, 1, value.FlagsAll)
	require.NoError(t, err)
	assert.Equal(t, 32, s.Cap())

	// 16 + 5 entries = 36 bytes
	for a := 0x1001; a <= 0x1004; a++ {
		w, err = s.Append(w, process.ProcessMemoryAddress(a), 1, value.FlagsAll)
		require.NoError(t, err)
	}
	assert.Equal(t, 64, s.Cap())
	assert.Len(t, log.lines, 2)
}

func TestGrowthClampsToMax(t *testing.T) {
	items := addrs(0x1000, 0x1001, 0x1002)
	limit := SwathHeaderSize + 3*EntrySize + SwathHeaderSize

	s, err := New(limit, quiet())
	require.NoError(t, err)

	w := s.First()
	for _, it := range items {
		w, err = s.Append(w, it.addr, it.e.OldValue, it.e.Flags)
		require.NoError(t, err)
		assert.LessOrEqual(t, s.Cap(), limit)
	}
	require.NoError(t, s.Finalize(w))
	assert.Equal(t, limit, s.Cap())
}

func TestGrowthPanicsWhenMaxIsDishonest(t *testing.T) {
	s, err := New(SwathHeaderSize+EntrySize, quiet())
	require.NoError(t, err)

	w, err := s.Append(s.First(), 0x1000, 0, value.FlagsAll)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = s.Append(w, 0x1001, 0, value.FlagsAll)
	})
}

func TestAllocationFailure(t *testing.T) {
	failing := errors.New("no pages left")

	_, err := New(1024, quiet(), WithAllocator(func(int) ([]byte, error) {
		return nil, failing
	}))
	require.ErrorIs(t, err, ErrOutOfMemory)

	calls := 0
	s, err := New(1024, quiet(), WithAllocator(func(size int) ([]byte, error) {
		calls++
		if calls > 1 {
			return nil, failing
		}
		return make([]byte, size), nil
	}))
	require.NoError(t, err)

	_, err = s.Append(s.First(), 0x1000, 0, value.FlagsAll)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestFinalizeShrinksAndIsIdempotent(t *testing.T) {
	items := randomItems(7, 300, false)

	s, err := New(worstCase(len(items)), quiet())
	require.NoError(t, err)

	w := s.First()
	for _, it := range items {
		w, err = s.Append(w, it.addr, it.e.OldValue, it.e.Flags)
		require.NoError(t, err)
	}

	require.NoError(t, s.Finalize(w))
	used := w.Next().Offset() + SwathHeaderSize
	assert.Equal(t, used, s.Cap())
	assert.True(t, w.Next().IsSentinel())

	before := bytes.Clone(s.Bytes())
	require.NoError(t, s.Finalize(w))
	assert.Equal(t, used, s.Cap())
	assert.Equal(t, before, s.Bytes())
}

func TestFinalizeEmptyStore(t *testing.T) {
	s, err := New(1024, quiet())
	require.NoError(t, err)

	require.NoError(t, s.Finalize(s.First()))
	assert.Equal(t, SwathHeaderSize, s.Cap())
	assert.Equal(t, make([]byte, SwathHeaderSize), s.Bytes())
}

func TestMaxBytesForIsHonest(t *testing.T) {
	sizes := []uint64{64, 1, 4096}
	s, err := New(MaxBytesFor(sizes...), quiet())
	require.NoError(t, err)

	w := s.First()
	base := uint64(0x400000)
	for _, size := range sizes {
		for i := uint64(0); i < size; i++ {
			w, err = s.Append(w, process.ProcessMemoryAddress(base+i), byte(i), value.FlagsAll)
			require.NoError(t, err)
		}
		base += size + 0x1000
	}
	require.NoError(t, s.Finalize(w))

	assert.Equal(t, MaxBytesFor(sizes...), s.Cap())
	assert.Equal(t, 64+1+4096, s.Count())
}
