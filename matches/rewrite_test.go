package matches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanmem/process"
	"scanmem/value"
)

func TestRewriteSeesOldValues(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	items := contiguous(0x5000, data, value.FlagsEmpty)
	for _, i := range []int{0, 4, 8} {
		items[i].e.Flags = value.Flags32b
	}
	s := populate(t, worstCase(len(items)), items)

	var olds []uint32
	remaining, err := s.Rewrite(func(addr process.ProcessMemoryAddress, e Entry, old value.Value) (Entry, bool) {
		if !e.IsMatch() {
			return e, true
		}
		olds = append(olds, old.Uint32())

		// keep odd values only, and bump the stored byte
		if old.Uint32()%2 == 0 {
			return e, false
		}
		return Entry{OldValue: e.OldValue + 10, Flags: e.Flags}, true
	})
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 2, 3}, olds)
	assert.Equal(t, 2, remaining)

	got := storedMatches(s)
	require.Len(t, got, 2)
	assert.Equal(t, appended{addr: 0x5000, e: Entry{OldValue: 11, Flags: value.Flags32b}}, got[0])
	assert.Equal(t, appended{addr: 0x5008, e: Entry{OldValue: 13, Flags: value.Flags32b}}, got[1])

	// the dropped match left a one byte gap inside the swath
	assert.Equal(t, []swathShape{{0x5000, 12}}, shapes(s))
	assert.Equal(t, value.FlagsEmpty, s.First().Entry(4).Flags)
}

func TestRewriteDropAllPlaceholders(t *testing.T) {
	s := populate(t, worstCase(4), addrs(10, 12, 14, 16))
	require.Equal(t, []swathShape{{10, 7}}, shapes(s))

	remaining, err := s.Rewrite(func(_ process.ProcessMemoryAddress, e Entry, _ value.Value) (Entry, bool) {
		return e, e.IsMatch()
	})
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
	assert.Equal(t, []swathShape{{10, 7}}, shapes(s))
}
