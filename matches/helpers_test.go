package matches

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"scanmem/process"
	"scanmem/value"
)

type recordingLogger struct {
	lines [][]interface{}
}

func (l *recordingLogger) Debugln(args ...interface{}) {
	l.lines = append(l.lines, args)
}

type appended struct {
	addr process.ProcessMemoryAddress
	e    Entry
}

func quiet() Option {
	return WithLogger(&recordingLogger{})
}

// populate appends items in order and finalizes the store.
func populate(t *testing.T, maxBytes int, items []appended, opts ...Option) *Store {
	t.Helper()

	s, err := New(maxBytes, append([]Option{quiet()}, opts...)...)
	require.NoError(t, err)

	w := s.First()
	for _, it := range items {
		w, err = s.Append(w, it.addr, it.e.OldValue, it.e.Flags)
		require.NoError(t, err)
	}
	require.NoError(t, s.Finalize(w))

	return s
}

// worstCase is an honest maximum for any address stream of n items.
func worstCase(n int) int {
	return SwathHeaderSize + n*(SwathHeaderSize+EntrySize)
}

func addrs(list ...process.ProcessMemoryAddress) []appended {
	items := make([]appended, len(list))
	for i, a := range list {
		items[i] = appended{addr: a, e: Entry{OldValue: byte(a), Flags: value.FlagsAll}}
	}
	return items
}

// randomItems produces a strictly increasing address stream mixing small
// gaps, large jumps and, when withEmpty is set, empty flags.
func randomItems(seed int64, n int, withEmpty bool) []appended {
	rng := rand.New(rand.NewSource(seed))

	items := make([]appended, n)
	addr := process.ProcessMemoryAddress(0x10000)
	for i := range items {
		if rng.Intn(20) == 0 {
			addr += process.ProcessMemoryAddress(100 + rng.Intn(5000))
		} else {
			addr += process.ProcessMemoryAddress(1 + rng.Intn(7))
		}

		flags := value.Flags(rng.Intn(int(value.FlagsAll))) | value.FlagU8
		if withEmpty && rng.Intn(4) == 0 {
			flags = value.FlagsEmpty
		}

		items[i] = appended{addr: addr, e: Entry{OldValue: byte(rng.Intn(256)), Flags: flags}}
	}

	return items
}

func realMatches(items []appended) []appended {
	var out []appended
	for _, it := range items {
		if it.e.IsMatch() {
			out = append(out, it)
		}
	}
	return out
}

func storedMatches(s *Store) []appended {
	var out []appended
	for _, loc := range s.Matches() {
		out = append(out, appended{addr: loc.Address(), e: loc.Entry()})
	}
	return out
}

type swathShape struct {
	first process.ProcessMemoryAddress
	len   int
}

func shapes(s *Store) []swathShape {
	var out []swathShape
	for w := range s.Swaths() {
		out = append(out, swathShape{first: w.FirstByte(), len: w.Len()})
	}
	return out
}
