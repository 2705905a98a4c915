package scan

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"scanmem/matches"
	"scanmem/process"
	"scanmem/process/memory_map"
	"scanmem/value"
)

// ErrNoStore is returned by operations that need the result of a first search.
var ErrNoStore = errors.New("scan: no search has been run")

// Session holds the matches of a scan over one target across passes.
type Session struct {
	target process.Reader
	log    *logger.Logger
	filter func(memory_map.MemoryMapItem) bool

	regions    []memory_map.MemoryMapItem // memory map as of the last pass, sorted
	store      *matches.Store
	numMatches int
}

// mapUpdater is implemented by targets that cache their memory map.
type mapUpdater interface {
	UpdateMemoryMap() error
}

func New(target process.Reader, opts ...Option) *Session {
	s := &Session{
		target: target,
		filter: defaultRegionFilter,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "scan"))
	}
	return s
}

// Search runs one pass of m. The first pass reads every selected region and
// records each address m matches, later passes only look at what is left.
func (s *Session) Search(m Matcher) error {
	if s.store == nil {
		return s.firstPass(m)
	}
	return s.narrow(m)
}

func (s *Session) memoryMap() ([]memory_map.MemoryMapItem, error) {
	if u, ok := s.target.(mapUpdater); ok {
		if err := u.UpdateMemoryMap(); err != nil {
			return nil, fmt.Errorf("updating memory map: %w", err)
		}
	}

	mm, err := s.target.GetMemoryMap()
	if err != nil {
		return nil, fmt.Errorf("reading memory map: %w", err)
	}

	memory_map.Sort(mm)
	return mm, nil
}

func (s *Session) firstPass(m Matcher) error {
	mm, err := s.memoryMap()
	if err != nil {
		return err
	}

	var selected []memory_map.MemoryMapItem
	var sizes []uint64
	for _, item := range mm {
		if s.filter(item) {
			selected = append(selected, item)
			sizes = append(sizes, uint64(item.Size))
		}
	}

	s.log.Infoln("Starting first pass over", len(selected), "regions")

	store, err := matches.New(matches.MaxBytesFor(sizes...), matches.WithLogger(s.log))
	if err != nil {
		return err
	}

	w := store.First()
	count := 0
	for _, item := range selected {
		addr := process.ProcessMemoryAddress(item.Address)

		data, err := s.target.ReadMemory(addr, process.ProcessMemorySize(item.Size))
		if err != nil {
			s.log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", item.Address), err)
		}

		// bytes covered by the widest match so far are recorded as
		// placeholders so that its value can be decoded later
		keepUntil := -1

		for i := range data {
			flags := m(data[i:min(i+8, len(data))], value.Value{})
			if flags != value.FlagsEmpty {
				keepUntil = max(keepUntil, i+flags.Width()-1)
				count++
			} else if i > keepUntil {
				continue
			}

			w, err = store.Append(w, addr+process.ProcessMemoryAddress(i), data[i], flags)
			if err != nil {
				return err
			}
		}
	}

	if err := store.Finalize(w); err != nil {
		return err
	}

	s.regions = mm
	s.store = store
	s.numMatches = count

	s.log.Infoln("First pass complete, found", count, "matches,", store.Cap(), "bytes stored")

	return nil
}

type chunk struct {
	first  process.ProcessMemoryAddress
	length int
	data   []byte // may be shorter than length after a failed read
}

func (c chunk) end() process.ProcessMemoryAddress {
	return c.first + process.ProcessMemoryAddress(c.length)
}

func (s *Session) narrow(m Matcher) error {
	// everything is read before the store is rewritten in place
	var chunks []chunk
	for w := range s.store.Swaths() {
		chunks = append(chunks, chunk{first: w.FirstByte(), length: w.Len(), data: s.readSpan(w.FirstByte(), w.Len())})
	}

	c := 0
	var keepEnd process.ProcessMemoryAddress

	n, err := s.store.Rewrite(func(addr process.ProcessMemoryAddress, e matches.Entry, old value.Value) (matches.Entry, bool) {
		for addr >= chunks[c].end() {
			c++
		}

		i := int(addr - chunks[c].first)
		data := chunks[c].data
		if i >= len(data) {
			return e, false
		}
		current := data[i:min(i+8, len(data))]

		if e.IsMatch() {
			if flags := m(current, old) & e.Flags; flags != value.FlagsEmpty {
				keepEnd = max(keepEnd, addr+process.ProcessMemoryAddress(flags.Width()))
				return matches.Entry{OldValue: current[0], Flags: flags}, true
			}
		}

		if addr < keepEnd {
			return matches.Entry{OldValue: current[0]}, true
		}
		return e, false
	})
	if err != nil {
		s.Reset()
		return err
	}

	s.log.Infoln("Narrowed", s.numMatches, "matches to", n)
	s.numMatches = n

	return nil
}

// readSpan reads n bytes at addr. A swath may cover several adjacent regions,
// so a short read is continued where it stopped until nothing more comes back.
func (s *Session) readSpan(addr process.ProcessMemoryAddress, n int) []byte {
	var data []byte
	for len(data) < n {
		cursor := addr + process.ProcessMemoryAddress(len(data))

		part, err := s.target.ReadMemory(cursor, process.ProcessMemorySize(n-len(data)))
		data = append(data, part...)
		if err == nil {
			break
		}
		if len(part) == 0 {
			s.log.Debugln("Failed to read matches at", cursor.ToString(), err)
			break
		}
	}
	return data
}

// RefreshRegions drops the matches inside regions the target no longer maps.
func (s *Session) RefreshRegions() error {
	if s.store == nil {
		return ErrNoStore
	}

	mm, err := s.memoryMap()
	if err != nil {
		return err
	}

	for _, gone := range memory_map.Unmapped(s.regions, mm) {
		s.log.Debugln("Region unmapped", gone.String())
		if err := s.Delete(process.ProcessMemoryAddress(gone.Start), process.ProcessMemoryAddress(gone.End)); err != nil {
			return err
		}
	}

	s.regions = mm
	return nil
}

// Delete drops every match in [start, end).
func (s *Session) Delete(start, end process.ProcessMemoryAddress) error {
	if s.store == nil {
		return ErrNoStore
	}

	n, err := s.store.DeleteInAddressRange(start, end)
	if err != nil {
		s.Reset()
		return err
	}

	s.numMatches = n
	return nil
}

// Reset forgets every match, the next Search is a first pass again.
func (s *Session) Reset() {
	s.store = nil
	s.regions = nil
	s.numMatches = 0
}

func (s *Session) NumMatches() int {
	return s.numMatches
}

// Store returns the match store, nil before the first search.
func (s *Session) Store() *matches.Store {
	return s.store
}

// Matches yields the current matches in address order.
func (s *Session) Matches() iter.Seq2[int, matches.Location] {
	if s.store == nil {
		return func(func(int, matches.Location) bool) {}
	}
	return s.store.Matches()
}

func (s *Session) Nth(n int) (matches.Location, bool) {
	if s.store == nil {
		return matches.Location{}, false
	}
	return s.store.NthMatch(n)
}
