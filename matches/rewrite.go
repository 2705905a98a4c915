package matches

import (
	"scanmem/process"
	"scanmem/value"
)

// RewriteFunc decides the fate of one entry during Rewrite. old is the value
// decoded at addr as it was before the pass. Returning false drops the entry,
// otherwise the returned entry is stored at addr.
type RewriteFunc func(addr process.ProcessMemoryAddress, e Entry, old value.Value) (Entry, bool)

// Rewrite walks every entry in address order, placeholders included, and
// rebuilds the store in place from the entries fn keeps. It returns the
// number of real matches left. The store must have been finalized.
func (s *Store) Rewrite(fn RewriteFunc) (int, error) {
	read := s.First()
	readFirst, readLen := read.FirstByte(), read.Len()

	// the header is copied, writing may now overwrite it
	write := s.First()
	write.setFirstByte(0)
	write.setLen(0)

	numMatches := 0
	i := 0

	for readLen != 0 {
		addr := readFirst + process.ProcessMemoryAddress(i)

		// entries from i on are still unread, the header may not be
		e, keep := fn(addr, read.Entry(i), read.value(i, readLen))
		if keep {
			// The rewritten layout never takes more bytes than the one being
			// read, so Append never reallocates and never reaches unread data.
			var err error
			write, err = s.Append(write, addr, e.OldValue, e.Flags)
			if err != nil {
				return numMatches, err
			}
			if write.end() > read.entryOffset(i+1) {
				panic("matches: rewrite overtook the read cursor")
			}

			if e.IsMatch() {
				numMatches++
			}
		}

		i++
		if i >= readLen {
			read = Swath{store: s, off: read.entryOffset(readLen)}
			readFirst, readLen = read.FirstByte(), read.Len()
			i = 0
		}
	}

	return numMatches, s.Finalize(write)
}

// DeleteInAddressRange drops every entry whose address is in [start, end),
// placeholders included, and compacts the store in place. It returns the
// number of real matches left.
func (s *Store) DeleteInAddressRange(start, end process.ProcessMemoryAddress) (int, error) {
	return s.Rewrite(func(addr process.ProcessMemoryAddress, e Entry, _ value.Value) (Entry, bool) {
		return e, addr < start || addr >= end
	})
}
