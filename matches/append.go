package matches

import (
	"fmt"

	"scanmem/process"
	"scanmem/value"
)

// Append records addr with its byte and flags after everything in w, the
// swath returned by the previous Append (or First on an empty store).
// Addresses must be appended in strictly increasing order.
//
// The byte is added to w when filling the skipped addresses with placeholders
// costs less than a new swath header plus one entry, otherwise a new swath is
// started. The returned swath is the last one of the store.
func (s *Store) Append(w Swath, addr process.ProcessMemoryAddress, oldValue uint8, flags value.Flags) (Swath, error) {
	if w.Len() == 0 {
		if w.FirstByte() != 0 {
			panic(fmt.Sprintf("matches: empty swath at offset %d has address %s", w.off, w.FirstByte().ToString()))
		}

		// overwrite the sentinel as a new swath
		if err := s.growToFit(w.off + SwathHeaderSize + EntrySize); err != nil {
			return w, err
		}
		w.setFirstByte(addr)
	} else {
		last := w.LastAddress()
		if addr <= last {
			panic(fmt.Sprintf("matches: address %s appended after %s", addr.ToString(), last.ToString()))
		}

		excess := uint64(addr - last)
		newSwathCost := uint64(SwathHeaderSize + EntrySize)

		if excess >= newSwathCost || excess*EntrySize >= newSwathCost {
			// A new swath is cheaper. Ties go to the new swath as well, walks
			// should not step through more placeholders than necessary.
			if err := s.growToFit(w.end() + SwathHeaderSize + EntrySize); err != nil {
				return w, err
			}

			w = w.Next()
			w.setFirstByte(addr)
			w.setLen(0)
		} else {
			gapBytes := int(excess) * EntrySize
			if err := s.growToFit(w.end() + gapBytes); err != nil {
				return w, err
			}

			end := w.end()
			switch excess {
			case 1:
				// the new byte directly follows the last one
			case 2:
				clear(s.buf[end : end+EntrySize])
			default:
				clear(s.buf[end : end+gapBytes-EntrySize])
			}
			w.setLen(w.Len() + int(excess) - 1)
		}
	}

	w.setEntry(w.Len(), Entry{OldValue: oldValue, Flags: flags})
	w.setLen(w.Len() + 1)

	return w, nil
}
