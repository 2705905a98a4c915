package matches

import (
	"iter"

	"scanmem/process"
	"scanmem/value"
)

// Location points at one entry of a store.
type Location struct {
	Swath Swath
	Index int
}

func (l Location) Address() process.ProcessMemoryAddress {
	return l.Swath.Address(l.Index)
}

func (l Location) Entry() Entry {
	return l.Swath.Entry(l.Index)
}

// Value decodes up to 8 bytes starting at the location.
func (l Location) Value() value.Value {
	return l.Swath.Value(l.Index)
}

// Swaths yields every swath in address order.
func (s *Store) Swaths() iter.Seq[Swath] {
	return func(yield func(Swath) bool) {
		for w := s.First(); !w.IsSentinel(); w = w.Next() {
			if !yield(w) {
				return
			}
		}
	}
}

// Matches yields the real matches in address order with their match number.
// Placeholders are skipped and do not count.
func (s *Store) Matches() iter.Seq2[int, Location] {
	return func(yield func(int, Location) bool) {
		n := 0
		for w := range s.Swaths() {
			for i := 0; i < w.Len(); i++ {
				if !w.Entry(i).IsMatch() {
					continue
				}
				if !yield(n, Location{Swath: w, Index: i}) {
					return
				}
				n++
			}
		}
	}
}

// NthMatch returns the location of match n (0-based). It walks the store from
// the start, iterate Matches when many matches are needed.
func (s *Store) NthMatch(n int) (Location, bool) {
	if n < 0 {
		return Location{}, false
	}

	for i, loc := range s.Matches() {
		if i == n {
			return loc, true
		}
	}

	return Location{}, false
}

// Count returns the number of real matches.
func (s *Store) Count() int {
	count := 0
	for range s.Matches() {
		count++
	}
	return count
}
