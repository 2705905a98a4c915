package matches

import (
	"scanmem/value"
)

// Value reads at most 8 bytes of w starting at index, never past the end of
// w. Widths that need more bytes than are available are cleared, and the
// result is narrowed to the flags stored with the entry at index.
func (w Swath) Value(index int) value.Value {
	return w.value(index, w.Len())
}

// value takes the swath length from the caller, a rewrite may already have
// overwritten the header.
func (w Swath) value(index, length int) value.Value {
	var v value.Value

	n := min(length-index, 8)
	if n < 0 {
		n = 0
	}

	v.Flags = value.ClampFlags(value.FlagsMax, n)
	for i := 0; i < n; i++ {
		v.Bytes[i] = w.Entry(index + i).OldValue
	}

	if n > 0 {
		// match flags are stored with the first byte of a match
		v.Flags &= w.Entry(index).Flags
	}

	return v
}
