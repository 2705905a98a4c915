package scan

import (
	"bytes"
	"encoding/binary"

	"scanmem/value"
)

// Matcher decides which interpretations of the bytes at one address match.
// current holds up to 8 bytes read from the target starting at the address.
// old is the value recorded by the previous pass, its Flags are empty on the
// first pass. The result is intersected with the previous flags by the session.
type Matcher func(current []byte, old value.Value) value.Flags

// MatchAny matches every address at every width that fits, a snapshot.
func MatchAny(current []byte, _ value.Value) value.Flags {
	return value.ClampFlags(value.FlagsAll, len(current))
}

var widths = []struct {
	size     int
	unsigned value.Flags
	signed   value.Flags
}{
	{1, value.FlagU8, value.FlagS8},
	{2, value.FlagU16, value.FlagS16},
	{4, value.FlagU32, value.FlagS32},
	{8, value.FlagU64, value.FlagS64},
}

// MatchInteger matches little-endian integers equal to v.
func MatchInteger(v int64) Matcher {
	return func(current []byte, _ value.Value) value.Flags {
		var buf [8]byte
		copy(buf[:], current)

		flags := value.FlagsEmpty
		for _, w := range widths {
			if len(current) < w.size {
				break
			}

			shift := 64 - 8*uint(w.size)
			raw := binary.LittleEndian.Uint64(buf[:]) << shift >> shift

			if v >= 0 && uint64(v) == raw {
				flags |= w.unsigned
			}
			if int64(raw<<shift)>>shift == v {
				flags |= w.signed
			}
		}
		return flags
	}
}

// MatchUnchanged keeps the widths whose bytes are the same as in the previous pass.
func MatchUnchanged(current []byte, old value.Value) value.Flags {
	flags := value.FlagsEmpty
	for _, group := range []struct {
		size  int
		flags value.Flags
	}{
		{1, value.Flags8b},
		{2, value.Flags16b},
		{4, value.Flags32b},
		{8, value.Flags64b},
	} {
		if len(current) < group.size || !old.Flags.Has(group.flags) {
			continue
		}
		if bytes.Equal(current[:group.size], old.Bytes[:group.size]) {
			flags |= group.flags
		}
	}
	return flags
}
