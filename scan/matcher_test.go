package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scanmem/value"
)

func TestMatchInteger(t *testing.T) {
	tests := []struct {
		name     string
		v        int64
		current  []byte
		expected value.Flags
	}{
		{"byte only", 42, []byte{42, 1}, value.Flags8b},
		{"every width", 42, []byte{42, 0, 0, 0, 0, 0, 0, 0}, value.FlagsInteger},
		{"clamped by available bytes", 42, []byte{42, 0, 0}, value.Flags8b | value.Flags16b},
		{"negative byte", -1, []byte{0xff, 0}, value.FlagS8},
		{"negative everywhere", -1, []byte{0xff, 0xff, 0xff, 0xff}, value.FlagS8 | value.FlagS16 | value.FlagS32},
		{"unsigned byte", 255, []byte{0xff, 0}, value.FlagU8 | value.FlagU16 | value.FlagS16},
		{"sixteen bits", 0x1234, []byte{0x34, 0x12, 0, 0}, value.Flags16b | value.FlagU32 | value.FlagS32},
		{"no match", 7, []byte{42, 0, 0, 0}, value.FlagsEmpty},
		{"nothing to read", 0, nil, value.FlagsEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchInteger(tt.v)(tt.current, value.Value{}))
		})
	}
}

func TestMatchAny(t *testing.T) {
	assert.Equal(t, value.FlagsAll, MatchAny(make([]byte, 8), value.Value{}))
	assert.Equal(t, value.Flags8b|value.Flags16b, MatchAny([]byte{1, 2, 3}, value.Value{}))
	assert.Equal(t, value.FlagsEmpty, MatchAny(nil, value.Value{}))
}

func TestMatchUnchanged(t *testing.T) {
	old := value.FromBytes([]byte{1, 2, 3, 4})

	assert.Equal(t, value.Flags8b|value.Flags16b|value.Flags32b, MatchUnchanged([]byte{1, 2, 3, 4}, old))
	assert.Equal(t, value.Flags8b|value.Flags16b, MatchUnchanged([]byte{1, 2, 9, 4}, old))
	assert.Equal(t, value.FlagsEmpty, MatchUnchanged([]byte{9, 2, 3, 4}, old))

	// nothing recorded, nothing unchanged
	assert.Equal(t, value.FlagsEmpty, MatchUnchanged([]byte{0, 0}, value.Value{}))
}
