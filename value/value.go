package value

import (
	"encoding/binary"
	"math"
	"strings"
)

// Flags records which interpretations of a byte sequence are still plausible.
type Flags uint16

const (
	FlagU8 Flags = 1 << iota
	FlagS8
	FlagU16
	FlagS16
	FlagU32
	FlagS32
	FlagU64
	FlagS64
	FlagF32
	FlagF64
)

const (
	FlagsEmpty Flags = 0

	Flags8b  = FlagU8 | FlagS8
	Flags16b = FlagU16 | FlagS16
	Flags32b = FlagU32 | FlagS32 | FlagF32
	Flags64b = FlagU64 | FlagS64 | FlagF64

	FlagsInteger = Flags8b | FlagU16 | FlagS16 | FlagU32 | FlagS32 | FlagU64 | FlagS64
	FlagsFloat   = FlagF32 | FlagF64
	FlagsAll     = FlagsInteger | FlagsFloat

	// FlagsMax is the starting point before clamping by available bytes.
	FlagsMax Flags = 0xffff
)

// Has reports whether any of the bits in f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f != 0
}

// Width returns the widest plausible width in bytes, 0 when empty.
func (fl Flags) Width() int {
	switch {
	case fl.Has(Flags64b):
		return 8
	case fl.Has(Flags32b):
		return 4
	case fl.Has(Flags16b):
		return 2
	case fl.Has(Flags8b):
		return 1
	}
	return 0
}

func (fl Flags) String() string {
	if fl&FlagsAll == 0 {
		return "-"
	}

	var tags []string
	if fl.Has(FlagU64 | FlagS64) {
		tags = append(tags, "I64")
	}
	if fl.Has(FlagU32 | FlagS32) {
		tags = append(tags, "I32")
	}
	if fl.Has(Flags16b) {
		tags = append(tags, "I16")
	}
	if fl.Has(Flags8b) {
		tags = append(tags, "I8")
	}
	if fl.Has(FlagF64) {
		tags = append(tags, "F64")
	}
	if fl.Has(FlagF32) {
		tags = append(tags, "F32")
	}
	return strings.Join(tags, " ")
}

// Value is up to 8 bytes of remote memory plus the interpretations they still support.
// Bytes past Flags.Width() are unspecified.
type Value struct {
	Bytes [8]byte
	Flags Flags
}

// ClampFlags drops every width that needs more than available bytes.
func ClampFlags(fl Flags, available int) Flags {
	if available < 8 {
		fl &^= Flags64b
	}
	if available < 4 {
		fl &^= Flags32b
	}
	if available < 2 {
		fl &^= Flags16b
	}
	if available < 1 {
		fl = FlagsEmpty
	}
	return fl
}

// FromBytes builds a value from the first 8 bytes of b.
func FromBytes(b []byte) Value {
	var v Value
	n := copy(v.Bytes[:], b)
	v.Flags = ClampFlags(FlagsAll, n)
	return v
}

func (v Value) Uint8() uint8 {
	return v.Bytes[0]
}

func (v Value) Uint16() uint16 {
	return binary.LittleEndian.Uint16(v.Bytes[:2])
}

func (v Value) Uint32() uint32 {
	return binary.LittleEndian.Uint32(v.Bytes[:4])
}

func (v Value) Uint64() uint64 {
	return binary.LittleEndian.Uint64(v.Bytes[:])
}

func (v Value) Int8() int8 {
	return int8(v.Uint8())
}

func (v Value) Int16() int16 {
	return int16(v.Uint16())
}

func (v Value) Int32() int32 {
	return int32(v.Uint32())
}

func (v Value) Int64() int64 {
	return int64(v.Uint64())
}

func (v Value) Float32() float32 {
	return math.Float32frombits(v.Uint32())
}

func (v Value) Float64() float64 {
	return math.Float64frombits(v.Uint64())
}

// Int returns the value read at its widest plausible integer width, sign
// extended when only the signed interpretation is left.
func (v Value) Int() (int64, bool) {
	switch {
	case v.Flags.Has(FlagU64 | FlagS64):
		return v.Int64(), true
	case v.Flags.Has(FlagU32):
		return int64(v.Uint32()), true
	case v.Flags.Has(FlagS32):
		return int64(v.Int32()), true
	case v.Flags.Has(FlagU16):
		return int64(v.Uint16()), true
	case v.Flags.Has(FlagS16):
		return int64(v.Int16()), true
	case v.Flags.Has(FlagU8):
		return int64(v.Uint8()), true
	case v.Flags.Has(FlagS8):
		return int64(v.Int8()), true
	}
	return 0, false
}
