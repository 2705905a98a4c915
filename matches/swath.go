package matches

import (
	"encoding/binary"

	"scanmem/process"
	"scanmem/value"
)

// Entry is the last observed value of one remote byte and what it may still be.
// Empty flags mark a placeholder.
type Entry struct {
	OldValue uint8
	Flags    value.Flags
}

// IsMatch reports whether the entry is a real match rather than a placeholder.
func (e Entry) IsMatch() bool {
	return e.Flags != value.FlagsEmpty
}

// Swath is a view of the swath header at a byte offset of a store.
type Swath struct {
	store *Store
	off   int
}

// Offset is the position of the swath header in Store.Bytes.
func (w Swath) Offset() int {
	return w.off
}

// FirstByte is the remote address of entry 0, zero for the sentinel.
func (w Swath) FirstByte() process.ProcessMemoryAddress {
	return process.ProcessMemoryAddress(binary.LittleEndian.Uint64(w.store.buf[w.off:]))
}

func (w Swath) setFirstByte(addr process.ProcessMemoryAddress) {
	binary.LittleEndian.PutUint64(w.store.buf[w.off:], uint64(addr))
}

// Len is the number of remote bytes covered, placeholders included.
func (w Swath) Len() int {
	return int(binary.LittleEndian.Uint64(w.store.buf[w.off+swathLenOffset:]))
}

func (w Swath) setLen(n int) {
	binary.LittleEndian.PutUint64(w.store.buf[w.off+swathLenOffset:], uint64(n))
}

// IsSentinel reports whether w terminates the store.
func (w Swath) IsSentinel() bool {
	if w.off+SwathHeaderSize > len(w.store.buf) {
		return true
	}
	return w.Len() == 0
}

// Next returns the swath stored right after w.
func (w Swath) Next() Swath {
	return Swath{store: w.store, off: w.end()}
}

// Address returns the remote address of entry i.
func (w Swath) Address(i int) process.ProcessMemoryAddress {
	return w.FirstByte() + process.ProcessMemoryAddress(i)
}

// LastAddress returns the remote address of the last entry.
func (w Swath) LastAddress() process.ProcessMemoryAddress {
	return w.Address(w.Len() - 1)
}

// Entry returns entry i.
func (w Swath) Entry(i int) Entry {
	o := w.entryOffset(i)
	return Entry{
		OldValue: w.store.buf[o],
		Flags:    value.Flags(binary.LittleEndian.Uint16(w.store.buf[o+entryFlagsOffset:])),
	}
}

func (w Swath) setEntry(i int, e Entry) {
	o := w.entryOffset(i)
	w.store.buf[o] = e.OldValue
	w.store.buf[o+1] = 0
	binary.LittleEndian.PutUint16(w.store.buf[o+entryFlagsOffset:], uint16(e.Flags))
}

func (w Swath) entryOffset(i int) int {
	return w.off + SwathHeaderSize + i*EntrySize
}

// end is the byte offset just past the last entry.
func (w Swath) end() int {
	return w.entryOffset(w.Len())
}
