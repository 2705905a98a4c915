package process_blob

import (
	"fmt"
	"sort"
	"sync"

	"scanmem/process"
	"scanmem/process/memory_map"
)

type blob struct {
	item memory_map.MemoryMapItem
	data []byte
}

// Memory is a target process held entirely in memory: a saved dump, or a
// fake that tests can map, write and unmap.
type Memory struct {
	PID  process.ProcessID
	Name string

	mu    sync.Mutex
	blobs []blob // sorted by address, non overlapping
}

var _ process.Reader = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

// Map adds a region at addr backed by a copy of data. It must not overlap an existing region.
func (m *Memory) Map(addr process.ProcessMemoryAddress, data []byte, perms string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memory_map.MemoryMapItem{Address: uint64(addr), Size: uint(len(data)), Perms: perms}
	for _, b := range m.blobs {
		if item.Address < b.item.End() && b.item.Address < item.End() {
			return fmt.Errorf("region %x-%x overlaps %x-%x", item.Address, item.End(), b.item.Address, b.item.End())
		}
	}

	m.blobs = append(m.blobs, blob{item: item, data: append([]byte(nil), data...)})
	sort.Slice(m.blobs, func(i, j int) bool {
		return m.blobs[i].item.Address < m.blobs[j].item.Address
	})

	return nil
}

// Unmap removes [addr, addr+size) from the address space, trimming or
// splitting the regions it touches like munmap.
func (m *Memory) Unmap(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start, end := uint64(addr), uint64(addr)+uint64(size)

	var kept []blob
	for _, b := range m.blobs {
		bStart, bEnd := b.item.Address, b.item.End()
		if end <= bStart || start >= bEnd {
			kept = append(kept, b)
			continue
		}

		if start > bStart {
			kept = append(kept, b.slice(bStart, start))
		}
		if end < bEnd {
			kept = append(kept, b.slice(end, bEnd))
		}
	}

	m.blobs = kept
}

// slice returns the part of b covering [from, to)
func (b blob) slice(from, to uint64) blob {
	lo, hi := from-b.item.Address, to-b.item.Address
	return blob{
		item: memory_map.MemoryMapItem{Address: from, Size: uint(to - from), Perms: b.item.Perms},
		data: b.data[lo:hi:hi],
	}
}

func (m *Memory) find(addr uint64) *blob {
	i := sort.Search(len(m.blobs), func(i int) bool {
		return m.blobs[i].item.End() > addr
	})
	if i < len(m.blobs) && m.blobs[i].item.Address <= addr {
		return &m.blobs[i]
	}
	return nil
}

// ReadMemory copies size bytes at addr, continuing into the next region when
// it starts exactly where the current one ends. A read running into unmapped
// memory returns what was available together with an error, as a live
// process read would.
func (m *Memory) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.find(uint64(addr))
	if b == nil {
		return nil, process.ErrAddressNotMapped
	}

	result := make([]byte, 0, size)
	cursor := uint64(addr)
	for b != nil && uint64(len(result)) < uint64(size) {
		offset := cursor - b.item.Address
		n := min(uint64(size)-uint64(len(result)), uint64(len(b.data))-offset)

		result = append(result, b.data[offset:offset+n]...)
		cursor += n
		b = m.find(cursor)
	}

	if uint64(len(result)) < uint64(size) {
		return result, fmt.Errorf("partial read: %d of %d bytes", len(result), size)
	}
	return result, nil
}

// WriteMemory overwrites bytes inside one mapped region
func (m *Memory) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.find(uint64(addr))
	if b == nil {
		return process.ErrAddressNotMapped
	}

	offset := uint64(addr) - b.item.Address
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("write of %d bytes at 0x%x exceeds region data bounds", len(data), uint64(addr))
	}

	copy(b.data[offset:], data)
	return nil
}

func (m *Memory) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]memory_map.MemoryMapItem, len(m.blobs))
	for i, b := range m.blobs {
		result[i] = b.item
	}
	return result, nil
}

func (m *Memory) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.find(uint64(addr)) != nil
}
