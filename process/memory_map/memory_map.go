package memory_map

import (
	"fmt"
	"sort"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 // The starting address of the memory region
	Size    uint   // The size of the memory region in bytes
	Perms   string // Permissions (e.g., "r-xp" for read, execute, private)
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s", mmItem.Address, mmItem.Size, mmItem.Perms)
}

// End is the first address past the region.
func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) Contains(addr uint64) bool {
	return addr >= mmItem.Address && addr < mmItem.End()
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

// MemoryMap defines the interface for operations related to a process's memory map
type MemoryMap interface {
	// ReadMemoryMap reads and parses the memory map for a process
	ReadMemoryMap(pid int) ([]MemoryMapItem, error)

	// IsReadablePerms checks if a memory region has read permissions
	IsReadablePerms(perms string) bool

	// IsWritablePerms checks if a memory region has write permissions
	IsWritablePerms(perms string) bool

	// IsExecutablePerms checks if a memory region has execute permissions
	IsExecutablePerms(perms string) bool
}

// AddressRange is a half-open range [Start, End) of remote addresses.
type AddressRange struct {
	Start uint64
	End   uint64
}

func (r AddressRange) String() string {
	return fmt.Sprintf("%x-%x", r.Start, r.End)
}

// Sort orders a memory map by address, IsValidAddress2 and Unmapped depend on it
func Sort(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}

// IsValidAddress2 finds the region containing addr in a sorted memory map
func IsValidAddress2(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// Unmapped returns the parts of the old regions that no region of current covers anymore.
// Both maps must be sorted by address.
func Unmapped(old, current []MemoryMapItem) []AddressRange {
	var gone []AddressRange

	for _, item := range old {
		cursor, end := item.Address, item.End()

		// first candidate that can still overlap [cursor, end)
		i := sort.Search(len(current), func(i int) bool {
			return current[i].End() > cursor
		})

		for ; i < len(current) && cursor < end; i++ {
			next := current[i]
			if next.Address >= end {
				break
			}
			if next.Address > cursor {
				gone = append(gone, AddressRange{Start: cursor, End: next.Address})
			}
			if next.End() > cursor {
				cursor = next.End()
			}
		}

		if cursor < end {
			gone = append(gone, AddressRange{Start: cursor, End: end})
		}
	}

	return gone
}
