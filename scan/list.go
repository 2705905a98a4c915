package scan

import (
	"scanmem/matches"
	"scanmem/process"
	"scanmem/process/memory_map"
	"scanmem/value"
)

// Match is one row of a match listing.
type Match struct {
	Index   int
	Address process.ProcessMemoryAddress
	Region  memory_map.MemoryMapItem // zero when the address is no longer mapped
	Offset  uint64                   // from the start of Region
	Value   value.Value

	Printable string
	Hex       string
}

// textLength is how many bytes after a match the text columns show
const textLength = 8

// List returns up to limit matches, every match when limit is not positive.
func (s *Session) List(limit int) []Match {
	var rows []Match

	for n, loc := range s.Matches() {
		if limit > 0 && n >= limit {
			break
		}
		rows = append(rows, s.row(n, loc))
	}

	return rows
}

func (s *Session) row(n int, loc matches.Location) Match {
	addr := loc.Address()
	row := Match{
		Index:     n,
		Address:   addr,
		Value:     loc.Value(),
		Printable: loc.Swath.PrintableString(loc.Index, textLength),
		Hex:       loc.Swath.BytearrayText(loc.Index, textLength),
	}

	if item := memory_map.IsValidAddress2(uint64(addr), s.regions); item != nil {
		row.Region = *item
		row.Offset = uint64(addr) - item.Address
	}

	return row
}
