package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"

	"scanmem/process"
	"scanmem/process/memory_map"
)

// HexdumpOptions controls Hexdump
type HexdumpOptions struct {
	BytesPerLine int // 16 when not positive
	Color        bool

	// Mark highlights the bytes of one match
	Mark memory_map.AddressRange
}

// Hexdump writes data read at base as lines of hex bytes and their text.
func Hexdump(w io.Writer, data []byte, base process.ProcessMemoryAddress, opts HexdumpOptions) error {
	perLine := opts.BytesPerLine
	if perLine <= 0 {
		perLine = 16
	}

	for offset := 0; offset < len(data); offset += perLine {
		line := data[offset:min(offset+perLine, len(data))]
		addr := uint64(base) + uint64(offset)

		var sb strings.Builder
		fmt.Fprintf(&sb, "%016x  ", addr)

		for i := range perLine {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if i >= len(line) {
				sb.WriteString("  ")
				continue
			}
			sb.WriteString(opts.byteColor(addr+uint64(i), line[i], fmt.Sprintf("%02x", line[i])))
		}

		sb.WriteString("  |")
		for i, b := range line {
			c := "."
			if b >= 0x20 && b < 0x7f {
				c = string(rune(b))
			}
			sb.WriteString(opts.byteColor(addr+uint64(i), b, c))
		}
		sb.WriteByte('|')

		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}

	return nil
}

func (opts HexdumpOptions) byteColor(addr uint64, b byte, s string) string {
	switch {
	case !opts.Color:
		return s
	case addr >= opts.Mark.Start && addr < opts.Mark.End:
		return coloransi.Color(coloransi.Yellow, coloransi.Black, s)
	case b == 0:
		return coloransi.Foreground(coloransi.BrightBlack, s)
	}
	return coloransi.Foreground(coloransi.Green, s)
}
