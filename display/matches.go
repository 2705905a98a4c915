package display

import (
	"fmt"
	"strconv"

	"github.com/Moonlight-Companies/gologger/coloransi"

	"scanmem/scan"
	"scanmem/value"
)

// MatchTable lays out a match listing the way scanmem's "list" command
// shows it, one row per match.
func MatchTable(rows []scan.Match, color bool) *Table {
	colorize := func(code coloransi.ColorCode) FormatFunc {
		if !color {
			return nil
		}
		return func(s string) string {
			return coloransi.Foreground(code, s)
		}
	}

	t := NewTable(
		Column{Header: "#", AlignRight: true},
		Column{Header: "address", Format: colorize(coloransi.Cyan)},
		Column{Header: "region", Format: colorize(coloransi.BrightBlack)},
		Column{Header: "offset", AlignRight: true},
		Column{Header: "value", AlignRight: true, Format: colorize(coloransi.Yellow)},
		Column{Header: "types"},
		Column{Header: "text"},
		Column{Header: "bytes", Format: colorize(coloransi.Green)},
	)

	for _, m := range rows {
		var region, offset string
		if m.Region.Size != 0 {
			region = fmt.Sprintf("%x-%x %s", m.Region.Address, m.Region.End(), m.Region.Perms)
			offset = fmt.Sprintf("+0x%x", m.Offset)
		}

		t.AddRow(
			strconv.Itoa(m.Index),
			m.Address.ToString(),
			region,
			offset,
			FormatValue(m.Value),
			m.Value.Flags.String(),
			m.Printable,
			m.Hex,
		)
	}

	return t
}

// FormatValue renders v at its widest plausible width, integers first.
func FormatValue(v value.Value) string {
	if n, ok := v.Int(); ok {
		if v.Flags.Has(value.FlagU64) && !v.Flags.Has(value.FlagS64) {
			return strconv.FormatUint(v.Uint64(), 10)
		}
		return strconv.FormatInt(n, 10)
	}

	switch {
	case v.Flags.Has(value.FlagF64):
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case v.Flags.Has(value.FlagF32):
		return strconv.FormatFloat(float64(v.Float32()), 'g', -1, 32)
	}

	return ""
}
