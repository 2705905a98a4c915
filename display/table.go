package display

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc colors a cell after its width has been measured
type FormatFunc func(value string) string

// Column describes one column of a Table
type Column struct {
	Header     string
	Blank      string // shown for empty cells, "-" when unset
	Format     FormatFunc
	AlignRight bool
}

// Table lays out rows in columns as wide as their widest visible cell.
type Table struct {
	columns []Column
	rows    [][]string
	widths  []int
}

func NewTable(cols ...Column) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}

	for i := range t.columns {
		if t.columns[i].Blank == "" {
			t.columns[i].Blank = "-"
		}
		t.widths[i] = visibleLength(t.columns[i].Header)
	}

	return t
}

// AddRow appends a row, missing and empty cells get the column's blank value.
// Cells past the last column are ignored.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
		} else {
			row[i] = t.columns[i].Blank
		}

		t.widths[i] = max(t.widths[i], visibleLength(row[i]))
	}

	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a dashed line and every row.
func (t *Table) Render(w io.Writer) error {
	line := make([]string, len(t.columns))

	for i, col := range t.columns {
		line[i] = t.pad(i, col.Header)
	}
	if err := t.writeLine(w, line); err != nil {
		return err
	}

	for i := range t.columns {
		line[i] = strings.Repeat("-", t.widths[i])
	}
	if err := t.writeLine(w, line); err != nil {
		return err
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if format := t.columns[i].Format; format != nil && cell != t.columns[i].Blank {
				cell = format(cell)
			}
			line[i] = t.pad(i, cell)
		}
		if err := t.writeLine(w, line); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) writeLine(w io.Writer, cells []string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	return err
}

func (t *Table) pad(col int, s string) string {
	n := t.widths[col] - visibleLength(s)
	if n <= 0 {
		return s
	}
	if t.columns[col].AlignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// visibleLength counts the runes of s outside ANSI escape sequences
func visibleLength(s string) int {
	length := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			// a CSI sequence ends with its first letter
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			length++
		}
	}
	return length
}
