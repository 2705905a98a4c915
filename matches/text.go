package matches

import (
	"fmt"
	"strings"
)

// PrintableString renders up to length bytes of w starting at index, with
// every non-printable byte shown as a dot.
func (w Swath) PrintableString(index, length int) string {
	n := w.available(index, length)

	buf := make([]byte, n)
	for i := range n {
		b := w.Entry(index + i).OldValue
		if b >= 0x20 && b < 0x7f {
			buf[i] = b
		} else {
			buf[i] = '.'
		}
	}

	return string(buf)
}

// BytearrayText renders up to length bytes of w starting at index as
// space separated lowercase hex.
func (w Swath) BytearrayText(index, length int) string {
	n := w.available(index, length)

	var sb strings.Builder
	for i := range n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", w.Entry(index+i).OldValue)
	}

	return sb.String()
}

// available clamps length to the bytes of w from index on.
func (w Swath) available(index, length int) int {
	n := min(w.Len()-index, length)
	if n < 0 {
		return 0
	}
	return n
}
