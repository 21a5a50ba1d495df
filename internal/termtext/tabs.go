package termtext

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// TabSize is the column multiple that an expanded tab aligns to.
const TabSize = 4

// NormalizeTabs replaces every tab with the spaces needed to reach the next
// multiple of TabSize on the current line. Escape sequences are copied
// through untouched and take no columns; wide characters advance the column
// by their display width.
//
// A sequence broken off by a byte that cannot continue it is dropped, the
// same way the Parser abandons it, and the breaking byte is handled as
// ordinary input. A sequence cut short by the end of b is copied as is.
func NormalizeTabs(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/8)
	col := 0
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '\t':
			n := TabSize - col%TabSize
			for j := 0; j < n; j++ {
				out = append(out, ' ')
			}
			col += n
			i++
		case c == '\n':
			out = append(out, c)
			col = 0
			i++
		case c == 0x1b:
			n, complete := escapeSpan(b[i:])
			if complete || i+n == len(b) {
				out = append(out, b[i:i+n]...)
			}
			i += n
		case c < utf8.RuneSelf:
			out = append(out, c)
			if c >= 0x20 && c != 0x7f {
				col++
			}
			i++
		default:
			r, size := utf8.DecodeRune(b[i:])
			out = append(out, b[i:i+size]...)
			if r == utf8.RuneError && size == 1 {
				col++
			} else {
				col += runewidth.RuneWidth(r)
			}
			i += size
		}
	}
	return out
}

// escapeSpan measures the escape sequence at the start of b using the
// Parser's transitions. complete reports a finished sequence of n bytes.
// Otherwise n is either len(b) (truncated) or the offset of the byte that
// broke the sequence off.
func escapeSpan(b []byte) (n int, complete bool) {
	for j := 1; j < len(b); j++ {
		c := b[j]
		if j == 1 {
			switch c {
			case '[':
				return csiSpan(b, 2)
			case ']', 'P', 'X', '^', '_':
				return stringSpan(b, 2)
			}
		}
		switch {
		case c >= 0x20 && c <= 0x2f:
		case c >= 0x30 && c <= 0x7e:
			return j + 1, true
		default:
			return j, false
		}
	}
	return len(b), false
}

func csiSpan(b []byte, j int) (int, bool) {
	for ; j < len(b); j++ {
		switch c := b[j]; {
		case c >= 0x20 && c <= 0x3f:
		case c >= 0x40 && c <= 0x7e:
			return j + 1, true
		default:
			return j, false
		}
	}
	return len(b), false
}

// stringSpan covers OSC and the other string controls, ended by BEL or ST.
// An ESC not followed by a backslash ends the string and starts a new
// sequence.
func stringSpan(b []byte, j int) (int, bool) {
	for ; j < len(b); j++ {
		switch c := b[j]; {
		case c == 0x07:
			return j + 1, true
		case c == 0x1b:
			if j+1 == len(b) {
				return len(b), false
			}
			if b[j+1] == '\\' {
				return j + 2, true
			}
			return j, false
		case c < 0x20:
			return j, false
		}
	}
	return len(b), false
}
