package termtext

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Char is one decoded character and the rendition in effect when it was
// emitted.
type Char struct {
	Rune  rune
	Style Style
}

// Text is an ordered sequence of styled characters. Marking operations
// modify the backing array in place.
type Text []Char

// NewText builds an unstyled Text from s.
func NewText(s string) Text {
	text := make(Text, 0, len(s))
	for _, r := range s {
		text = append(text, Char{Rune: r})
	}
	return text
}

// Mark restyles the characters in [start, end). Out of range indexes are
// clipped.
func (t Text) Mark(start, end int, style Style) {
	if start < 0 {
		start = 0
	}
	if end > len(t) {
		end = len(t)
	}
	for i := start; i < end; i++ {
		t[i].Style = style
	}
}

// Plain returns the characters without styling.
func (t Text) Plain() string {
	var b strings.Builder
	b.Grow(len(t))
	for _, c := range t {
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// Lines splits t on newline characters. The newline itself is dropped and
// the result always holds at least one (possibly empty) line.
func (t Text) Lines() []Text {
	lines := make([]Text, 0, 1)
	start := 0
	for i, c := range t {
		if c.Rune == '\n' {
			lines = append(lines, t[start:i:i])
			start = i + 1
		}
	}
	return append(lines, t[start:len(t):len(t)])
}

// Width returns the number of terminal cells needed to display t.
func (t Text) Width() int {
	width := 0
	for _, c := range t {
		width += runewidth.RuneWidth(c.Rune)
	}
	return width
}

// String re-encodes t with SGR escape sequences. A reset is written only
// when the style changes away from a non-default style.
func (t Text) String() string {
	var b strings.Builder
	var last Style
	for _, c := range t {
		if c.Style != last {
			if !last.IsZero() {
				b.WriteString("\x1b[0m")
			}
			b.WriteString(c.Style.SGR())
			last = c.Style
		}
		b.WriteRune(c.Rune)
	}
	if !last.IsZero() {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}
