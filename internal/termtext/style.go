package termtext

import (
	"strconv"
	"strings"
)

// ColorKind identifies how a Color value is encoded.
type ColorKind uint8

const (
	// ColorNone means "not set"; the terminal default applies.
	ColorNone ColorKind = iota
	// ColorANSI is one of the 16 named colors (0-7 normal, 8-15 bright).
	ColorANSI
	// ColorIndexed is an entry of the 256-color palette.
	ColorIndexed
	// ColorRGB is a 24-bit true color.
	ColorRGB
)

// Named ANSI color indexes.
const (
	Black uint8 = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// Color is a terminal color. The zero value is ColorNone.
type Color struct {
	Kind  ColorKind
	Index uint8
	R     uint8
	G     uint8
	B     uint8
}

// ANSI returns one of the 16 named colors. Indexes above 15 wrap.
func ANSI(index uint8) Color {
	return Color{Kind: ColorANSI, Index: index % 16}
}

// Indexed returns a 256-palette color.
func Indexed(index uint8) Color {
	return Color{Kind: ColorIndexed, Index: index}
}

// RGB returns a true color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsSet reports whether the color carries a value.
func (c Color) IsSet() bool {
	return c.Kind != ColorNone
}

// Attr is a set of text attributes.
type Attr uint16

const (
	Bold Attr = 1 << iota
	Dim
	Italic
	Underline
	Blink
	Reversed
	Hidden
	Strikethrough
)

// Style is the rendition applied to a single character.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// Foreground returns a copy of s with the foreground color replaced.
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy of s with the background color replaced.
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// With returns a copy of s with the attributes added.
func (s Style) With(a Attr) Style {
	s.Attrs |= a
	return s
}

// Without returns a copy of s with the attributes cleared.
func (s Style) Without(a Attr) Style {
	s.Attrs &^= a
	return s
}

// Has reports whether all attributes in a are set.
func (s Style) Has(a Attr) bool {
	return s.Attrs&a == a
}

// IsZero reports whether s is the terminal default rendition.
func (s Style) IsZero() bool {
	return s == Style{}
}

var attrCodes = []struct {
	attr Attr
	code string
}{
	{Bold, "1"},
	{Dim, "2"},
	{Italic, "3"},
	{Underline, "4"},
	{Blink, "5"},
	{Reversed, "7"},
	{Hidden, "8"},
	{Strikethrough, "9"},
}

// SGR encodes s as a single Select Graphic Rendition escape sequence.
// The zero style encodes as the empty string.
func (s Style) SGR() string {
	if s.IsZero() {
		return ""
	}
	params := make([]string, 0, 4)
	for _, ac := range attrCodes {
		if s.Attrs&ac.attr != 0 {
			params = append(params, ac.code)
		}
	}
	params = appendColorParams(params, s.Fg, false)
	params = appendColorParams(params, s.Bg, true)
	return "\x1b[" + strings.Join(params, ";") + "m"
}

func appendColorParams(params []string, c Color, background bool) []string {
	base, bright, extended := 30, 90, "38"
	if background {
		base, bright, extended = 40, 100, "48"
	}
	switch c.Kind {
	case ColorANSI:
		if c.Index < 8 {
			return append(params, strconv.Itoa(base+int(c.Index)))
		}
		return append(params, strconv.Itoa(bright+int(c.Index)-8))
	case ColorIndexed:
		return append(params, extended, "5", strconv.Itoa(int(c.Index)))
	case ColorRGB:
		return append(params, extended, "2",
			strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B)))
	}
	return params
}
