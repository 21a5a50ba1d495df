package termtext

import "unicode/utf8"

// Decoder turns a byte stream containing ANSI escape sequences into Text.
// SGR sequences update the current style; every other sequence is consumed
// without producing characters.
type Decoder struct {
	parser   Parser
	baseline Style
	style    Style
	text     Text
}

// NewDecoder returns a Decoder whose reset state is baseline.
func NewDecoder(baseline Style) *Decoder {
	return &Decoder{baseline: baseline, style: baseline}
}

// Decode is a convenience wrapper decoding b in one call.
func Decode(baseline Style, b []byte) Text {
	d := NewDecoder(baseline)
	_, _ = d.Write(b)
	return d.Text()
}

// DecodeString decodes s with the zero baseline style.
func DecodeString(s string) Text {
	return Decode(Style{}, []byte(s))
}

// Write feeds p to the decoder. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		d.apply(d.parser.Advance(b))
	}
	return len(p), nil
}

// Text flushes any incomplete UTF-8 sequence as a replacement character and
// returns the decoded text. The decoder keeps its style and may be reused.
func (d *Decoder) Text() Text {
	if d.parser.Flush() {
		d.emit(utf8.RuneError)
	}
	return d.text
}

func (d *Decoder) apply(a Action) {
	if a.Replace {
		d.emit(utf8.RuneError)
	}
	switch a.Kind {
	case ActionPrint:
		d.emit(a.Rune)
	case ActionCSI:
		if a.IsSGR() {
			d.style = applySGR(d.style, d.baseline, a.Params)
		}
	}
}

func (d *Decoder) emit(r rune) {
	d.text = append(d.text, Char{Rune: r, Style: d.style})
}

// applySGR applies the parameters left to right. An empty list resets to
// baseline; unknown codes are ignored.
func applySGR(style, baseline Style, params [][]int) Style {
	if len(params) == 0 {
		return baseline
	}
	for i := 0; i < len(params); i++ {
		param := params[i]
		code := param[0]
		switch {
		case code == 0:
			style = baseline
		case code == 1:
			style = style.With(Bold)
		case code == 2:
			style = style.With(Dim)
		case code == 3:
			style = style.With(Italic)
		case code == 4:
			style = style.With(Underline)
		case code == 5 || code == 6:
			style = style.With(Blink)
		case code == 7:
			style = style.With(Reversed)
		case code == 8:
			style = style.With(Hidden)
		case code == 9:
			style = style.With(Strikethrough)
		case code == 21 || code == 22:
			style = style.Without(Bold | Dim)
		case code == 23:
			style = style.Without(Italic)
		case code == 24:
			style = style.Without(Underline)
		case code == 25:
			style = style.Without(Blink)
		case code == 27:
			style = style.Without(Reversed)
		case code == 28:
			style = style.Without(Hidden)
		case code == 29:
			style = style.Without(Strikethrough)
		case code >= 30 && code <= 37:
			style.Fg = ANSI(uint8(code - 30))
		case code == 38:
			c, consumed, ok := extendedColor(params, i)
			if ok {
				style.Fg = c
			}
			i += consumed
		case code == 39:
			style.Fg = baseline.Fg
		case code >= 40 && code <= 47:
			style.Bg = ANSI(uint8(code - 40))
		case code == 48:
			c, consumed, ok := extendedColor(params, i)
			if ok {
				style.Bg = c
			}
			i += consumed
		case code == 49:
			style.Bg = baseline.Bg
		case code >= 90 && code <= 97:
			style.Fg = ANSI(uint8(code-90) + BrightBlack)
		case code >= 100 && code <= 107:
			style.Bg = ANSI(uint8(code-100) + BrightBlack)
		}
	}
	return style
}

// extendedColor parses the color following a 38 or 48 at params[i]. It
// understands both the colon form (38:5:N, 38:2::R:G:B) and the semicolon
// form (38;5;N, 38;2;R;G;B) and reports how many extra parameters the
// semicolon form consumed.
func extendedColor(params [][]int, i int) (Color, int, bool) {
	if sub := params[i]; len(sub) > 1 {
		switch sub[1] {
		case 5:
			if len(sub) >= 3 {
				return paletteColor(sub[2])
			}
		case 2:
			switch {
			case len(sub) >= 6:
				return rgbColor(sub[3], sub[4], sub[5])
			case len(sub) == 5:
				return rgbColor(sub[2], sub[3], sub[4])
			}
		}
		return Color{}, 0, false
	}

	rest := params[i+1:]
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0][0] {
	case 5:
		if len(rest) < 2 {
			return Color{}, len(rest), false
		}
		c, _, ok := paletteColor(rest[1][0])
		return c, 2, ok
	case 2:
		if len(rest) < 4 {
			return Color{}, len(rest), false
		}
		c, _, ok := rgbColor(rest[1][0], rest[2][0], rest[3][0])
		return c, 4, ok
	}
	return Color{}, 1, false
}

func paletteColor(n int) (Color, int, bool) {
	if n < 0 || n > 255 {
		return Color{}, 0, false
	}
	return Indexed(uint8(n)), 0, true
}

func rgbColor(r, g, b int) (Color, int, bool) {
	if r > 255 || g > 255 || b > 255 || r < 0 || g < 0 || b < 0 {
		return Color{}, 0, false
	}
	return RGB(uint8(r), uint8(g), uint8(b)), 0, true
}
