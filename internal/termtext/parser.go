package termtext

import "unicode/utf8"

type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCSI
	stateOSC
	stateOSCEscape
)

const (
	maxParams    = 32
	maxSubParams = 8
	maxParamVal  = 0xffff
)

// ActionKind is what the parser recognized after consuming a byte.
type ActionKind uint8

const (
	// ActionNone means the byte was absorbed into a pending sequence or
	// ignored.
	ActionNone ActionKind = iota
	// ActionPrint carries a printable rune, newline or tab.
	ActionPrint
	// ActionCSI is a completed control sequence.
	ActionCSI
	// ActionOSC is a completed operating system command.
	ActionOSC
)

// Action is the result of feeding one byte to the Parser.
type Action struct {
	Kind ActionKind
	Rune rune
	// Replace is set when a broken UTF-8 sequence was abandoned before this
	// byte; the caller should emit utf8.RuneError ahead of the action.
	Replace bool
	// Params holds CSI parameters; each entry is a parameter followed by
	// its colon separated sub-parameters. Empty values read as 0. The
	// slice is reused by the next call.
	Params [][]int
	// Private is set when the sequence carried a private marker or
	// intermediate bytes.
	Private bool
	Final   byte
}

// IsSGR reports whether a is a Select Graphic Rendition sequence.
func (a Action) IsSGR() bool {
	return a.Kind == ActionCSI && a.Final == 'm' && !a.Private
}

// Parser is a byte oriented VT100/ANSI X3.64 state machine covering the
// ground, escape, CSI and OSC states. The zero value is ready to use.
type Parser struct {
	state parserState

	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int

	params  [][]int
	cur     []int
	private bool
	control bool
}

// Advance consumes a single byte. Bytes that cannot continue the current
// sequence drop the parser back to ground, where they are processed again.
func (p *Parser) Advance(b byte) Action {
	switch p.state {
	case stateEscape:
		return p.escape(b)
	case stateEscapeIntermediate:
		return p.escapeIntermediate(b)
	case stateCSI:
		return p.csi(b)
	case stateOSC:
		return p.osc(b)
	case stateOSCEscape:
		return p.oscEscape(b)
	}
	return p.ground(b)
}

// Flush reports whether an incomplete UTF-8 sequence was pending and resets
// the parser to ground.
func (p *Parser) Flush() bool {
	pending := p.utf8Need > 0
	*p = Parser{params: p.params[:0]}
	return pending
}

func (p *Parser) ground(b byte) Action {
	if p.utf8Need > 0 {
		if b&0xc0 == 0x80 {
			p.utf8Buf[p.utf8Len] = b
			p.utf8Len++
			if p.utf8Len < p.utf8Need {
				return Action{}
			}
			r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
			p.utf8Len, p.utf8Need = 0, 0
			return Action{Kind: ActionPrint, Rune: r}
		}
		p.utf8Len, p.utf8Need = 0, 0
		a := p.ground(b)
		a.Replace = true
		return a
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
		return Action{}
	case b == '\n' || b == '\t':
		return Action{Kind: ActionPrint, Rune: rune(b)}
	case b < 0x20 || b == 0x7f:
		return Action{}
	case b < utf8.RuneSelf:
		return Action{Kind: ActionPrint, Rune: rune(b)}
	}

	need := 0
	switch {
	case b >= 0xc2 && b <= 0xdf:
		need = 2
	case b >= 0xe0 && b <= 0xef:
		need = 3
	case b >= 0xf0 && b <= 0xf4:
		need = 4
	default:
		return Action{Kind: ActionPrint, Rune: utf8.RuneError}
	}
	p.utf8Buf[0] = b
	p.utf8Len, p.utf8Need = 1, need
	return Action{}
}

func (p *Parser) escape(b byte) Action {
	switch {
	case b == '[':
		p.state = stateCSI
		p.params = p.params[:0]
		p.cur = nil
		p.private = false
		return Action{}
	case b == ']':
		p.state = stateOSC
		p.control = false
		return Action{}
	case b == 'P' || b == 'X' || b == '^' || b == '_':
		// DCS, SOS, PM and APC strings share the OSC terminators.
		p.state = stateOSC
		p.control = true
		return Action{}
	case b == 0x1b:
		return Action{}
	case b >= 0x20 && b <= 0x2f:
		p.state = stateEscapeIntermediate
		return Action{}
	case b >= 0x30 && b <= 0x7e:
		p.state = stateGround
		return Action{}
	}
	p.state = stateGround
	return p.ground(b)
}

func (p *Parser) escapeIntermediate(b byte) Action {
	switch {
	case b >= 0x20 && b <= 0x2f:
		return Action{}
	case b >= 0x30 && b <= 0x7e:
		p.state = stateGround
		return Action{}
	}
	p.state = stateGround
	return p.ground(b)
}

func (p *Parser) csi(b byte) Action {
	switch {
	case b >= '0' && b <= '9':
		if p.cur == nil {
			p.cur = make([]int, 1, 4)
		}
		last := len(p.cur) - 1
		if v := p.cur[last]*10 + int(b-'0'); v <= maxParamVal {
			p.cur[last] = v
		} else {
			p.cur[last] = maxParamVal
		}
		return Action{}
	case b == ':':
		if p.cur == nil {
			p.cur = make([]int, 1, 4)
		}
		if len(p.cur) < maxSubParams {
			p.cur = append(p.cur, 0)
		}
		return Action{}
	case b == ';':
		p.endParam()
		return Action{}
	case b >= '<' && b <= '?':
		p.private = true
		return Action{}
	case b >= 0x20 && b <= 0x2f:
		p.private = true
		return Action{}
	case b >= 0x40 && b <= 0x7e:
		if p.cur != nil || len(p.params) > 0 {
			p.endParam()
		}
		p.state = stateGround
		return Action{Kind: ActionCSI, Params: p.params, Private: p.private, Final: b}
	case b == 0x1b:
		p.state = stateEscape
		return Action{}
	}
	p.state = stateGround
	return p.ground(b)
}

func (p *Parser) endParam() {
	if p.cur == nil {
		p.cur = []int{0}
	}
	if len(p.params) < maxParams {
		p.params = append(p.params, p.cur)
	}
	p.cur = nil
}

func (p *Parser) osc(b byte) Action {
	switch {
	case b == 0x07:
		p.state = stateGround
		return p.endString()
	case b == 0x1b:
		p.state = stateOSCEscape
		return Action{}
	case b < 0x20:
		p.state = stateGround
		return p.ground(b)
	}
	return Action{}
}

func (p *Parser) oscEscape(b byte) Action {
	if b == '\\' {
		p.state = stateGround
		return p.endString()
	}
	p.state = stateEscape
	return p.escape(b)
}

func (p *Parser) endString() Action {
	if p.control {
		return Action{}
	}
	return Action{Kind: ActionOSC}
}
