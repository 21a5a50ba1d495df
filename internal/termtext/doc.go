// Package termtext decodes raw command output into styled text.
//
// # Overview
//
// Commands watched by timewatch frequently colorize their output. Rather than
// handing raw escape sequences to the UI, the output is decoded into a Text:
// an ordered slice of Char values, each carrying the Style that was in effect
// when the character was printed. Diff and search highlighting then operate
// on character indexes and simply restyle the affected Chars.
//
// # Components
//
//   - parser.go: Parser, a byte oriented state machine (ground, escape, CSI,
//     OSC) with a single Advance(byte) entry point
//   - decode.go: Decoder, which feeds bytes to the Parser and applies SGR
//     parameters to the running style
//   - tabs.go: NormalizeTabs, the elastic tab expander
//   - style.go, text.go: the Style, Color, Char and Text value types
//
// # Decoding Rules
//
//   - Printable characters, newlines and tabs become Chars
//   - Invalid UTF-8 becomes utf8.RuneError
//   - SGR 0 (or an empty parameter list) resets to the baseline style
//     passed to NewDecoder, not to the terminal default
//   - Other CSI and OSC sequences are consumed and produce nothing
//   - A byte that cannot continue a sequence returns the parser to ground
//
// # Tabs
//
// Decoding keeps tabs as literal characters. Callers that want aligned
// columns run NormalizeTabs over the raw bytes first; because escape
// sequences are skipped when counting columns, styling survives expansion.
package termtext
