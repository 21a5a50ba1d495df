// Package search finds literal matches in decoded output and highlights
// them.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/five82/timewatch/internal/termtext"
)

// Range is a half-open span of character indexes.
type Range struct {
	Start int
	End   int
}

// Matches returns the character ranges of every non-overlapping occurrence
// of query in plain. An empty query matches nothing.
func Matches(plain, query string) []Range {
	if query == "" || len(query) > len(plain) {
		return nil
	}

	// Byte offset to character index, built once per call. Offsets that do
	// not start a character stay -1.
	charAt := make([]int, len(plain)+1)
	for i := range charAt {
		charAt[i] = -1
	}
	n := 0
	for i := range plain {
		charAt[i] = n
		n++
	}
	charAt[len(plain)] = n

	queryChars := utf8.RuneCountInString(query)
	var ranges []Range
	for offset := 0; offset <= len(plain)-len(query); {
		idx := strings.Index(plain[offset:], query)
		if idx < 0 {
			break
		}
		start := offset + idx
		if charAt[start] >= 0 {
			ranges = append(ranges, Range{Start: charAt[start], End: charAt[start] + queryChars})
		}
		offset = start + len(query)
	}
	return ranges
}

// Mark restyles every match of query in text, whose plain projection must
// equal plain, and returns the number of matches.
func Mark(plain string, text termtext.Text, query string, highlight termtext.Style) int {
	ranges := Matches(plain, query)
	for _, r := range ranges {
		text.Mark(r.Start, r.End, highlight)
	}
	return len(ranges)
}

// LineOf returns the zero based line containing character index idx.
func LineOf(text termtext.Text, idx int) int {
	line := 0
	for i := 0; i < idx && i < len(text); i++ {
		if text[i].Rune == '\n' {
			line++
		}
	}
	return line
}
