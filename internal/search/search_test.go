package search

import (
	"reflect"
	"testing"

	"github.com/five82/timewatch/internal/termtext"
)

var highlight = termtext.Style{Fg: termtext.ANSI(termtext.Black), Bg: termtext.ANSI(termtext.Yellow)}

func TestMark_ASCII(t *testing.T) {
	text := termtext.NewText("hello world")
	n := Mark("hello world", text, "hello", highlight)
	if n != 1 {
		t.Fatalf("Mark returned %d matches, want 1", n)
	}
	want := "\x1b[30;43mhello\x1b[0m world"
	if got := text.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		plain string
		query string
		want  []Range
	}{
		{"prefix", "hello world", "hello", []Range{{0, 5}}},
		{"multiple", "ab ab ab", "ab", []Range{{0, 2}, {3, 5}, {6, 8}}},
		{"non overlapping", "aaaa", "aa", []Range{{0, 2}, {2, 4}}},
		{"multibyte haystack", "日本語 text 日本", "text", []Range{{4, 8}}},
		{"multibyte query", "αβγ αβγ", "βγ", []Range{{1, 3}, {5, 7}}},
		{"empty query", "anything", "", nil},
		{"query longer than text", "ab", "abc", nil},
		{"no match", "hello", "xyz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Matches(tt.plain, tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Matches(%q, %q) = %v, want %v", tt.plain, tt.query, got, tt.want)
			}
		})
	}
}

func TestMark_MultibyteUsesCharacterIndexes(t *testing.T) {
	plain := "café → bar"
	text := termtext.NewText(plain)
	Mark(plain, text, "bar", highlight)

	for i, c := range text {
		marked := c.Style == highlight
		if want := i >= 7; marked != want {
			t.Fatalf("text[%d] (%q) marked = %v, want %v", i, c.Rune, marked, want)
		}
	}
}

func TestMark_EmptyQueryMarksNothing(t *testing.T) {
	text := termtext.NewText("abc")
	if n := Mark("abc", text, "", highlight); n != 0 {
		t.Fatalf("Mark returned %d, want 0", n)
	}
	for i, c := range text {
		if !c.Style.IsZero() {
			t.Fatalf("text[%d] marked", i)
		}
	}
}

func TestLineOf(t *testing.T) {
	text := termtext.NewText("a\nb\nc")
	if got := LineOf(text, 4); got != 2 {
		t.Fatalf("LineOf = %d, want 2", got)
	}
	if got := LineOf(text, 0); got != 0 {
		t.Fatalf("LineOf = %d, want 0", got)
	}
}
