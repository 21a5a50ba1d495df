package diff

import (
	"testing"

	"github.com/five82/timewatch/internal/termtext"
)

var addStyle = termtext.Style{Fg: termtext.ANSI(termtext.Black), Bg: termtext.ANSI(termtext.Green)}

func TestCount(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		current  string
		want     Stat
	}{
		{"identical", "hello", "hello", Stat{}},
		{"appended char", "hello world", "hello world!", Stat{Added: 1}},
		{"replace and delete", "hello oorld!", "hello world", Stat{Added: 1, Deleted: 2}},
		{"from empty", "", "abc", Stat{Added: 3}},
		{"to empty", "abc", "", Stat{Deleted: 3}},
		{"multibyte counted as chars", "日本", "日本語", Stat{Added: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.previous, tt.current); got != tt.want {
				t.Fatalf("Count(%q, %q) = %+v, want %+v", tt.previous, tt.current, got, tt.want)
			}
		})
	}
}

func TestMark_IdenticalMarksNothing(t *testing.T) {
	s := "same output\nline two"
	text := termtext.NewText(s)

	stat := Mark(ModeAdd, s, s, text, addStyle)
	if !stat.IsZero() {
		t.Fatalf("stat = %+v, want zero", stat)
	}
	for i, c := range text {
		if !c.Style.IsZero() {
			t.Fatalf("text[%d] marked on identical input", i)
		}
	}
}

func TestMark_AddMode(t *testing.T) {
	current := "hello world!"
	previous := "hello world"
	text := termtext.NewText(current)

	stat := Mark(ModeAdd, current, previous, text, addStyle)

	if stat != (Stat{Added: 1}) {
		t.Fatalf("stat = %+v, want Added=1", stat)
	}
	if !text[10].Style.IsZero() {
		t.Fatalf("text[10].Style = %#v, want unmarked", text[10].Style)
	}
	if text[11].Style != addStyle {
		t.Fatalf("text[11].Style = %#v, want highlight", text[11].Style)
	}
}

func TestMark_AddModeSkipsWhitespace(t *testing.T) {
	previous := "hello world"
	current := "hello world\nnew world"
	text := termtext.NewText(current)

	stat := Mark(ModeAdd, current, previous, text, addStyle)

	if stat.Added != 10 {
		t.Fatalf("Added = %d, want 10 (whitespace still counted)", stat.Added)
	}
	if !text[11].Style.IsZero() {
		t.Fatalf("newline at 11 was styled")
	}
	for i := 12; i <= 14; i++ {
		if text[i].Style != addStyle {
			t.Fatalf("text[%d] = %q not marked", i, text[i].Rune)
		}
	}
	if !text[15].Style.IsZero() {
		t.Fatalf("space at 15 was styled")
	}
	for i := 16; i <= 20; i++ {
		if text[i].Style != addStyle {
			t.Fatalf("text[%d] = %q not marked", i, text[i].Rune)
		}
	}
}

func TestMark_DeleteModeUsesPreviousCoordinates(t *testing.T) {
	previous := "hello oorld!"
	current := "hello world"
	deleteStyle := termtext.Style{Bg: termtext.ANSI(termtext.Red)}
	text := termtext.NewText(previous)

	stat := Mark(ModeDelete, current, previous, text, deleteStyle)

	if stat != Count(previous, current) {
		t.Fatalf("stat = %+v, want %+v", stat, Count(previous, current))
	}
	if stat.Deleted != 2 {
		t.Fatalf("Deleted = %d, want 2", stat.Deleted)
	}
	marked := 0
	for _, c := range text {
		if c.Style == deleteStyle {
			marked++
		}
	}
	if marked != 2 {
		t.Fatalf("marked %d chars, want 2", marked)
	}
	if text[11].Style != deleteStyle {
		t.Fatalf("trailing '!' not marked")
	}
	for i := 0; i < 6; i++ {
		if !text[i].Style.IsZero() {
			t.Fatalf("text[%d] in common prefix was marked", i)
		}
	}
}

func TestMark_PreservesDecodedStylesOutsideChanges(t *testing.T) {
	raw := []byte("\x1b[31mred\x1b[0m plain")
	previous := termtext.Decode(termtext.Style{}, []byte("\x1b[31mred\x1b[0m")).Plain()
	text := termtext.Decode(termtext.Style{}, raw)

	Mark(ModeAdd, text.Plain(), previous, text, addStyle)

	if text[0].Style.Fg != termtext.ANSI(termtext.Red) {
		t.Fatalf("text[0] lost its decoded color: %#v", text[0].Style)
	}
	if text[4].Style != addStyle {
		t.Fatalf("text[4] = %#v, want highlight", text[4].Style)
	}
}
