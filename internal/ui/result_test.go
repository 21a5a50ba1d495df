package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/timewatch/internal/config"
	"github.com/five82/timewatch/internal/diff"
	"github.com/five82/timewatch/internal/prefs"
	"github.com/five82/timewatch/internal/store"
	"github.com/five82/timewatch/internal/termtext"
)

func styledRange(text termtext.Text, style termtext.Style) string {
	var b strings.Builder
	for _, c := range text {
		if c.Style == style {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

func TestCompose_PlainStdout(t *testing.T) {
	cur := store.Record{Stdout: []byte("\x1b[31mred\x1b[0m ok\n")}
	got := compose(cur, nil, composeOptions{DiffMode: prefs.DiffAdd, Styles: config.DefaultStyles()})

	if plain := got.Text.Plain(); plain != "red ok\n" {
		t.Fatalf("Plain = %q, want %q", plain, "red ok\n")
	}
	if got.Text[0].Style.Fg != termtext.ANSI(termtext.Red) {
		t.Fatalf("first char fg = %+v, want red", got.Text[0].Style.Fg)
	}
	if !got.Stat.IsZero() || got.Stderr || got.Previous {
		t.Fatalf("result = %+v, want no diff without a previous record", got)
	}
}

func TestCompose_StderrFallback(t *testing.T) {
	styles := config.DefaultStyles()
	cur := store.Record{Stderr: []byte("boom")}
	got := compose(cur, &store.Record{Stdout: []byte("x")}, composeOptions{DiffMode: prefs.DiffAdd, Styles: styles})

	if !got.Stderr {
		t.Fatal("Stderr = false, want true")
	}
	if marked := styledRange(got.Text, styles.Stderr); marked != "boom" {
		t.Fatalf("stderr styled = %q, want %q", marked, "boom")
	}
	if !got.Stat.IsZero() {
		t.Fatalf("Stat = %+v, want zero for stderr output", got.Stat)
	}
}

func TestCompose_AddDiffMarksInsertions(t *testing.T) {
	styles := config.DefaultStyles()
	prev := store.Record{Stdout: []byte("count 1")}
	cur := store.Record{Stdout: []byte("count 12")}

	got := compose(cur, &prev, composeOptions{DiffMode: prefs.DiffAdd, Styles: styles})
	if got.Stat != (diff.Stat{Added: 1}) {
		t.Fatalf("Stat = %+v, want {Added:1}", got.Stat)
	}
	if marked := styledRange(got.Text, styles.DiffAdd); marked != "2" {
		t.Fatalf("added chars = %q, want %q", marked, "2")
	}
}

func TestCompose_DeleteDiffShowsPrevious(t *testing.T) {
	styles := config.DefaultStyles()
	prev := store.Record{Stdout: []byte("alpha beta")}
	cur := store.Record{Stdout: []byte("alpha")}

	got := compose(cur, &prev, composeOptions{DiffMode: prefs.DiffDelete, Query: "beta", Styles: styles})
	if !got.Previous {
		t.Fatal("Previous = false, want true")
	}
	if plain := got.Text.Plain(); plain != "alpha beta" {
		t.Fatalf("Plain = %q, want previous output", plain)
	}
	if got.Stat.Deleted != 5 {
		t.Fatalf("Deleted = %d, want 5", got.Stat.Deleted)
	}
	if len(got.Matches) != 1 || got.Matches[0].Start != 6 {
		t.Fatalf("Matches = %+v, want one match at 6 in the previous output", got.Matches)
	}
	// Search is applied after the diff, so the match wins.
	if marked := styledRange(got.Text, styles.Search); marked != "beta" {
		t.Fatalf("search styled = %q, want %q", marked, "beta")
	}
}

func TestCompose_DiffOff(t *testing.T) {
	prev := store.Record{Stdout: []byte("a")}
	cur := store.Record{Stdout: []byte("b")}
	got := compose(cur, &prev, composeOptions{DiffMode: prefs.DiffOff, Styles: config.DefaultStyles()})
	if !got.Stat.IsZero() {
		t.Fatalf("Stat = %+v, want zero with diff off", got.Stat)
	}
}

func TestCompose_SearchCountsMatches(t *testing.T) {
	cur := store.Record{Stdout: []byte("go go\tgo")}
	got := compose(cur, nil, composeOptions{Query: "go", Styles: config.DefaultStyles()})
	if len(got.Matches) != 3 {
		t.Fatalf("Matches = %d, want 3", len(got.Matches))
	}
	if strings.ContainsRune(got.Text.Plain(), '\t') {
		t.Fatalf("Plain = %q, tabs should be expanded", got.Text.Plain())
	}
}

func TestRenderText_WrapAndTruncate(t *testing.T) {
	text := termtext.NewText("abcdefgh\nxy")

	folded := strings.Split(ansi.Strip(renderText(text, 3, false)), "\n")
	if want := []string{"abc", "def", "gh", "xy"}; strings.Join(folded, ",") != strings.Join(want, ",") {
		t.Fatalf("folded = %q, want %q", folded, want)
	}

	unfolded := strings.Split(ansi.Strip(renderText(text, 3, true)), "\n")
	if want := []string{"abc", "xy"}; strings.Join(unfolded, ",") != strings.Join(want, ",") {
		t.Fatalf("unfolded = %q, want %q", unfolded, want)
	}
}

func TestVisualLine(t *testing.T) {
	text := termtext.NewText("abcdefgh\nxy\nmatch")
	tests := []struct {
		name   string
		idx    int
		width  int
		unfold bool
		want   int
	}{
		{"first row", 1, 3, false, 0},
		{"wrapped row", 7, 3, false, 2},
		{"after wrapped line", 9, 3, false, 3},
		{"unfolded uses logical lines", 12, 3, true, 2},
		{"folded third line", 12, 3, false, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := visualLine(text, tt.idx, tt.width, tt.unfold); got != tt.want {
				t.Fatalf("visualLine(%d) = %d, want %d", tt.idx, got, tt.want)
			}
		})
	}
}
