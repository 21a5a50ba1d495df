package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/timewatch/internal/config"
	"github.com/five82/timewatch/internal/diff"
	"github.com/five82/timewatch/internal/prefs"
	"github.com/five82/timewatch/internal/search"
	"github.com/five82/timewatch/internal/store"
	"github.com/five82/timewatch/internal/termtext"
)

type composeOptions struct {
	DiffMode string
	Query    string
	Styles   config.Styles
}

// result is one execution's output, decoded and highlighted for display.
type result struct {
	Text    termtext.Text
	Matches []search.Range
	Stat    diff.Stat
	// Stderr is set when stdout was empty and stderr is shown instead.
	Stderr bool
	// Previous is set when the deletion diff shows the previous output.
	Previous bool
}

// compose decodes cur and applies, in order, the stderr fallback, the diff
// highlight against prev (when set) and the search highlight.
func compose(cur store.Record, prev *store.Record, opts composeOptions) result {
	var out result

	if len(cur.Stdout) == 0 && len(cur.Stderr) > 0 {
		out.Text = decode(cur.Stderr)
		out.Text.Mark(0, len(out.Text), opts.Styles.Stderr)
		out.Stderr = true
	} else {
		out.Text = decode(cur.Stdout)
		if prev != nil {
			switch opts.DiffMode {
			case prefs.DiffAdd:
				prevPlain := decode(prev.Stdout).Plain()
				out.Stat = diff.Mark(diff.ModeAdd, out.Text.Plain(), prevPlain, out.Text, opts.Styles.DiffAdd)
			case prefs.DiffDelete:
				prevText := decode(prev.Stdout)
				out.Stat = diff.Mark(diff.ModeDelete, out.Text.Plain(), prevText.Plain(), prevText, opts.Styles.DiffDelete)
				out.Text, out.Previous = prevText, true
			}
		}
	}

	out.Matches = search.Matches(out.Text.Plain(), opts.Query)
	for _, r := range out.Matches {
		out.Text.Mark(r.Start, r.End, opts.Styles.Search)
	}
	return out
}

func decode(b []byte) termtext.Text {
	return termtext.Decode(termtext.Style{}, termtext.NormalizeTabs(b))
}

// renderText lays text out for a pane of the given width. Folded lines are
// wrapped; unfolded lines are cut at the pane edge.
func renderText(text termtext.Text, width int, unfold bool) string {
	lines := text.Lines()
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := line.String()
		switch {
		case width <= 0:
		case unfold:
			s = ansi.Truncate(s, width, "")
		default:
			s = ansi.Hardwrap(s, width, true)
		}
		out = append(out, s)
	}
	return strings.Join(out, "\n")
}

// visualLine maps a character index to the rendered row it lands on,
// accounting for wrapped lines.
func visualLine(text termtext.Text, idx, width int, unfold bool) int {
	if unfold || width <= 0 {
		return search.LineOf(text, idx)
	}
	row, start := 0, 0
	for _, line := range text.Lines() {
		end := start + len(line)
		if idx <= end {
			return row + line[:idx-start].Width()/width
		}
		row += max(1, (line.Width()+width-1)/width)
		start = end + 1
	}
	return row
}
