// Package diff compares the plain text of two executions and highlights the
// characters that changed.
package diff

import (
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/five82/timewatch/internal/termtext"
)

// Mode selects which side of a change is highlighted.
type Mode int

const (
	// ModeAdd marks inserted characters in the current output.
	ModeAdd Mode = iota
	// ModeDelete marks deleted characters in the previous output.
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Stat counts changed characters.
type Stat struct {
	Added   int
	Deleted int
}

// IsZero reports whether nothing changed.
func (s Stat) IsZero() bool {
	return s.Added == 0 && s.Deleted == 0
}

var dmp = diffmatchpatch.New()

func script(previous, current string) []diffmatchpatch.Diff {
	if previous == current {
		return nil
	}
	return dmp.DiffMainRunes([]rune(previous), []rune(current), false)
}

// Count returns the number of characters inserted into and deleted from
// previous to obtain current.
func Count(previous, current string) Stat {
	var stat Stat
	for _, d := range script(previous, current) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stat.Added += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			stat.Deleted += utf8.RuneCountInString(d.Text)
		}
	}
	return stat
}

// Mark highlights the changes between previous and current in text and
// returns the change counts.
//
// In ModeAdd, text must be the decoded current output and inserted
// characters are marked. In ModeDelete, text must be the decoded previous
// output and deleted characters are marked. Whitespace is counted but never
// restyled.
func Mark(mode Mode, current, previous string, text termtext.Text, highlight termtext.Style) Stat {
	var stat Stat
	cursor := 0
	for _, d := range script(previous, current) {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			cursor += n
		case diffmatchpatch.DiffInsert:
			stat.Added += n
			if mode == ModeAdd {
				cursor = markRun(text, cursor, d.Text, highlight)
			}
		case diffmatchpatch.DiffDelete:
			stat.Deleted += n
			if mode == ModeDelete {
				cursor = markRun(text, cursor, d.Text, highlight)
			}
		}
	}
	return stat
}

func markRun(text termtext.Text, cursor int, run string, highlight termtext.Style) int {
	for _, r := range run {
		if !unicode.IsSpace(r) {
			text.Mark(cursor, cursor+1, highlight)
		}
		cursor++
	}
	return cursor
}
