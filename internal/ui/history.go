package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/timewatch/internal/state"
)

// renderHistory renders the execution list, newest first, keeping the
// selected row in view.
func (m Model) renderHistory(width, height int) string {
	styles := m.theme.Styles()
	items := m.snapshot.Items

	rows := make([]string, 0, height)
	rows = append(rows, styles.FaintText.Bold(true).Width(width).Render("History"))

	visible := max(height-1, 0)
	offset := 0
	if m.snapshot.Selected >= visible {
		offset = m.snapshot.Selected - visible + 1
	}
	for i := offset; i < len(items) && len(rows) < height; i++ {
		line := ansi.Truncate(historyLine(items[i]), width, "…")
		style := styles.Text
		switch {
		case i == m.snapshot.Selected:
			style = styles.Selected
		case items[i].Running:
			style = styles.MutedText
		case items[i].ExitCode != 0:
			style = styles.DangerText
		}
		rows = append(rows, style.Width(width).Render(line))
	}
	for len(rows) < height {
		rows = append(rows, strings.Repeat(" ", width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// historyLine formats one entry: start time, change counts and the number
// of folded repeats.
func historyLine(item state.Item) string {
	var b strings.Builder
	b.WriteString(item.StartTime.Format("15:04:05"))
	switch {
	case item.Running:
		b.WriteString(" running")
	case item.Diff != nil:
		fmt.Fprintf(&b, " +%d -%d", item.Diff.Added, item.Diff.Deleted)
	}
	if item.Repeats > 0 {
		fmt.Fprintf(&b, " ×%d", item.Repeats+1)
	}
	return b.String()
}
