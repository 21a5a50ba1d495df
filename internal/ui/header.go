package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/timewatch/internal/prefs"
)

const timeLayout = "2006-01-02 15:04:05"

// renderHeader renders the title line: the interval and command on the
// left, status badges and the shown execution's time on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)

	left := fmt.Sprintf("Every %s: %s", m.interval, strings.Join(m.command, " "))

	var parts []string
	if m.readOnly {
		parts = append(parts, styles.Badge.Background(lipgloss.Color(m.theme.Info)).Render("LOADED"))
	}
	if m.suspender != nil && m.suspender.Suspended() {
		parts = append(parts, styles.Badge.Background(lipgloss.Color(m.theme.Warning)).Render("SUSPENDED"))
	}
	if m.snapshot.TimeMachine {
		parts = append(parts, styles.Badge.Background(lipgloss.Color(m.theme.Accent)).Render("TIME MACHINE"))
	}
	if badge := m.diffBadge(); badge != "" {
		parts = append(parts, badge)
	}
	if m.bell {
		parts = append(parts, styles.MutedText.Background(bg).Render("bell"))
	}
	if m.current != nil && m.current.ExitCode != 0 {
		parts = append(parts, styles.DangerText.Background(bg).Render(fmt.Sprintf("exit %d", m.current.ExitCode)))
	}

	stamp := m.now
	if m.current != nil {
		stamp = m.current.StartTime
	}
	parts = append(parts, styles.Text.Background(bg).Render(stamp.Format(timeLayout)))

	right := strings.Join(parts, styles.Header.Render(" "))
	rightWidth := lipgloss.Width(right)

	avail := max(m.width-rightWidth-2, 0)
	left = ansi.Truncate(left, avail, "…")
	gap := max(m.width-lipgloss.Width(left)-rightWidth, 1)

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(
		styles.Header.Bold(true).Render(left) + styles.Header.Render(strings.Repeat(" ", gap)) + right,
	)
}

// diffBadge shows the active diff mode with the change counts of the shown
// execution, using the configured highlight colors.
func (m Model) diffBadge() string {
	styles := m.theme.Styles()
	added := lipglossStyle(m.styles.DiffAdd).Padding(0, 1)
	deleted := lipglossStyle(m.styles.DiffDelete).Padding(0, 1)

	switch m.prefs.DiffMode {
	case prefs.DiffAdd:
		return styles.MutedText.Render("diff ") + added.Render(fmt.Sprintf("+%d", m.result.Stat.Added))
	case prefs.DiffDelete:
		return styles.MutedText.Render("diff ") + deleted.Render(fmt.Sprintf("-%d", m.result.Stat.Deleted))
	default:
		return ""
	}
}
