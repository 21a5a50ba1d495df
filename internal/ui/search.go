package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleSearchInput processes keys while the search prompt is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		m.query = strings.TrimSpace(m.searchInput.Value())
		m.matchIdx = 0
		m.refreshContent()
		m.scrollToMatch()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// stepMatch moves to the next (delta 1) or previous (delta -1) match,
// wrapping around.
func (m *Model) stepMatch(delta int) {
	n := len(m.result.Matches)
	if n == 0 {
		return
	}
	m.matchIdx = (m.matchIdx + delta + n) % n
	m.scrollToMatch()
}

// scrollToMatch centres the current match in the result pane when possible.
func (m *Model) scrollToMatch() {
	if m.matchIdx >= len(m.result.Matches) {
		return
	}
	start := m.result.Matches[m.matchIdx].Start
	row := visualLine(m.result.Text, start, m.viewport.Width, m.prefs.Unfold)
	m.viewport.SetYOffset(max(row-m.viewport.Height/2, 0))
}

func matchCounter(current, total int) string {
	return fmt.Sprintf("[%d/%d]", current, total)
}
