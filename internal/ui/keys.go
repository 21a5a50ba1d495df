package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the watcher.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Execution
	TimeMachine key.Binding
	Suspend     key.Binding
	Bell        key.Binding

	// Display
	Diff         key.Binding
	DeletionDiff key.Binding
	Title        key.Binding
	Unfold       key.Binding

	// Time machine
	Past       key.Binding
	Future     key.Binding
	MorePast   key.Binding
	MoreFuture key.Binding
	Oldest     key.Binding
	Current    key.Binding

	// Result pane
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Search
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "Q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),

		TimeMachine: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle time machine"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Suspend/resume"),
		),
		Bell: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Toggle bell"),
		),

		Diff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Toggle diff"),
		),
		DeletionDiff: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Toggle deletion diff"),
		),
		Title: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle title"),
		),
		Unfold: key.NewBinding(
			key.WithKeys("u", "w"),
			key.WithHelp("u/w", "Toggle unfold"),
		),

		Past: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "Back one execution"),
		),
		Future: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "Forward one execution"),
		),
		MorePast: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Back ten executions"),
		),
		MoreFuture: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "Forward ten executions"),
		),
		Oldest: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Oldest execution"),
		),
		Current: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Latest execution"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search output"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Previous match"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TimeMachine, k.Suspend, k.Diff, k.Search, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TimeMachine, k.Suspend, k.Bell},
		{k.Past, k.Future, k.MorePast, k.MoreFuture, k.Oldest, k.Current},
		{k.Diff, k.DeletionDiff, k.Title, k.Unfold},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.Search, k.NextMatch, k.PrevMatch, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

var helpGroupTitles = []string{"Execution", "Time machine", "Display", "Scrolling", "Search", "General"}
