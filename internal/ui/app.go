package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/timewatch/internal/config"
	"github.com/five82/timewatch/internal/prefs"
	"github.com/five82/timewatch/internal/runner"
	"github.com/five82/timewatch/internal/state"
	"github.com/five82/timewatch/internal/store"
)

const (
	historyWidth    = 24
	minHistoryWidth = 60 // terminal width below which the history column is hidden
)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Store    store.Store
	Timeline *state.Timeline
	// Events delivers runner events after they were applied to Timeline.
	// Nil when no runner is active.
	Events <-chan runner.Event
	// Suspender pauses the runner. Nil when no runner is active.
	Suspender *runner.Suspender
	// ReadOnly browses a loaded history; the time machine cannot be left.
	ReadOnly bool

	Interval time.Duration
	Command  []string
	Styles   config.Styles
	Bell     bool
	// BellOut receives the terminal bell. Defaults to os.Stdout.
	BellOut io.Writer

	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     store.Store
	timeline  *state.Timeline
	events    <-chan runner.Event
	suspender *runner.Suspender
	readOnly  bool
	interval  time.Duration
	command   []string
	styles    config.Styles
	bellOut   io.Writer
	prefsPath string
	logger    *slog.Logger

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	prefs    prefs.Prefs
	bell     bool
	width    int
	height   int
	ready    bool
	showHelp bool
	now      time.Time

	// Data state
	snapshot state.Snapshot
	shown    store.ExecutionID
	hasShown bool
	current  *store.Record
	previous *store.Record
	result   result

	// Result pane
	viewport viewport.Model

	// Search
	searching   bool
	searchInput textinput.Model
	query       string
	matchIdx    int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	bellOut := opts.BellOut
	if bellOut == nil {
		bellOut = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = prefs.Default().Theme
	}
	if p.DiffMode == "" {
		p.DiffMode = prefs.DiffOff
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "Search output..."
	ti.CharLimit = 200

	keys := DefaultKeyMap()
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		Up:           keys.Up,
		Down:         keys.Down,
		PageUp:       keys.PageUp,
		PageDown:     keys.PageDown,
		HalfPageUp:   keys.HalfPageUp,
		HalfPageDown: keys.HalfPageDown,
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		timeline:    opts.Timeline,
		events:      opts.Events,
		suspender:   opts.Suspender,
		readOnly:    opts.ReadOnly,
		interval:    opts.Interval,
		command:     opts.Command,
		styles:      opts.Styles,
		bellOut:     bellOut,
		prefsPath:   opts.PrefsPath,
		logger:      logger,
		theme:       GetTheme(p.Theme),
		keys:        keys,
		help:        help.New(),
		prefs:       p,
		bell:        opts.Bell,
		now:         time.Now(),
		viewport:    vp,
		searchInput: ti,
	}
	if m.readOnly && m.timeline != nil && !m.timeline.TimeMachine() {
		m.timeline.SetTimeMachine(true)
	}
	if m.timeline != nil {
		m.snapshot = m.timeline.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(time.Second)}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	if cmd := m.syncSelection(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshContent()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd(time.Second)

	case eventMsg:
		return m.handleEvent(msg.event)

	case eventsClosedMsg:
		return m, tea.Quit

	case recordMsg:
		m.handleRecord(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	if !m.prefs.NoTitle {
		b.WriteString(m.renderHeader())
		b.WriteString("\n")
	}

	body := m.viewport.View()
	if w := m.historyColumnWidth(); w > 0 {
		h := m.viewport.Height
		sep := m.theme.Styles().Separator.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sep, m.renderHistory(w, h))
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) handleEvent(ev runner.Event) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	if _, ok := ev.(runner.ChangeDetected); ok && m.bell {
		cmds = append(cmds, ringBell(m.bellOut))
	}
	m.snapshot = m.timeline.Snapshot()
	if cmd := m.syncSelection(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleRecord(msg recordMsg) {
	if !m.hasShown || msg.id != m.shown {
		return // stale
	}
	if msg.err != nil {
		m.logger.Warn("load execution failed", "id", msg.id, "error", msg.err)
		return
	}
	if !msg.found {
		return
	}
	cur := msg.current
	m.current = &cur
	m.previous = msg.previous
	m.refreshContent()
}

// syncSelection loads the execution the timeline selects when it differs
// from the one on screen.
func (m *Model) syncSelection() tea.Cmd {
	if m.timeline == nil || m.store == nil {
		return nil
	}
	id, ok := m.timeline.Selected()
	if !ok || (m.hasShown && id == m.shown) {
		return nil
	}
	m.shown, m.hasShown = id, true
	return loadRecordCmd(m.ctx, m.store, id)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.TimeMachine):
		if m.readOnly || m.timeline == nil {
			return m, nil
		}
		m.timeline.SetTimeMachine(!m.timeline.TimeMachine())
		m.snapshot = m.timeline.Snapshot()
		return m, m.syncSelection()

	case key.Matches(msg, m.keys.Suspend):
		if m.suspender != nil {
			m.suspender.Toggle()
		}
		return m, nil

	case key.Matches(msg, m.keys.Bell):
		m.bell = !m.bell
		return m, nil

	case key.Matches(msg, m.keys.Diff):
		m.prefs.DiffMode = toggleDiff(m.prefs.DiffMode, prefs.DiffAdd)
		m.savePrefs()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.DeletionDiff):
		m.prefs.DiffMode = toggleDiff(m.prefs.DiffMode, prefs.DiffDelete)
		m.savePrefs()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Title):
		m.prefs.NoTitle = !m.prefs.NoTitle
		m.savePrefs()
		m.layout()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Unfold):
		m.prefs.Unfold = !m.prefs.Unfold
		m.savePrefs()
		m.refreshContent()
		return m, nil

	case key.Matches(msg, m.keys.Past):
		return m.travel(func(t *state.Timeline) (store.ExecutionID, bool) { return t.Past(1) })
	case key.Matches(msg, m.keys.Future):
		return m.travel(func(t *state.Timeline) (store.ExecutionID, bool) { return t.Future(1) })
	case key.Matches(msg, m.keys.MorePast):
		return m.travel(func(t *state.Timeline) (store.ExecutionID, bool) { return t.Past(10) })
	case key.Matches(msg, m.keys.MoreFuture):
		return m.travel(func(t *state.Timeline) (store.ExecutionID, bool) { return t.Future(10) })
	case key.Matches(msg, m.keys.Oldest):
		return m.travel((*state.Timeline).Oldest)
	case key.Matches(msg, m.keys.Current):
		return m.travel((*state.Timeline).Current)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.stepMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.stepMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.query = ""
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// travel moves the time machine cursor and loads the newly selected
// execution.
func (m Model) travel(move func(*state.Timeline) (store.ExecutionID, bool)) (tea.Model, tea.Cmd) {
	if m.timeline == nil {
		return m, nil
	}
	if _, moved := move(m.timeline); !moved {
		return m, nil
	}
	m.snapshot = m.timeline.Snapshot()
	return m, m.syncSelection()
}

// toggleDiff switches to target, or off when target is already active.
func toggleDiff(current, target string) string {
	if current == target {
		return prefs.DiffOff
	}
	return target
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// layout sizes the result pane from the window and title visibility.
func (m *Model) layout() {
	headerHeight := 1
	if m.prefs.NoTitle {
		headerHeight = 0
	}
	footerHeight := 1

	width := m.width
	if w := m.historyColumnWidth(); w > 0 {
		width -= w + 1
	}
	m.viewport.Width = max(width, 1)
	m.viewport.Height = max(m.height-headerHeight-footerHeight, 1)
	m.help.Width = m.width
}

func (m Model) historyColumnWidth() int {
	if m.width < minHistoryWidth {
		return 0
	}
	return historyWidth
}

// refreshContent recomposes the shown execution and updates the pane.
func (m *Model) refreshContent() {
	if m.current == nil {
		m.result = result{}
		m.viewport.SetContent(m.theme.Styles().MutedText.Render("Waiting for the first result..."))
		return
	}
	m.result = compose(*m.current, m.previous, composeOptions{
		DiffMode: m.prefs.DiffMode,
		Query:    m.query,
		Styles:   m.styles,
	})
	if m.matchIdx >= len(m.result.Matches) {
		m.matchIdx = 0
	}
	m.viewport.SetContent(renderText(m.result.Text, m.viewport.Width, m.prefs.Unfold))
}

// Messages

type tickMsg time.Time

type eventMsg struct{ event runner.Event }

type eventsClosedMsg struct{}

type recordMsg struct {
	id       store.ExecutionID
	current  store.Record
	previous *store.Record
	found    bool
	err      error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(events <-chan runner.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

func loadRecordCmd(ctx context.Context, st store.Store, id store.ExecutionID) tea.Cmd {
	return func() tea.Msg {
		msg := recordMsg{id: id}
		cur, ok, err := st.Record(ctx, id)
		if err != nil || !ok {
			msg.err = err
			return msg
		}
		msg.current, msg.found = cur, true
		if cur.PreviousID == nil {
			return msg
		}
		prev, ok, err := st.Record(ctx, *cur.PreviousID)
		if err != nil {
			msg.err = err
			return msg
		}
		if ok {
			msg.previous = &prev
		}
		return msg
	}
}

func ringBell(w io.Writer) tea.Cmd {
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	p := tea.NewProgram(New(opts), tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
