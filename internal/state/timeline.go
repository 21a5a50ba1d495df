package state

import (
	"sync"
	"time"

	"github.com/five82/timewatch/internal/store"
)

// Item is one entry of the history column.
type Item struct {
	ID        store.ExecutionID
	StartTime time.Time
	Running   bool
	Diff      *store.DiffStat
	ExitCode  int
	// Repeats counts unchanged executions folded into this entry when empty
	// diffs are skipped.
	Repeats int
}

// Snapshot is an immutable view of the timeline. Items are newest first.
type Snapshot struct {
	Items       []Item
	TimeMachine bool
	// Selected indexes Items; -1 when nothing can be shown yet.
	Selected int
}

// SelectedItem returns the item the result pane should show.
func (s Snapshot) SelectedItem() (Item, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Items) {
		return Item{}, false
	}
	return s.Items[s.Selected], true
}

// Timeline indexes executions for the UI. It is fed by runner events (or a
// replay of stored records) and tracks the time machine cursor.
type Timeline struct {
	mu        sync.RWMutex
	skipEmpty bool

	items []Item // oldest first
	index map[store.ExecutionID]int

	timeMachine bool
	selected    store.ExecutionID
	hasSelected bool
}

// NewTimeline returns an empty timeline. With skipEmptyDiffs, executions whose
// output did not change are folded into the previous visible entry.
func NewTimeline(skipEmptyDiffs bool) *Timeline {
	return &Timeline{skipEmpty: skipEmptyDiffs, index: make(map[store.ExecutionID]int)}
}

// Start records that an execution began.
func (t *Timeline) Start(id store.ExecutionID, startTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.skipEmpty {
		return
	}
	if i, ok := t.index[id]; ok {
		t.items[i].StartTime = startTime
		t.items[i].Running = true
		return
	}
	t.appendLocked(Item{ID: id, StartTime: startTime, Running: true})
}

// Finish records the result of an execution. It returns false when the
// execution was folded into an existing entry.
func (t *Timeline) Finish(id store.ExecutionID, startTime time.Time, diff *store.DiffStat, exitCode int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.skipEmpty && diff != nil && diff.IsZero() && len(t.items) > 0 {
		t.items[len(t.items)-1].Repeats++
		return false
	}

	i, ok := t.index[id]
	if !ok {
		t.appendLocked(Item{ID: id, StartTime: startTime})
		i = len(t.items) - 1
	}
	item := &t.items[i]
	item.Running = false
	item.Diff = cloneDiff(diff)
	item.ExitCode = exitCode

	if t.timeMachine && !t.hasSelected {
		t.selected, t.hasSelected = id, true
	}
	return true
}

// Replay loads stored records in id order.
func (t *Timeline) Replay(records []store.Record) {
	for _, r := range records {
		t.Start(r.ID, r.StartTime)
		t.Finish(r.ID, r.StartTime, r.Diff, r.ExitCode)
	}
}

func (t *Timeline) appendLocked(item Item) {
	t.items = append(t.items, item)
	t.index[item.ID] = len(t.items) - 1
}

// TimeMachine reports whether the cursor is detached from the latest result.
func (t *Timeline) TimeMachine() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.timeMachine
}

// SetTimeMachine enters or leaves time machine mode. Entering selects the
// latest finished execution.
func (t *Timeline) SetTimeMachine(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.timeMachine = on
	t.hasSelected = false
	if on {
		if pos, ok := t.latestFinishedLocked(); ok {
			t.selected, t.hasSelected = t.items[pos].ID, true
		}
	}
}

// Selected returns the execution to display: the cursor in time machine mode,
// the latest finished execution otherwise.
func (t *Timeline) Selected() (store.ExecutionID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selectedLocked()
}

func (t *Timeline) selectedLocked() (store.ExecutionID, bool) {
	if t.timeMachine {
		return t.selected, t.hasSelected
	}
	pos, ok := t.latestFinishedLocked()
	if !ok {
		return 0, false
	}
	return t.items[pos].ID, true
}

// Past moves the cursor n entries back in time.
func (t *Timeline) Past(n int) (store.ExecutionID, bool) {
	return t.move(func(pos int) int { return pos - n })
}

// Future moves the cursor n entries forward in time.
func (t *Timeline) Future(n int) (store.ExecutionID, bool) {
	return t.move(func(pos int) int { return pos + n })
}

// Oldest moves the cursor to the first execution.
func (t *Timeline) Oldest() (store.ExecutionID, bool) {
	return t.move(func(int) int { return 0 })
}

// Current moves the cursor to the latest finished execution.
func (t *Timeline) Current() (store.ExecutionID, bool) {
	return t.move(func(int) int { return len(t.items) })
}

// move repositions the cursor in time machine mode. Positions are clamped to
// finished entries. It reports whether the selection changed.
func (t *Timeline) move(target func(pos int) int) (store.ExecutionID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.timeMachine || !t.hasSelected {
		return t.selected, false
	}
	cur, ok := t.index[t.selected]
	if !ok {
		return t.selected, false
	}
	last, ok := t.latestFinishedLocked()
	if !ok {
		return t.selected, false
	}
	pos := min(max(target(cur), 0), last)
	for pos > 0 && t.items[pos].Running {
		pos--
	}
	if t.items[pos].Running || pos == cur {
		return t.selected, false
	}
	t.selected = t.items[pos].ID
	return t.selected, true
}

func (t *Timeline) latestFinishedLocked() (int, bool) {
	for i := len(t.items) - 1; i >= 0; i-- {
		if !t.items[i].Running {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of visible entries.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Snapshot returns a copy of the timeline, newest entry first.
func (t *Timeline) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		Items:       make([]Item, len(t.items)),
		TimeMachine: t.timeMachine,
		Selected:    -1,
	}
	for i, item := range t.items {
		item.Diff = cloneDiff(item.Diff)
		snap.Items[len(t.items)-1-i] = item
	}
	if id, ok := t.selectedLocked(); ok {
		if pos, ok := t.index[id]; ok {
			snap.Selected = len(t.items) - 1 - pos
		}
	}
	return snap
}

// IDs returns the visible execution ids, oldest first.
func (t *Timeline) IDs() []store.ExecutionID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]store.ExecutionID, len(t.items))
	for i, item := range t.items {
		ids[i] = item.ID
	}
	return ids
}

func cloneDiff(d *store.DiffStat) *store.DiffStat {
	if d == nil {
		return nil
	}
	dup := *d
	return &dup
}
