// Package state provides the thread-safe history index shared by the event
// pump and the UI.
//
// # Overview
//
// Timeline mirrors the executions the runner reports: one Item per visible
// execution, with its start time, running flag, diff counts and exit code.
// It does not hold output; the UI fetches bytes from the store for whichever
// id Timeline selects.
//
//	Runner events / stored records       UI
//	┌──────────────────────┐            ┌──────────────────────┐
//	│ Start(id, t)         │            │                      │
//	│ Finish(id, t, diff)  │───────────→│ Snapshot()           │
//	│ Replay(records)      │  (RWMutex) │ Selected()           │
//	└──────────────────────┘            └──────────────────────┘
//
// # Skipping Empty Diffs
//
// With skipEmptyDiffs, Start is ignored and an execution that finished with
// a zero diff increments the Repeats counter of the newest visible entry
// instead of adding a row. Executions with no previous record (nil diff)
// are always shown.
//
// # Time Machine
//
// Outside time machine mode Selected follows the latest finished execution.
// SetTimeMachine(true) pins the cursor to it; Past, Future, Oldest and
// Current then move the cursor, clamped to finished entries. New results
// do not move a pinned cursor.
//
// # Snapshots
//
// Snapshot returns items newest first with diffs copied, so callers can
// render without holding the lock. The zero value is not usable; construct
// with NewTimeline.
package state
