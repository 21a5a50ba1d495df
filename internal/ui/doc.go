// Package ui provides the Bubble Tea interface for timewatch.
//
// # Overview
//
// The screen has three parts: a title line, the result pane with a history
// column on its right, and a footer with key help or the search prompt.
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Every 2s: date             TIME MACHINE  2024-05-06 07:08│  header.go
//	├───────────────────────────────────────────┬──────────────┤
//	│ decoded output, diff and search highlight │ History      │  result.go
//	│                                           │ 07:08:09 +3 -1│  history.go
//	├───────────────────────────────────────────┴──────────────┤
//	│ space time machine • s suspend • d diff • / search       │  help.go
//	└──────────────────────────────────────────────────────────┘
//
// # Data Flow
//
// The composition root applies runner events to a state.Timeline and
// forwards them on a channel. The model waits on that channel, re-reads the
// timeline snapshot, and loads the selected execution (plus the one before
// it) from the store in a command. Loads that finish after the selection
// moved on are dropped.
//
// # Result Composition
//
// compose turns a stored record into styled text:
//
//  1. Decode stdout. If stdout is empty, decode stderr and paint it with the
//     stderr style instead; no diff is applied.
//  2. With a diff mode and a previous record, mark insertions in the current
//     output (add) or deletions in the previous output, which is then shown
//     instead (delete).
//  3. Mark every search match last, so matches stay visible inside diffs.
//
// # Keys
//
// See keys.go. Time machine keys only move the cursor while time machine
// mode is on. Diff, fold, title and theme choices are saved to the prefs
// file as they change.
package ui
