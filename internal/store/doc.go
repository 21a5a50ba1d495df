// Package store provides the append-only execution history behind timewatch.
//
// # Overview
//
// Every time the watched command finishes, the runner appends one Record:
// start and end timestamps, raw stdout and stderr, the exit code, the diff
// counts against the previous record and the id of that previous record.
// Records are never mutated or removed. The UI reads them back to render the
// current output and to scrub through past snapshots ("time machine").
//
// The store also remembers the latest RuntimeConfig (interval and command)
// so a saved history can be replayed with `timewatch --load FILE` without
// repeating the original command line.
//
// # Backends
//
// Store is an interface with two implementations, chosen once at startup:
//
//   - MemoryStore: map keyed by id plus a latest pointer, guarded by a
//     sync.RWMutex. Used with --disable_auto_save.
//   - SQLiteStore: a single SQLite file accessed through sqlx and the
//     pure-Go modernc.org/sqlite driver. All operations are serialized on
//     one mutex and one connection; concurrent callers block.
//
// # Schema
//
//	record(id INTEGER PRIMARY KEY, start_time TEXT, stdout BLOB, stderr BLOB,
//	       end_time TEXT, exit_code INTEGER, diff_add INTEGER NULL,
//	       diff_delete INTEGER NULL, previous_id INTEGER NULL)
//	runtime_config(interval INTEGER, command TEXT)
//
// Timestamps are stored as UTC RFC 3339 strings (with fractional seconds)
// and returned in the local zone. The interval is stored in milliseconds and
// the command as a JSON array. runtime_config is append-only; the row with
// the highest ROWID wins.
//
// # Record Chain
//
// PreviousID links each record to the one that was latest when it was
// produced, forming a backward singly-linked list by id. The list survives
// restarts because it is stored as plain ids rather than pointers.
//
// # Error Handling
//
// Missing records are reported through the boolean result, never as an
// error. Any I/O failure is returned wrapped; the runner treats write
// failures as fatal because continuing would silently lose history.
// Opening a file without the schema in ModeOpen returns ErrNotInitialized.
package store
