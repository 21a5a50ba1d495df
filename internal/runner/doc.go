// Package runner executes the watched command on a schedule and records every
// result in the history store.
//
// # Loop
//
// Run performs one tick after another until its context is cancelled:
//
//  1. Block while the Suspender is set (checked only between ticks).
//  2. Send Started.
//  3. Spawn the command with COLUMNS and LINES set to the terminal size.
//  4. On spawn failure, log and sleep one interval; no record is written and
//     the id is reused by the next tick.
//  5. Count changed characters against the latest stored stdout.
//  6. Send ChangeDetected if anything changed.
//  7. Append the record, linking PreviousID to the prior latest record.
//  8. Send Finished.
//  9. Sleep NextDelay.
//
// Each event send blocks until the consumer receives it or the context ends,
// so events arrive in order. A store error ends Run with that error.
//
// # Modes
//
// ModeFixed sleeps the full interval after each execution. ModePrecise aims
// for a constant period between start times and never sleeps a negative
// duration.
//
// # Commands
//
// With a Shell the command words are joined by spaces and passed after `-c`.
// Without one, the first word is the program. On Windows any shell other
// than pwsh is replaced by `cmd /C`.
package runner
