package runner

import (
	"time"

	"github.com/five82/timewatch/internal/store"
)

// Event is a notification from the run loop to its consumer. Events are
// delivered in the order they happen.
type Event interface {
	event()
}

// Started is sent right before the command is spawned.
type Started struct {
	ID        store.ExecutionID
	StartTime time.Time
}

// ChangeDetected is sent when the output differs from the previous record.
// It always precedes the Finished event of the same execution.
type ChangeDetected struct {
	ID store.ExecutionID
}

// Finished is sent after the record has been stored.
type Finished struct {
	ID        store.ExecutionID
	StartTime time.Time
	EndTime   time.Time
	Diff      *store.DiffStat
	ExitCode  int
}

func (Started) event()        {}
func (ChangeDetected) event() {}
func (Finished) event()       {}
