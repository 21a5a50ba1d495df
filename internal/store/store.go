package store

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ExecutionID identifies one Record within a history.
type ExecutionID int64

func (id ExecutionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// DiffStat is the number of characters added and deleted relative to the
// previous record.
type DiffStat struct {
	Added   int
	Deleted int
}

// IsZero reports whether the output was unchanged.
func (d DiffStat) IsZero() bool {
	return d.Added == 0 && d.Deleted == 0
}

// Record is one immutable execution result.
type Record struct {
	ID        ExecutionID
	StartTime time.Time
	EndTime   time.Time
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
	// Diff is nil for the first record of a history.
	Diff *DiffStat
	// PreviousID is the record that was latest when this one was produced.
	PreviousID *ExecutionID
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	dup := r
	dup.Stdout = cloneBytes(r.Stdout)
	dup.Stderr = cloneBytes(r.Stderr)
	if r.Diff != nil {
		d := *r.Diff
		dup.Diff = &d
	}
	if r.PreviousID != nil {
		id := *r.PreviousID
		dup.PreviousID = &id
	}
	return dup
}

// RuntimeConfig captures the polling parameters of a session so a saved
// history can be replayed without the original command line.
type RuntimeConfig struct {
	Interval time.Duration
	Command  []string
}

// ErrNotInitialized is returned when opening a database file that does not
// carry the history schema.
var ErrNotInitialized = errors.New("history store not initialized")

// Store is an append-only log of execution records plus the latest runtime
// configuration. Implementations are safe for concurrent use; the pointer
// returned by a constructor is the shared handle.
type Store interface {
	// AddRecord appends a record. Failures are fatal to the run loop.
	AddRecord(ctx context.Context, r Record) error
	// Record looks up a record by id. A missing record is not an error.
	Record(ctx context.Context, id ExecutionID) (Record, bool, error)
	// LatestID returns the id of the most recently added record.
	LatestID(ctx context.Context) (ExecutionID, bool, error)
	// Records returns every record ordered by id.
	Records(ctx context.Context) ([]Record, error)
	// RuntimeConfig returns the most recently written configuration.
	RuntimeConfig(ctx context.Context) (RuntimeConfig, bool, error)
	// SetRuntimeConfig records cfg as the latest configuration.
	SetRuntimeConfig(ctx context.Context, cfg RuntimeConfig) error
	Close() error
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
