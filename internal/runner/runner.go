package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/timewatch/internal/diff"
	"github.com/five82/timewatch/internal/store"
)

// Mode selects how the delay between executions is computed.
type Mode int

const (
	// ModeFixed sleeps the full interval after every execution.
	ModeFixed Mode = iota
	// ModePrecise starts executions one interval apart, subtracting the time
	// the command took.
	ModePrecise
)

func (m Mode) String() string {
	if m == ModePrecise {
		return "precise"
	}
	return "fixed"
}

// NextDelay returns how long to wait before the next execution.
func NextDelay(mode Mode, interval, elapsed time.Duration) time.Duration {
	if mode != ModePrecise {
		return interval
	}
	return max(0, interval-elapsed)
}

// Options configure a Runner.
type Options struct {
	Store     store.Store
	Config    store.RuntimeConfig
	Shell     *Shell // nil runs the command directly
	Mode      Mode
	Suspender *Suspender
	Events    chan<- Event // nil discards events

	Executor Executor
	TermSize TermSize
	Logger   *slog.Logger
}

// Runner executes the watched command on a schedule and appends every result
// to the store.
type Runner struct {
	store     store.Store
	cfg       store.RuntimeConfig
	shell     *Shell
	mode      Mode
	suspender *Suspender
	events    chan<- Event
	exec      Executor
	termSize  TermSize
	logger    *slog.Logger
	now       func() time.Time
}

// New validates opts and returns a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Store == nil {
		return nil, errors.New("runner: store required")
	}
	if len(opts.Config.Command) == 0 {
		return nil, errors.New("runner: command required")
	}
	if opts.Config.Interval <= 0 {
		return nil, fmt.Errorf("runner: invalid interval %v", opts.Config.Interval)
	}
	if opts.Shell != nil && opts.Shell.Program == "" {
		return nil, errors.New("runner: shell program required")
	}

	r := &Runner{
		store:     opts.Store,
		cfg:       opts.Config,
		shell:     opts.Shell,
		mode:      opts.Mode,
		suspender: opts.Suspender,
		events:    opts.Events,
		exec:      opts.Executor,
		termSize:  opts.TermSize,
		logger:    opts.Logger,
		now:       time.Now,
	}
	if r.suspender == nil {
		r.suspender = &Suspender{}
	}
	if r.exec == nil {
		r.exec = Exec
	}
	if r.termSize == nil {
		r.termSize = StdoutSize
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Suspender returns the pause flag checked before every execution.
func (r *Runner) Suspender() *Suspender {
	return r.suspender
}

// Run executes the command until ctx is cancelled, which returns nil. A store
// failure stops the loop and is returned.
func (r *Runner) Run(ctx context.Context) error {
	next, err := r.firstID(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("runner started",
		"command", r.cfg.Command,
		"interval", r.cfg.Interval,
		"mode", r.mode.String(),
		"first_id", int64(next),
	)

	for {
		if err := r.suspender.Wait(ctx); err != nil {
			return nil
		}

		ok, err := r.tick(ctx, next)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if ok {
			next++
		}
	}
}

func (r *Runner) firstID(ctx context.Context) (store.ExecutionID, error) {
	latest, ok, err := r.store.LatestID(ctx)
	if err != nil {
		return 0, fmt.Errorf("read latest record id: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return latest + 1, nil
}

// tick runs one execution. It reports whether a record was stored.
func (r *Runner) tick(ctx context.Context, id store.ExecutionID) (bool, error) {
	start := r.now()
	if !r.emit(ctx, Started{ID: id, StartTime: start}) {
		return false, nil
	}

	out, err := r.exec(ctx, buildCommand(r.cfg.Command, r.shell, r.termSize))
	if ctx.Err() != nil {
		return false, nil
	}
	if err != nil {
		r.logger.Warn("command execution failed",
			"id", int64(id),
			"command", r.cfg.Command,
			"error", err,
		)
		sleep(ctx, r.cfg.Interval)
		return false, nil
	}
	end := r.now()

	rec := store.Record{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Stdout:    out.Stdout,
		Stderr:    out.Stderr,
		ExitCode:  out.ExitCode,
	}

	latest, hasLatest, err := r.store.LatestID(ctx)
	if err != nil {
		return false, fmt.Errorf("read latest record id: %w", err)
	}
	if hasLatest {
		prev, found, err := r.store.Record(ctx, latest)
		if err != nil {
			return false, fmt.Errorf("read record %s: %w", latest, err)
		}
		if found {
			stat := diff.Count(string(prev.Stdout), string(out.Stdout))
			rec.Diff = &store.DiffStat{Added: stat.Added, Deleted: stat.Deleted}
		}
		rec.PreviousID = &latest
	}

	if rec.Diff != nil && !rec.Diff.IsZero() {
		if !r.emit(ctx, ChangeDetected{ID: id}) {
			return false, nil
		}
	}

	if err := r.store.AddRecord(ctx, rec); err != nil {
		return false, fmt.Errorf("store record %s: %w", id, err)
	}
	r.logger.Debug("execution recorded",
		"id", int64(id),
		"exit_code", rec.ExitCode,
		"elapsed", end.Sub(start),
	)

	r.emit(ctx, Finished{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Diff:      rec.Diff,
		ExitCode:  rec.ExitCode,
	})

	sleep(ctx, NextDelay(r.mode, r.cfg.Interval, r.now().Sub(start)))
	return true, nil
}

// emit delivers ev, blocking until the consumer receives it. It returns false
// when ctx is done first.
func (r *Runner) emit(ctx context.Context, ev Event) bool {
	if r.events == nil {
		return ctx.Err() == nil
	}
	select {
	case r.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
