package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/timewatch/internal/store"
)

type scriptedExec struct {
	mu      sync.Mutex
	outputs []string
	fails   map[int]bool
	calls   []Command
}

func (s *scriptedExec) exec(_ context.Context, cmd Command) (Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.calls)
	s.calls = append(s.calls, cmd)
	if s.fails[n] {
		return Output{}, errors.New("spawn failed")
	}
	out := s.outputs[len(s.outputs)-1]
	if n < len(s.outputs) {
		out = s.outputs[n]
	}
	return Output{Stdout: []byte(out), Stderr: []byte("err"), ExitCode: n % 2}, nil
}

func newTestRunner(t *testing.T, st store.Store, ex *scriptedExec, events chan Event) *Runner {
	t.Helper()
	r, err := New(Options{
		Store:    st,
		Config:   store.RuntimeConfig{Interval: time.Millisecond, Command: []string{"echo", "hi"}},
		Events:   events,
		Executor: ex.exec,
		TermSize: func() (int, int) { return 120, 40 },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// collect runs r until n Finished events arrive and returns everything seen.
func collect(t *testing.T, r *Runner, events chan Event, n int) []Event {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	var got []Event
	finished := 0
	timeout := time.After(5 * time.Second)
	for finished < n {
		select {
		case ev := <-events:
			got = append(got, ev)
			if _, ok := ev.(Finished); ok {
				finished++
			}
		case err := <-done:
			t.Fatalf("Run returned early: %v", err)
		case <-timeout:
			t.Fatalf("timed out after %d finished events", finished)
		}
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run after cancel = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	return got
}

func TestRunner_RecordsChainAndDiffs(t *testing.T) {
	st := store.NewMemoryStore()
	ex := &scriptedExec{outputs: []string{"hello world", "hello world!", "hello world!"}}
	events := make(chan Event)
	r := newTestRunner(t, st, ex, events)

	got := collect(t, r, events, 3)

	var kinds []string
	for _, ev := range got {
		switch e := ev.(type) {
		case Started:
			kinds = append(kinds, "start:"+e.ID.String())
		case ChangeDetected:
			kinds = append(kinds, "change:"+e.ID.String())
		case Finished:
			kinds = append(kinds, "finish:"+e.ID.String())
		}
	}
	want := []string{
		"start:0", "finish:0",
		"start:1", "change:1", "finish:1",
		"start:2", "finish:2",
	}
	if !reflect.DeepEqual(kinds[:len(want)], want) {
		t.Fatalf("events = %v, want prefix %v", kinds, want)
	}

	ctx := context.Background()
	first, ok, _ := st.Record(ctx, 0)
	if !ok || first.Diff != nil || first.PreviousID != nil {
		t.Fatalf("record 0 = %+v, want no diff and no previous", first)
	}
	second, _, _ := st.Record(ctx, 1)
	if second.Diff == nil || *second.Diff != (store.DiffStat{Added: 1}) {
		t.Fatalf("record 1 diff = %v, want +1 -0", second.Diff)
	}
	if second.PreviousID == nil || *second.PreviousID != 0 {
		t.Fatalf("record 1 previous = %v, want 0", second.PreviousID)
	}
	if second.ExitCode != 1 || string(second.Stderr) != "err" {
		t.Fatalf("record 1 exit=%d stderr=%q, want 1 and err", second.ExitCode, second.Stderr)
	}
	third, _, _ := st.Record(ctx, 2)
	if third.Diff == nil || !third.Diff.IsZero() {
		t.Fatalf("record 2 diff = %v, want zero", third.Diff)
	}
	if second.StartTime.Before(first.StartTime) {
		t.Fatalf("start times not monotonic: %v then %v", first.StartTime, second.StartTime)
	}

	finished := got[len(got)-1].(Finished)
	if finished.EndTime.Before(finished.StartTime) {
		t.Fatalf("Finished end %v before start %v", finished.EndTime, finished.StartTime)
	}
}

func TestRunner_PassesTerminalSizeAndShell(t *testing.T) {
	st := store.NewMemoryStore()
	ex := &scriptedExec{outputs: []string{"x"}}
	events := make(chan Event, 16)
	r := newTestRunner(t, st, ex, events)
	r.shell = &Shell{Program: "bash", Options: []string{"-o", "pipefail"}}

	collect(t, r, events, 1)

	ex.mu.Lock()
	call := ex.calls[0]
	ex.mu.Unlock()
	wantEnv := []string{"COLUMNS=120", "LINES=40"}
	if !reflect.DeepEqual(call.Env, wantEnv) {
		t.Fatalf("Env = %v, want %v", call.Env, wantEnv)
	}
	if call.Program == "cmd" {
		t.Skip("windows routes through cmd /C")
	}
	wantArgs := []string{"-o", "pipefail", "-c", "echo hi"}
	if call.Program != "bash" || !reflect.DeepEqual(call.Args, wantArgs) {
		t.Fatalf("command = %s %v, want bash %v", call.Program, call.Args, wantArgs)
	}
}

func TestRunner_SpawnFailureSkipsRecord(t *testing.T) {
	st := store.NewMemoryStore()
	ex := &scriptedExec{outputs: []string{"a", "a", "b"}, fails: map[int]bool{1: true}}
	events := make(chan Event, 64)
	r := newTestRunner(t, st, ex, events)

	collect(t, r, events, 2)

	records, err := st.Records(context.Background())
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("records = %d, want >= 2", len(records))
	}
	if records[1].ID != 1 {
		t.Fatalf("second record id = %v, want 1 (failed spawn consumes no id)", records[1].ID)
	}
	if string(records[1].Stdout) != "b" {
		t.Fatalf("second record stdout = %q, want %q", records[1].Stdout, "b")
	}
}

func TestRunner_ResumesCounterAfterLatest(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	if err := st.AddRecord(ctx, store.Record{ID: 41, Stdout: []byte("old")}); err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	ex := &scriptedExec{outputs: []string{"new"}}
	events := make(chan Event, 16)
	r := newTestRunner(t, st, ex, events)

	got := collect(t, r, events, 1)

	start, ok := got[0].(Started)
	if !ok || start.ID != 42 {
		t.Fatalf("first event = %#v, want Started{ID: 42}", got[0])
	}
	rec, ok, _ := st.Record(ctx, 42)
	if !ok || rec.PreviousID == nil || *rec.PreviousID != 41 {
		t.Fatalf("record 42 = %+v, want previous 41", rec)
	}
	if rec.Diff == nil || rec.Diff.IsZero() {
		t.Fatalf("record 42 diff = %v, want non-zero", rec.Diff)
	}
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) AddRecord(context.Context, store.Record) error {
	return errors.New("disk full")
}

func TestRunner_StoreFailureIsFatal(t *testing.T) {
	st := failingStore{store.NewMemoryStore()}
	ex := &scriptedExec{outputs: []string{"x"}}
	r := newTestRunner(t, st, ex, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := r.Run(ctx)
	if err == nil || ctx.Err() != nil {
		t.Fatalf("Run = %v (ctx %v), want store error", err, ctx.Err())
	}
}

func TestRunner_WaitsWhileSuspended(t *testing.T) {
	st := store.NewMemoryStore()
	ex := &scriptedExec{outputs: []string{"x"}}
	events := make(chan Event, 16)
	r := newTestRunner(t, st, ex, events)
	r.Suspender().Set(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case ev := <-events:
		t.Fatalf("got %#v while suspended", ev)
	case <-time.After(50 * time.Millisecond):
	}

	r.Suspender().Set(false)
	select {
	case ev := <-events:
		if _, ok := ev.(Started); !ok {
			t.Fatalf("first event after resume = %#v, want Started", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not resume")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
}

func TestNew_Validation(t *testing.T) {
	st := store.NewMemoryStore()
	good := store.RuntimeConfig{Interval: time.Second, Command: []string{"date"}}

	tests := []struct {
		name string
		opts Options
	}{
		{"no store", Options{Config: good}},
		{"no command", Options{Store: st, Config: store.RuntimeConfig{Interval: time.Second}}},
		{"zero interval", Options{Store: st, Config: store.RuntimeConfig{Command: []string{"date"}}}},
		{"empty shell", Options{Store: st, Config: good, Shell: &Shell{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Fatalf("New(%s) error = nil, want error", tt.name)
			}
		})
	}
}

func TestNextDelay(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		interval time.Duration
		elapsed  time.Duration
		want     time.Duration
	}{
		{"fixed ignores elapsed", ModeFixed, 2 * time.Second, 1500 * time.Millisecond, 2 * time.Second},
		{"precise subtracts elapsed", ModePrecise, 2 * time.Second, 1500 * time.Millisecond, 500 * time.Millisecond},
		{"precise overrun is zero", ModePrecise, time.Second, 3 * time.Second, 0},
		{"precise exact", ModePrecise, time.Second, time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDelay(tt.mode, tt.interval, tt.elapsed); got != tt.want {
				t.Fatalf("NextDelay(%v, %v, %v) = %v, want %v", tt.mode, tt.interval, tt.elapsed, got, tt.want)
			}
		})
	}
}

// slowExec takes a fixed time per execution and records when each one began.
type slowExec struct {
	mu     sync.Mutex
	took   time.Duration
	starts []time.Time
	done   chan struct{}
	want   int
}

func (s *slowExec) exec(ctx context.Context, _ Command) (Output, error) {
	s.mu.Lock()
	s.starts = append(s.starts, time.Now())
	if len(s.starts) == s.want {
		close(s.done)
	}
	s.mu.Unlock()

	select {
	case <-time.After(s.took):
	case <-ctx.Done():
	}
	return Output{Stdout: []byte("same")}, nil
}

func runGaps(t *testing.T, mode Mode, interval, took time.Duration) []time.Duration {
	t.Helper()
	ex := &slowExec{took: took, done: make(chan struct{}), want: 4}
	r, err := New(Options{
		Store:    store.NewMemoryStore(),
		Config:   store.RuntimeConfig{Interval: interval, Command: []string{"true"}},
		Mode:     mode,
		Executor: ex.exec,
		TermSize: func() (int, int) { return 80, 24 },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	finished := make(chan error, 1)
	go func() { finished <- r.Run(ctx) }()

	select {
	case <-ex.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for executions")
	}
	cancel()
	if err := <-finished; err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}

	ex.mu.Lock()
	defer ex.mu.Unlock()
	gaps := make([]time.Duration, 0, len(ex.starts)-1)
	for i := 1; i < len(ex.starts); i++ {
		gaps = append(gaps, ex.starts[i].Sub(ex.starts[i-1]))
	}
	return gaps
}

func TestRunner_FixedModeWaitsFullIntervalAfterExecution(t *testing.T) {
	const interval, took = 50 * time.Millisecond, 30 * time.Millisecond
	for i, gap := range runGaps(t, ModeFixed, interval, took) {
		if gap < interval+took {
			t.Fatalf("gap[%d] = %v, want at least %v", i, gap, interval+took)
		}
	}
}

func TestRunner_PreciseModeSubtractsExecutionTime(t *testing.T) {
	const interval, took = 50 * time.Millisecond, 30 * time.Millisecond
	gaps := runGaps(t, ModePrecise, interval, took)

	var total time.Duration
	for i, gap := range gaps {
		if gap < interval-5*time.Millisecond {
			t.Fatalf("gap[%d] = %v, want about %v", i, gap, interval)
		}
		total += gap
	}
	if avg := total / time.Duration(len(gaps)); avg >= interval+took {
		t.Fatalf("average gap = %v, want below %v", avg, interval+took)
	}
}
