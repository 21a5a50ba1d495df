package app

import (
	"context"
	"testing"
	"time"

	"github.com/five82/timewatch/internal/runner"
	"github.com/five82/timewatch/internal/state"
	"github.com/five82/timewatch/internal/store"
)

func TestPump_AppliesBeforeForwarding(t *testing.T) {
	events := make(chan runner.Event)
	out := make(chan runner.Event)
	timeline := state.NewTimeline(false)
	StartPump(context.Background(), events, timeline, out)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events <- runner.Started{ID: 0, StartTime: start}
	if ev := <-out; ev != (runner.Started{ID: 0, StartTime: start}) {
		t.Fatalf("forwarded %#v, want Started", ev)
	}
	if snap := timeline.Snapshot(); len(snap.Items) != 1 || !snap.Items[0].Running {
		t.Fatalf("items = %+v, want one running item", snap.Items)
	}

	events <- runner.Finished{ID: 0, StartTime: start, EndTime: start, ExitCode: 3}
	<-out
	if id, ok := timeline.Selected(); !ok || id != 0 {
		t.Fatalf("Selected = %v (%v), want 0", id, ok)
	}

	events <- runner.ChangeDetected{ID: 1}
	if _, ok := (<-out).(runner.ChangeDetected); !ok {
		t.Fatal("ChangeDetected not forwarded")
	}

	close(events)
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("out delivered after events closed")
		}
	case <-time.After(time.Second):
		t.Fatal("out not closed after events closed")
	}
}

func TestPump_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan runner.Event, 1)
	out := make(chan runner.Event)
	StartPump(ctx, events, state.NewTimeline(false), out)

	// Nobody reads out; the pump must still exit.
	events <- runner.Finished{ID: store.ExecutionID(0)}
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			// The send raced the cancel; the channel must close next.
			if _, ok := <-out; ok {
				t.Fatal("out still open after cancel")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("pump did not stop after cancel")
	}
}
