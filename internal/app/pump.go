package app

import (
	"context"

	"github.com/five82/timewatch/internal/runner"
	"github.com/five82/timewatch/internal/state"
)

// StartPump launches a background goroutine that applies runner events to
// the timeline and then forwards them to the UI. It returns immediately; out
// is closed once events is closed or ctx is cancelled.
func StartPump(ctx context.Context, events <-chan runner.Event, timeline *state.Timeline, out chan<- runner.Event) {
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				apply(timeline, ev)
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func apply(timeline *state.Timeline, ev runner.Event) {
	switch ev := ev.(type) {
	case runner.Started:
		timeline.Start(ev.ID, ev.StartTime)
	case runner.Finished:
		timeline.Finish(ev.ID, ev.StartTime, ev.Diff, ev.ExitCode)
	}
}
