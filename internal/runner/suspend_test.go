package runner

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSuspender_ZeroValueIsRunning(t *testing.T) {
	var s Suspender
	if s.Suspended() {
		t.Fatal("Suspended() = true, want false")
	}
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait = %v, want nil", err)
	}
}

func TestSuspender_Toggle(t *testing.T) {
	var s Suspender
	if got := s.Toggle(); !got {
		t.Fatal("Toggle() = false, want true")
	}
	if got := s.Toggle(); got {
		t.Fatal("Toggle() = true, want false")
	}
	s.Set(false)
	if s.Suspended() {
		t.Fatal("Set(false) twice left the flag set")
	}
}

func TestSuspender_WaitUnblocksOnResume(t *testing.T) {
	var s Suspender
	s.Set(true)

	done := make(chan error, 1)
	go func() { done <- s.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned while suspended")
	case <-time.After(20 * time.Millisecond):
	}

	s.Set(false)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after resume")
	}
}

func TestSuspender_WaitHonoursContext(t *testing.T) {
	var s Suspender
	s.Set(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait = %v, want context.Canceled", err)
	}
}
