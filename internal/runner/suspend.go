package runner

import (
	"context"
	"sync"
)

// Suspender is a pause flag shared between the UI and the run loop. The zero
// value is ready to use and not suspended.
type Suspender struct {
	mu        sync.Mutex
	suspended bool
	resumed   chan struct{}
}

// Suspended reports whether the loop is paused.
func (s *Suspender) Suspended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspended
}

// Set pauses or resumes the loop.
func (s *Suspender) Set(suspended bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(suspended)
}

// Toggle flips the flag and returns the new value.
func (s *Suspender) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(!s.suspended)
	return s.suspended
}

func (s *Suspender) setLocked(suspended bool) {
	if s.suspended == suspended {
		return
	}
	s.suspended = suspended
	if suspended {
		s.resumed = make(chan struct{})
		return
	}
	close(s.resumed)
	s.resumed = nil
}

// Wait blocks until the flag is cleared or ctx is done.
func (s *Suspender) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if !s.suspended {
			s.mu.Unlock()
			return nil
		}
		resumed := s.resumed
		s.mu.Unlock()

		select {
		case <-resumed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
