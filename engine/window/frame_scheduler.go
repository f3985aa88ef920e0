package window

import (
	"sync"
	"time"
)

// FrameCallback is invoked with the time the frame started.
type FrameCallback func(now time.Time)

// FrameScheduler holds at most one pending frame callback. The window loop runs it once per
// iteration; a callback that requests the next frame is therefore never re-entered and the
// pending set never grows.
type FrameScheduler struct {
	mu      sync.Mutex
	pending FrameCallback
	ran     uint64
}

// RequestFrame schedules cb for the next frame. A callback already pending is replaced.
//
// Parameters:
//   - cb: the callback, nil cancels the pending one
func (s *FrameScheduler) RequestFrame(cb FrameCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = cb
}

// Pending reports whether a callback is waiting to run.
//
// Returns:
//   - bool: true if a callback is pending
func (s *FrameScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Frames returns the number of callbacks run so far.
//
// Returns:
//   - uint64: the run count
func (s *FrameScheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// RunFrame takes the pending callback and invokes it outside the lock. Callbacks requested while
// it runs wait for the next RunFrame.
//
// Parameters:
//   - now: the frame time passed to the callback
//
// Returns:
//   - bool: true if a callback ran
func (s *FrameScheduler) RunFrame(now time.Time) bool {
	s.mu.Lock()
	cb := s.pending
	s.pending = nil
	if cb != nil {
		s.ran++
	}
	s.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(now)
	return true
}
