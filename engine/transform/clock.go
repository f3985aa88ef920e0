package transform

import (
	"sync"
	"time"
)

// Clock remembers the last observed timestamp and reports the time elapsed since it.
// It never tracks absolute scene time.
type Clock struct {
	mu   sync.Mutex
	last time.Time
}

// NewClock creates a Clock whose first Tick measures from start.
func NewClock(start time.Time) *Clock {
	return &Clock{last: start}
}

// Tick records now and returns the time elapsed since the previous observation. A timestamp
// earlier than the previous one yields 0.
func (c *Clock) Tick(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	delta := now.Sub(c.last)
	c.last = now
	return max(delta, 0)
}
