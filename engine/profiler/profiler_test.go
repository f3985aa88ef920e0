package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewProfiler(start, time.Second)

	for i := 1; i < 60; i++ {
		assert.False(t, p.Tick(start.Add(time.Duration(i)*time.Second/60)))
	}
	assert.True(t, p.Tick(start.Add(time.Second)))
	assert.InDelta(t, 60.0, p.FPS(), 1e-9)

	assert.False(t, p.Tick(start.Add(time.Second+time.Millisecond)))
}

func TestDefaultInterval(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewProfiler(start, 0)
	assert.False(t, p.Tick(start.Add(999*time.Millisecond)))
	assert.True(t, p.Tick(start.Add(time.Second)))
	assert.InDelta(t, 2.0, p.FPS(), 1e-9)
}
