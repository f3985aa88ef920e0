package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSchedulerRunsOnePendingCallback(t *testing.T) {
	s := &FrameScheduler{}
	assert.False(t, s.RunFrame(time.Now()))

	var calls []string
	s.RequestFrame(func(time.Time) { calls = append(calls, "a") })
	s.RequestFrame(func(time.Time) { calls = append(calls, "b") })
	assert.True(t, s.Pending())

	require.True(t, s.RunFrame(time.Now()))
	assert.Equal(t, []string{"b"}, calls)
	assert.False(t, s.Pending())
	assert.False(t, s.RunFrame(time.Now()))
	assert.Equal(t, uint64(1), s.Frames())
}

func TestFrameSchedulerSelfRescheduleRunsNextIteration(t *testing.T) {
	s := &FrameScheduler{}
	var frames []time.Time
	var loop FrameCallback
	loop = func(now time.Time) {
		s.RequestFrame(loop)
		frames = append(frames, now)
	}
	s.RequestFrame(loop)

	start := time.Unix(0, 0)
	for i := range 3 {
		require.True(t, s.RunFrame(start.Add(time.Duration(i)*16*time.Millisecond)))
		assert.Len(t, frames, i+1, "one callback per iteration")
		assert.True(t, s.Pending())
	}
	assert.Equal(t, start.Add(32*time.Millisecond), frames[2])
}

func TestFrameSchedulerCancel(t *testing.T) {
	s := &FrameScheduler{}
	s.RequestFrame(func(time.Time) { t.Fatal("cancelled callback ran") })
	s.RequestFrame(nil)
	assert.False(t, s.RunFrame(time.Now()))
}

type fakeInput struct {
	mouse func(button uint32, x, y int32)
	key   func(keyCode uint32)
}

func (f *fakeInput) SetMouseDownCallback(cb func(button uint32, x, y int32)) { f.mouse = cb }
func (f *fakeInput) SetKeyDownCallback(cb func(keyCode uint32))              { f.key = cb }

func TestStartGateFiresOnce(t *testing.T) {
	starts := 0
	g := NewStartGate(func() { starts++ })
	in := &fakeInput{}
	g.Attach(in)

	in.mouse(common.MouseButtonRight, 10, 10)
	in.key(65)
	assert.False(t, g.Fired())
	assert.Zero(t, starts)

	in.mouse(common.MouseButtonLeft, 10, 10)
	in.mouse(common.MouseButtonLeft, 12, 12)
	in.key(common.KeyEnter)
	assert.True(t, g.Fired())
	assert.Equal(t, 1, starts)
	assert.False(t, g.Fire())
}

func TestStartGateKeys(t *testing.T) {
	for _, key := range []uint32{common.KeyEnter, common.KeySpace} {
		starts := 0
		g := NewStartGate(func() { starts++ })
		g.KeyDown(key)
		assert.Equal(t, 1, starts, "key %d", key)
	}
}
