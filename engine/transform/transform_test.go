package transform

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState(WithAspect(2))

	assert.Equal(t, mgl32.Perspective(math.Pi/4, 2, 1, 10000), s.Projection())
	assert.Equal(t, mgl32.Translate3D(-0.5, -0.5, -5), s.ModelView())
	assert.Equal(t, float32(2), s.Aspect())
}

func TestWithAspectIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, float32(1), NewState(WithAspect(0)).Aspect())
	assert.Equal(t, float32(1), NewState(WithAspect(-3)).Aspect())
}

func TestProjectionInvariantAcrossFrames(t *testing.T) {
	s := NewState(WithAspect(4.0 / 3.0))
	before := s.Projection()
	for range 100 {
		s.Advance(16 * time.Millisecond)
	}
	assert.Equal(t, before, s.Projection())
}

func TestAdvanceAngle(t *testing.T) {
	s := NewState()
	assert.InDelta(t, math.Pi/2, s.Advance(1250*time.Millisecond), 1e-6)
	assert.InDelta(t, 2*math.Pi, s.Advance(5000*time.Millisecond), 1e-5)
	assert.Zero(t, s.Advance(0))
}

func TestModelViewIsOrderedProductOfRotations(t *testing.T) {
	deltas := []time.Duration{16 * time.Millisecond, 700 * time.Millisecond, 33 * time.Millisecond, 1200 * time.Millisecond}
	axis := mgl32.Vec3{1, 1, 0}.Normalize()

	s := NewState()
	want := mgl32.Translate3D(-0.5, -0.5, -5)
	for _, d := range deltas {
		angle := float32(2 * math.Pi * float64(d.Milliseconds()) / 5000)
		want = want.Mul4(mgl32.HomogRotate3D(angle, axis))
		s.Advance(d)
	}
	assert.True(t, want.ApproxEqualThreshold(s.ModelView(), 1e-5), "got %v want %v", s.ModelView(), want)
}

func TestModelViewIsPostMultiplied(t *testing.T) {
	s := NewState()
	s.Advance(700 * time.Millisecond)

	rotation := mgl32.HomogRotate3D(float32(2*math.Pi*700.0/5000), mgl32.Vec3{1, 1, 0}.Normalize())
	translation := mgl32.Translate3D(-0.5, -0.5, -5)

	assert.True(t, translation.Mul4(rotation).ApproxEqualThreshold(s.ModelView(), 1e-5))
	assert.False(t, rotation.Mul4(translation).ApproxEqualThreshold(s.ModelView(), 1e-3))
}

func TestSwappedDeltasAboutOneAxis(t *testing.T) {
	a, b := NewState(), NewState()
	a.Advance(300 * time.Millisecond)
	a.Advance(1100 * time.Millisecond)
	b.Advance(1100 * time.Millisecond)
	b.Advance(300 * time.Millisecond)

	// rotations about a single fixed axis commute; only the translation/rotation order matters
	assert.True(t, a.ModelView().ApproxEqualThreshold(b.ModelView(), 1e-5))
}

func TestRotateIsCumulativeWithoutNormalization(t *testing.T) {
	s := NewState()
	for range 1000 {
		s.Advance(5 * time.Millisecond)
	}
	// 1000 * 5ms is exactly one period; the matrix returns to its start up to drift
	assert.True(t, mgl32.Translate3D(-0.5, -0.5, -5).ApproxEqualThreshold(s.ModelView(), 5e-3))
}

func TestClockTick(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewClock(start)

	assert.Equal(t, 16*time.Millisecond, c.Tick(start.Add(16*time.Millisecond)))
	assert.Equal(t, 20*time.Millisecond, c.Tick(start.Add(36*time.Millisecond)))
	assert.Zero(t, c.Tick(start.Add(10*time.Millisecond)))
	require.Equal(t, 6*time.Millisecond, c.Tick(start.Add(16*time.Millisecond)))
}
