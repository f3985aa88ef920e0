// Package transform holds the cube's projection and model-view matrices and the clock that
// turns wall-clock time into rotation.
package transform

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultFov is the vertical field of view in radians.
	DefaultFov = math.Pi / 4
	// DefaultNear is the near clipping plane distance.
	DefaultNear = 1
	// DefaultFar is the far clipping plane distance.
	DefaultFar = 10000
	// DefaultPeriod is the time one full rotation takes.
	DefaultPeriod = 5000 * time.Millisecond
)

// DefaultAxis is the rotation axis before normalization.
var DefaultAxis = mgl32.Vec3{1, 1, 0}

// DefaultTranslation centers the unit cube on the origin and pushes it in front of the camera.
var DefaultTranslation = mgl32.Vec3{-0.5, -0.5, -5}

type stateImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	translation mgl32.Vec3
	axis        mgl32.Vec3
	period      time.Duration

	projection mgl32.Mat4
	modelView  mgl32.Mat4
}

// State holds a fixed perspective projection and a model-view matrix that accumulates rotation.
// The model-view is post-multiplied by every rotation and never renormalized, so floating point
// drift accumulates over a long run.
type State interface {
	// Projection returns the projection matrix computed at construction.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	Projection() mgl32.Mat4

	// ModelView returns the current model-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the model-view matrix (column-major)
	ModelView() mgl32.Mat4

	// Aspect returns the aspect ratio the projection was computed with.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Rotate post-multiplies the model-view by a rotation about the normalized axis.
	//
	// Parameters:
	//   - angle: the rotation angle in radians
	Rotate(angle float32)

	// Advance converts an elapsed duration into a fraction of the rotation period and rotates by
	// that fraction of a full turn.
	//
	// Parameters:
	//   - delta: the time elapsed since the previous frame
	//
	// Returns:
	//   - float32: the applied angle in radians
	Advance(delta time.Duration) float32
}

var _ State = &stateImpl{}

// NewState computes the projection once and initializes the model-view to the translation.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - State: the newly created state
func NewState(options ...StateBuilderOption) State {
	s := &stateImpl{
		mu:          &sync.Mutex{},
		fov:         DefaultFov,
		aspect:      1,
		near:        DefaultNear,
		far:         DefaultFar,
		translation: DefaultTranslation,
		axis:        DefaultAxis,
		period:      DefaultPeriod,
	}
	for _, option := range options {
		option(s)
	}
	s.projection = mgl32.Perspective(s.fov, s.aspect, s.near, s.far)
	s.modelView = mgl32.Translate3D(s.translation.X(), s.translation.Y(), s.translation.Z())
	if s.axis.Len() > 0 {
		s.axis = s.axis.Normalize()
	}
	return s
}

func (s *stateImpl) Projection() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projection
}

func (s *stateImpl) ModelView() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelView
}

func (s *stateImpl) Aspect() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aspect
}

func (s *stateImpl) Rotate(angle float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if angle == 0 || s.axis.Len() == 0 {
		return
	}
	s.modelView = s.modelView.Mul4(mgl32.HomogRotate3D(angle, s.axis))
}

func (s *stateImpl) Advance(delta time.Duration) float32 {
	angle := common.Angle(float64(delta), float64(s.period))
	s.Rotate(angle)
	return angle
}
