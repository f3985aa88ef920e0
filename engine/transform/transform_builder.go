package transform

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type StateBuilderOption func(*stateImpl)

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - StateBuilderOption: a function that sets the field of view
func WithFov(fov float32) StateBuilderOption {
	return func(s *stateImpl) {
		s.fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height) of the projection. Non-positive values are ignored.
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - StateBuilderOption: a function that sets the aspect ratio
func WithAspect(aspect float32) StateBuilderOption {
	return func(s *stateImpl) {
		if aspect > 0 {
			s.aspect = aspect
		}
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - StateBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) StateBuilderOption {
	return func(s *stateImpl) {
		s.near, s.far = near, far
	}
}

// WithTranslation sets the initial model-view translation.
//
// Parameters:
//   - v: the translation
//
// Returns:
//   - StateBuilderOption: a function that sets the translation
func WithTranslation(v mgl32.Vec3) StateBuilderOption {
	return func(s *stateImpl) {
		s.translation = v
	}
}

// WithAxis sets the rotation axis. It is normalized on construction.
//
// Parameters:
//   - axis: the rotation axis
//
// Returns:
//   - StateBuilderOption: a function that sets the rotation axis
func WithAxis(axis mgl32.Vec3) StateBuilderOption {
	return func(s *stateImpl) {
		s.axis = axis
	}
}

// WithPeriod sets how long one full rotation takes.
//
// Parameters:
//   - period: the rotation period
//
// Returns:
//   - StateBuilderOption: a function that sets the rotation period
func WithPeriod(period time.Duration) StateBuilderOption {
	return func(s *stateImpl) {
		s.period = period
	}
}
