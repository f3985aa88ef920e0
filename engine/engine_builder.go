package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithSurface sets the drawable the graphics context is acquired from. Its size is also the
// default viewport.
//
// Parameters:
//   - s: the surface, usually the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(s renderer.Surface) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithRendererOptions sets the options passed to renderer.NewRenderer during setup.
//
// Parameters:
//   - options: the renderer options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithRendererFactory replaces context acquisition entirely.
//
// Parameters:
//   - f: the factory called once by Setup
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererFactory(f RendererFactory) EngineBuilderOption {
	return func(e *engine) {
		e.newRenderer = f
	}
}

// WithViewport fixes the viewport size instead of reading it from the surface.
func WithViewport(width, height int) EngineBuilderOption {
	return func(e *engine) {
		e.width = width
		e.height = height
	}
}

// WithClearColor sets the RGBA color frames are cleared to. Defaults to opaque black.
func WithClearColor(c [4]float32) EngineBuilderOption {
	return func(e *engine) {
		e.clearColor = c
	}
}

// WithTransformOptions appends options for the transform state built during setup. The aspect
// ratio always comes from the viewport unless an option here overrides it.
func WithTransformOptions(options ...transform.StateBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.stateOptions = append(e.stateOptions, options...)
	}
}

// WithClock sets the time source used to start the animation clock.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}
