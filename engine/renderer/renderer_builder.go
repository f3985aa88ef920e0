package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackendType selects the GPU API the renderer drives.
//
// Parameters:
//   - t: the backend type (BackendTypeOpenGL or BackendTypeWGPU)
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend type option to a renderer
func WithBackendType(t RendererBackendType) RendererBuilderOption {
	return func(r *renderer) {
		r.backendType = t
	}
}

// WithBackend uses an already constructed backend instead of acquiring a context from the surface.
//
// Parameters:
//   - b: the backend to wrap
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
// Only the WebGPU backend honors it; the OpenGL backend always swaps on vertical blank.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
