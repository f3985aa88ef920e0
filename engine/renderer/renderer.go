package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the drawable a Renderer acquires its graphics context from. The window
// package implements it.
type Surface interface {
	// Width returns the framebuffer width in pixels.
	Width() int
	// Height returns the framebuffer height in pixels.
	Height() int
	// MakeContextCurrent binds the surface's OpenGL context to the calling thread.
	MakeContextCurrent() error
	// SwapBuffers presents the OpenGL back buffer.
	SwapBuffers()
	// SurfaceDescriptor returns the platform surface descriptor for WebGPU.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
}

// Renderer defines the interface for the graphics context.
//
// This is a high-level API that forwards to a RendererBackend. It serializes access to the
// backend, tracks the configured viewport and wraps backend failures with context.
type Renderer interface {
	// BackendType returns the type of the active backend.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// ShaderLanguage returns the shading language the active backend compiles.
	//
	// Returns:
	//   - shader.Language: the language shader sources must be written in
	ShaderLanguage() shader.Language

	// Viewport sets the drawable region to width x height. The surface is not re-queried later.
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	Viewport(width, height int)

	// Size returns the last configured viewport size.
	//
	// Returns:
	//   - int: the viewport width in pixels
	//   - int: the viewport height in pixels
	Size() (int, int)

	// AspectRatio returns width / height of the configured viewport, or 1 if the height is 0.
	//
	// Returns:
	//   - float32: the aspect ratio
	AspectRatio() float32

	// CreateVertexBuffer uploads float data into a new static vertex buffer.
	//
	// Parameters:
	//   - label: a debug label
	//   - data: the vertex data
	//
	// Returns:
	//   - Handle: the buffer handle
	//   - error: an error if data is empty or creation fails
	CreateVertexBuffer(label string, data []float32) (Handle, error)

	// CompileShader compiles one shader stage.
	//
	// Parameters:
	//   - s: the shader stage
	//
	// Returns:
	//   - Handle: the stage handle, 0 on failure
	//   - error: a *CompileError on failure
	CompileShader(s shader.Shader) (Handle, error)

	// LinkProgram links a vertex and a fragment stage. A 0 stage handle always fails.
	//
	// Parameters:
	//   - label: a debug label
	//   - vertex: the vertex stage handle
	//   - fragment: the fragment stage handle
	//
	// Returns:
	//   - Handle: the program handle, 0 on failure
	//   - error: a *LinkError on failure
	LinkProgram(label string, vertex, fragment Handle) (Handle, error)

	// AttribLocation resolves a vertex attribute location by name.
	//
	// Parameters:
	//   - program: the program handle
	//   - name: the attribute name
	//
	// Returns:
	//   - int32: the location, or -1 if the program is 0 or the name is unknown
	AttribLocation(program Handle, name string) int32

	// UniformLocation resolves a uniform location by name.
	//
	// Parameters:
	//   - program: the program handle
	//   - name: the uniform name
	//
	// Returns:
	//   - int32: the location, or -1 if the program is 0 or the name is unknown
	UniformLocation(program Handle, name string) int32

	// EnableVertexAttribArray turns on fetching for a resolved attribute location.
	// Negative locations are ignored.
	//
	// Parameters:
	//   - program: the program handle
	//   - location: the attribute location
	EnableVertexAttribArray(program Handle, location int32)

	// CreateTexture creates an empty 2D texture.
	//
	// Parameters:
	//   - label: a debug label
	//   - params: the sampling parameters
	//
	// Returns:
	//   - Handle: the texture handle
	//   - error: an error if creation fails
	CreateTexture(label string, params TextureParams) (Handle, error)

	// UploadTexture replaces a texture's contents. Empty staging data is a no-op.
	//
	// Parameters:
	//   - texture: the texture handle
	//   - data: the staged pixels
	//
	// Returns:
	//   - error: an error if the upload fails
	UploadTexture(texture Handle, data common.TextureStagingData) error

	// BeginFrame clears the color and depth buffers and enables depth testing.
	//
	// Parameters:
	//   - clear: the RGBA clear color
	//
	// Returns:
	//   - error: an error if the frame could not be started
	BeginFrame(clear [4]float32) error

	// Draw submits one draw command within the current frame.
	//
	// Parameters:
	//   - cmd: the draw command
	//
	// Returns:
	//   - error: an error if the command is invalid or the backend rejects it
	Draw(cmd DrawCommand) error

	// EndFrame finishes the current frame and presents it.
	//
	// Returns:
	//   - error: an error if submission fails
	EndFrame() error

	// Release frees every backend object.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer acquires a graphics context on the given surface and wraps it in a Renderer.
// Panics raised while the backend talks to the driver are recovered and returned as a
// *SetupError, as is any backend construction error.
//
// Parameters:
//   - surface: the drawable to render into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer, nil on failure
//   - error: a *SetupError if no context could be acquired
func NewRenderer(surface Surface, options ...RendererBuilderOption) (rr Renderer, err error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeOpenGL,
		presentMode: PresentModeVSync,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend != nil {
		r.backendType = r.backend.Type()
		return r, nil
	}
	if surface == nil {
		return nil, &SetupError{Backend: r.backendType, Err: errors.New("no surface")}
	}

	defer func() {
		if p := recover(); p != nil {
			rr = nil
			err = &SetupError{Backend: r.backendType, Err: fmt.Errorf("%v", p)}
		}
	}()

	switch r.backendType {
	case BackendTypeWGPU:
		r.backend, err = newWGPURendererBackend(surface, r.forceFallbackAdapter, r.presentMode)
	default:
		r.backend, err = newGLRendererBackend(surface)
	}
	if err != nil {
		return nil, &SetupError{Backend: r.backendType, Err: err}
	}
	common.Logger().Info("graphics context acquired", "backend", r.backendType.String())
	return r, nil
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) ShaderLanguage() shader.Language {
	return r.backend.Language()
}

func (r *renderer) Viewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	r.backend.ConfigureViewport(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) AspectRatio() float32 {
	w, h := r.Size()
	if h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}

func (r *renderer) CreateVertexBuffer(label string, data []float32) (Handle, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("renderer: vertex buffer %q has no data", label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.backend.CreateVertexBuffer(label, data)
	if err != nil {
		return 0, fmt.Errorf("renderer: create vertex buffer %q: %w", label, err)
	}
	return h, nil
}

func (r *renderer) CompileShader(s shader.Shader) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.CompileShader(s)
}

func (r *renderer) LinkProgram(label string, vertex, fragment Handle) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.LinkProgram(label, vertex, fragment)
}

func (r *renderer) AttribLocation(program Handle, name string) int32 {
	if program == 0 {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.AttribLocation(program, name)
}

func (r *renderer) UniformLocation(program Handle, name string) int32 {
	if program == 0 {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.UniformLocation(program, name)
}

func (r *renderer) EnableVertexAttribArray(program Handle, location int32) {
	if program == 0 || location < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.EnableVertexAttribArray(program, location)
}

func (r *renderer) CreateTexture(label string, params TextureParams) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, err := r.backend.CreateTexture(label, params)
	if err != nil {
		return 0, fmt.Errorf("renderer: create texture %q: %w", label, err)
	}
	return h, nil
}

func (r *renderer) UploadTexture(texture Handle, data common.TextureStagingData) error {
	if data.Empty() {
		return nil
	}
	if texture == 0 {
		return errors.New("renderer: upload to null texture")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.UploadTexture(texture, data)
}

func (r *renderer) BeginFrame(clear [4]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.BeginFrame(clear)
}

func (r *renderer) Draw(cmd DrawCommand) error {
	if cmd.Program == 0 {
		return errors.New("renderer: draw with null program")
	}
	if cmd.VertexCount <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Draw(cmd)
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.EndFrame()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
