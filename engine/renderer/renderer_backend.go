package renderer

import (
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core backend. This is the default.
	BackendTypeOpenGL RendererBackendType = iota

	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU
)

// String returns the configuration name of the backend type.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "webgpu"
	default:
		return "opengl"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// Handle is an opaque backend object id. The zero Handle is the null object: creating
// something that failed yields 0, and passing 0 where an object is expected fails.
type Handle uint32

// Primitive selects how consecutive vertices are assembled.
type Primitive int

const (
	// PrimitiveTriangles assembles every three vertices into an independent triangle.
	PrimitiveTriangles Primitive = iota
)

// TextureFilter selects texel filtering.
type TextureFilter int

const (
	// FilterNearest picks the closest texel.
	FilterNearest TextureFilter = iota
	// FilterLinear blends the surrounding texels.
	FilterLinear
)

// TextureWrap selects how coordinates outside [0, 1] are resolved.
type TextureWrap int

const (
	// WrapClampToEdge clamps coordinates to the edge texels.
	WrapClampToEdge TextureWrap = iota
	// WrapRepeat tiles the texture.
	WrapRepeat
)

// TextureParams configures sampling for a texture created through CreateTexture.
// Textures never carry mipmaps.
type TextureParams struct {
	MinFilter TextureFilter
	MagFilter TextureFilter
	Wrap      TextureWrap
}

// VertexAttribute feeds one attribute location from a tightly packed float buffer.
type VertexAttribute struct {
	// Location is the resolved attribute location. Negative locations are skipped.
	Location int32
	// Buffer is the vertex buffer handle.
	Buffer Handle
	// Size is the number of floats per vertex.
	Size int32
}

// MatrixUniform sets one 4x4 matrix uniform.
type MatrixUniform struct {
	// Location is the resolved uniform location. Negative locations are skipped.
	Location int32
	// Value is the column-major matrix.
	Value mgl32.Mat4
}

// TextureBinding binds a texture to a unit and points a sampler uniform at that unit.
type TextureBinding struct {
	// Location is the resolved sampler uniform location. Negative locations are skipped.
	Location int32
	// Unit is the texture unit.
	Unit uint32
	// Texture is the texture handle.
	Texture Handle
}

// DrawCommand is one non-indexed draw with all of its state.
type DrawCommand struct {
	Program     Handle
	Primitive   Primitive
	VertexCount int32
	Attributes  []VertexAttribute
	Matrices    []MatrixUniform
	Textures    []TextureBinding
}

// RendererBackend is the interface every GPU API implementation satisfies. All methods are
// called from the thread that owns the graphics context.
type RendererBackend interface {
	// Type reports which API the backend drives.
	Type() RendererBackendType

	// Language reports the shading language the backend compiles.
	Language() shader.Language

	// ConfigureViewport sets the drawable region to the full surface size.
	ConfigureViewport(width, height int)

	// CreateVertexBuffer uploads data into a new static vertex buffer.
	CreateVertexBuffer(label string, data []float32) (Handle, error)

	// CompileShader compiles one shader stage. On failure the returned handle is 0 and the
	// error is a *CompileError.
	CompileShader(s shader.Shader) (Handle, error)

	// LinkProgram links two compiled stages. A 0 stage handle fails the link. On failure the
	// returned handle is 0 and the error is a *LinkError.
	LinkProgram(label string, vertex, fragment Handle) (Handle, error)

	// AttribLocation resolves a vertex attribute by name, or -1.
	AttribLocation(program Handle, name string) int32

	// UniformLocation resolves a uniform by name, or -1.
	UniformLocation(program Handle, name string) int32

	// EnableVertexAttribArray turns on fetching for an attribute location.
	EnableVertexAttribArray(program Handle, location int32)

	// CreateTexture creates an empty 2D texture with the given sampling parameters.
	CreateTexture(label string, params TextureParams) (Handle, error)

	// UploadTexture replaces the contents of a texture with staged RGBA pixels.
	UploadTexture(texture Handle, data common.TextureStagingData) error

	// BeginFrame clears color and depth and enables depth testing.
	BeginFrame(clear [4]float32) error

	// Draw submits one draw command.
	Draw(cmd DrawCommand) error

	// EndFrame finishes the frame and hands it to the display.
	EndFrame() error

	// Release frees every object the backend created.
	Release()
}
