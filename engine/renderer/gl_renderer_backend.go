package renderer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// glTexture tracks the allocated size of a texture so same-sized uploads can reuse storage.
type glTexture struct {
	width, height uint32
}

// glRendererBackendImpl drives OpenGL 4.1 core. GL object names are used as handles directly.
type glRendererBackendImpl struct {
	mu      *sync.Mutex
	surface Surface
	vao     uint32

	buffers  []uint32
	stages   map[Handle]shader.ShaderType
	programs []uint32
	textures map[Handle]*glTexture
}

var _ RendererBackend = &glRendererBackendImpl{}

// newGLRendererBackend makes the surface's context current on the calling thread, loads the
// GL function pointers and creates the vertex array object every draw uses.
func newGLRendererBackend(surface Surface) (*glRendererBackendImpl, error) {
	if err := surface.MakeContextCurrent(); err != nil {
		return nil, fmt.Errorf("make context current: %w", err)
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("load opengl functions: %w", err)
	}
	common.Logger().Debug("opengl initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	b := &glRendererBackendImpl{
		mu:       &sync.Mutex{},
		surface:  surface,
		stages:   make(map[Handle]shader.ShaderType),
		textures: make(map[Handle]*glTexture),
	}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	return b, nil
}

func (b *glRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeOpenGL
}

func (b *glRendererBackendImpl) Language() shader.Language {
	return shader.LanguageGLSL
}

func (b *glRendererBackendImpl) ConfigureViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackendImpl) CreateVertexBuffer(label string, data []float32) (Handle, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, fmt.Errorf("glGenBuffers returned no name for %q", label)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	b.mu.Lock()
	b.buffers = append(b.buffers, vbo)
	b.mu.Unlock()
	return Handle(vbo), nil
}

func (b *glRendererBackendImpl) CompileShader(s shader.Shader) (Handle, error) {
	kind := uint32(gl.VERTEX_SHADER)
	if s.ShaderType() == shader.ShaderTypeFragment {
		kind = gl.FRAGMENT_SHADER
	}

	name := gl.CreateShader(kind)
	if name == 0 {
		return 0, &CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: "glCreateShader failed"}
	}
	src, free := gl.Strs(s.Source() + "\x00")
	gl.ShaderSource(name, 1, src, nil)
	free()
	gl.CompileShader(name)

	var status int32
	gl.GetShaderiv(name, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(name, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(name, logLength, nil, &log[0])
		gl.DeleteShader(name)
		return 0, &CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: trimLog(log)}
	}

	b.mu.Lock()
	b.stages[Handle(name)] = s.ShaderType()
	b.mu.Unlock()
	return Handle(name), nil
}

func (b *glRendererBackendImpl) LinkProgram(label string, vertex, fragment Handle) (Handle, error) {
	if vertex == 0 || fragment == 0 {
		return 0, &LinkError{Label: label, Log: missingStageLog(vertex, fragment)}
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, &LinkError{Label: label, Log: trimLog(log)}
	}

	b.mu.Lock()
	b.programs = append(b.programs, program)
	b.mu.Unlock()
	return Handle(program), nil
}

func (b *glRendererBackendImpl) AttribLocation(program Handle, name string) int32 {
	return gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
}

func (b *glRendererBackendImpl) UniformLocation(program Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (b *glRendererBackendImpl) EnableVertexAttribArray(program Handle, location int32) {
	gl.BindVertexArray(b.vao)
	gl.EnableVertexAttribArray(uint32(location))
}

func (b *glRendererBackendImpl) CreateTexture(label string, params TextureParams) (Handle, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("glGenTextures returned no name for %q", label)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(params.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(params.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(params.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(params.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	b.mu.Lock()
	b.textures[Handle(tex)] = &glTexture{}
	b.mu.Unlock()
	return Handle(tex), nil
}

func (b *glRendererBackendImpl) UploadTexture(texture Handle, data common.TextureStagingData) error {
	b.mu.Lock()
	t, ok := b.textures[texture]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown texture %d", texture)
	}

	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if t.width == data.Width && t.height == data.Height {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(data.Width), int32(data.Height),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data.Pixels))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(data.Width), int32(data.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data.Pixels))
		t.width, t.height = data.Width, data.Height
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

func (b *glRendererBackendImpl) BeginFrame(clear [4]float32) error {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *glRendererBackendImpl) Draw(cmd DrawCommand) error {
	gl.UseProgram(uint32(cmd.Program))
	gl.BindVertexArray(b.vao)

	for _, a := range cmd.Attributes {
		if a.Location < 0 {
			continue
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(a.Buffer))
		gl.VertexAttribPointerWithOffset(uint32(a.Location), a.Size, gl.FLOAT, false, 0, 0)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	for _, m := range cmd.Matrices {
		if m.Location < 0 {
			continue
		}
		value := m.Value
		gl.UniformMatrix4fv(m.Location, 1, false, &value[0])
	}

	for _, t := range cmd.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + t.Unit)
		gl.BindTexture(gl.TEXTURE_2D, uint32(t.Texture))
		if t.Location >= 0 {
			gl.Uniform1i(t.Location, int32(t.Unit))
		}
	}

	gl.DrawArrays(glPrimitive(cmd.Primitive), 0, cmd.VertexCount)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl error 0x%x after draw", code)
	}
	return nil
}

func (b *glRendererBackendImpl) EndFrame() error {
	b.surface.SwapBuffers()
	return nil
}

func (b *glRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.programs {
		gl.DeleteProgram(p)
	}
	for s := range b.stages {
		gl.DeleteShader(uint32(s))
	}
	for t := range b.textures {
		name := uint32(t)
		gl.DeleteTextures(1, &name)
	}
	if len(b.buffers) > 0 {
		gl.DeleteBuffers(int32(len(b.buffers)), &b.buffers[0])
	}
	gl.DeleteVertexArrays(1, &b.vao)

	b.programs, b.buffers = nil, nil
	b.stages = make(map[Handle]shader.ShaderType)
	b.textures = make(map[Handle]*glTexture)
}

func glFilter(f TextureFilter) int32 {
	if f == FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glWrap(w TextureWrap) int32 {
	if w == WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func glPrimitive(p Primitive) uint32 {
	switch p {
	default:
		return gl.TRIANGLES
	}
}

// trimLog turns a NUL padded info log into a string.
func trimLog(log []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(log), "\x00"))
}

// missingStageLog describes which stage handles were null.
func missingStageLog(vertex, fragment Handle) string {
	var missing []string
	if vertex == 0 {
		missing = append(missing, shader.ShaderTypeVertex.String())
	}
	if fragment == 0 {
		missing = append(missing, shader.ShaderTypeFragment.String())
	}
	return "missing " + strings.Join(missing, " and ") + " stage"
}
