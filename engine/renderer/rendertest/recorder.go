// Package rendertest provides a recording renderer backend for tests that cannot open a GPU context.
package rendertest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/gogpu/naga"
)

// Op names one recorded backend call.
type Op string

const (
	OpViewport      Op = "viewport"
	OpVertexBuffer  Op = "vertex_buffer"
	OpCompile       Op = "compile"
	OpLink          Op = "link"
	OpEnableAttrib  Op = "enable_attrib"
	OpCreateTexture Op = "create_texture"
	OpUploadTexture Op = "upload_texture"
	OpBeginFrame    Op = "begin_frame"
	OpDraw          Op = "draw"
	OpEndFrame      Op = "end_frame"
	OpRelease       Op = "release"
)

// Call is one recorded backend call.
type Call struct {
	Op     Op
	Label  string
	Handle renderer.Handle
	Draw   renderer.DrawCommand
	Upload common.TextureStagingData
	Params renderer.TextureParams
}

type program struct {
	label    string
	vertex   shader.Shader
	fragment shader.Shader
}

// Recorder is a RendererBackend that records every call and resolves locations from the
// declarations the shaders parse out of their source. GLSL locations are assigned in
// declaration order the way a linker would; WGSL locations are the declared @location and
// @binding values.
//
// A stage fails to compile when its key is listed in CompileErrors, when a WGSL stage is rejected
// by the naga compiler, or when a GLSL stage has unbalanced braces.
type Recorder struct {
	mu *sync.Mutex

	backendType renderer.RendererBackendType
	next        renderer.Handle
	stages      map[renderer.Handle]shader.Shader
	programs    map[renderer.Handle]*program
	buffers     map[renderer.Handle][]float32
	enabled     map[int32]bool
	calls       []Call

	// CompileErrors maps a shader key to the log its compilation fails with.
	CompileErrors map[string]string
	// DrawErr, when set, is returned by every Draw call.
	DrawErr error
}

var _ renderer.RendererBackend = &Recorder{}

// NewRecorder creates a Recorder that reports itself as the given backend type.
//
// Parameters:
//   - t: the backend type to impersonate, which also selects the shader language
//
// Returns:
//   - *Recorder: an empty recorder
func NewRecorder(t renderer.RendererBackendType) *Recorder {
	return &Recorder{
		mu:            &sync.Mutex{},
		backendType:   t,
		stages:        make(map[renderer.Handle]shader.Shader),
		programs:      make(map[renderer.Handle]*program),
		buffers:       make(map[renderer.Handle][]float32),
		enabled:       make(map[int32]bool),
		CompileErrors: make(map[string]string),
	}
}

// Calls returns a copy of every call recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Ops returns the recorded call names in order.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}

// Count returns how many calls of the given kind were recorded.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Draws returns every recorded draw command.
func (r *Recorder) Draws() []renderer.DrawCommand {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []renderer.DrawCommand
	for _, c := range r.calls {
		if c.Op == OpDraw {
			out = append(out, c.Draw)
		}
	}
	return out
}

// Buffer returns the data uploaded into a vertex buffer.
func (r *Recorder) Buffer(h renderer.Handle) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffers[h]
}

// Enabled reports whether EnableVertexAttribArray was called for a location.
func (r *Recorder) Enabled(location int32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled[location]
}

// Reset forgets the recorded calls but keeps the created objects.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(c Call) {
	r.calls = append(r.calls, c)
}

func (r *Recorder) handle() renderer.Handle {
	r.next++
	return r.next
}

func (r *Recorder) Type() renderer.RendererBackendType {
	return r.backendType
}

func (r *Recorder) Language() shader.Language {
	if r.backendType == renderer.BackendTypeWGPU {
		return shader.LanguageWGSL
	}
	return shader.LanguageGLSL
}

func (r *Recorder) ConfigureViewport(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpViewport, Label: fmt.Sprintf("%dx%d", width, height)})
}

func (r *Recorder) CreateVertexBuffer(label string, data []float32) (renderer.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.handle()
	r.buffers[h] = append([]float32(nil), data...)
	r.record(Call{Op: OpVertexBuffer, Label: label, Handle: h})
	return h, nil
}

func (r *Recorder) CompileShader(s shader.Shader) (renderer.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpCompile, Label: s.Key()})

	if log, ok := r.CompileErrors[s.Key()]; ok {
		return 0, &renderer.CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: log}
	}
	if s.Language() != r.Language() {
		return 0, &renderer.CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: "wrong shading language " + s.Language().String()}
	}
	switch s.Language() {
	case shader.LanguageWGSL:
		if _, err := naga.Compile(s.Source()); err != nil {
			return 0, &renderer.CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: err.Error()}
		}
	default:
		if strings.Count(s.Source(), "{") != strings.Count(s.Source(), "}") {
			return 0, &renderer.CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: "unbalanced braces"}
		}
	}
	h := r.handle()
	r.stages[h] = s
	return h, nil
}

func (r *Recorder) LinkProgram(label string, vertex, fragment renderer.Handle) (renderer.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpLink, Label: label})

	vs, fs := r.stages[vertex], r.stages[fragment]
	if vs == nil || fs == nil {
		return 0, &renderer.LinkError{Label: label, Log: "missing stage"}
	}
	h := r.handle()
	r.programs[h] = &program{label: label, vertex: vs, fragment: fs}
	return h, nil
}

func (r *Recorder) AttribLocation(prog renderer.Handle, name string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.programs[prog]
	if p == nil {
		return -1
	}
	for i, a := range p.vertex.Attributes() {
		if a.Name != name {
			continue
		}
		if a.Location >= 0 {
			return int32(a.Location)
		}
		return int32(i)
	}
	return -1
}

func (r *Recorder) UniformLocation(prog renderer.Handle, name string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.programs[prog]
	if p == nil {
		return -1
	}
	seen := make(map[string]int32)
	for _, s := range []shader.Shader{p.vertex, p.fragment} {
		for _, u := range s.Uniforms() {
			if u.Binding >= 0 {
				seen[u.Name] = int32(u.Binding)
			} else if _, ok := seen[u.Name]; !ok {
				seen[u.Name] = int32(len(seen))
			}
		}
	}
	if loc, ok := seen[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) EnableVertexAttribArray(prog renderer.Handle, location int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled[location] = true
	r.record(Call{Op: OpEnableAttrib, Handle: prog, Label: fmt.Sprint(location)})
}

func (r *Recorder) CreateTexture(label string, params renderer.TextureParams) (renderer.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.handle()
	r.record(Call{Op: OpCreateTexture, Label: label, Handle: h, Params: params})
	return h, nil
}

func (r *Recorder) UploadTexture(texture renderer.Handle, data common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpUploadTexture, Handle: texture, Upload: data})
	return nil
}

func (r *Recorder) BeginFrame(clear [4]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpBeginFrame})
	return nil
}

func (r *Recorder) Draw(cmd renderer.DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpDraw, Handle: cmd.Program, Draw: cmd})
	return r.DrawErr
}

func (r *Recorder) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpEndFrame})
	return nil
}

func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Call{Op: OpRelease})
}
