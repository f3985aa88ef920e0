package pipeline

import (
	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the compiled stages, the linked program and every location resolved from it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used as the program label
	pipelineKey string

	// the following shader references are the sources the stages are compiled from. When unset, the cube
	// shaders for the renderer's language are used.

	vertexShader, fragmentShader shader.Shader

	vertexStage, fragmentStage renderer.Handle
	program                    renderer.Handle

	// names to resolve after a successful link, in resolution order
	attributeNames []string
	uniformNames   []string

	attributes map[string]int32
	uniforms   map[string]int32

	errs []error
}

// Pipeline is a compiled and linked shader program with its attribute and uniform locations
// resolved by name. It is built once and never changes afterwards.
//
// Building is lenient: a stage that fails to compile is logged and forwarded to linking as a null
// handle, a failed link is logged, and the resulting pipeline simply reports itself unusable.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the source of the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the stage source
	Shader(shaderType shader.ShaderType) shader.Shader

	// Stage returns the compiled handle of the given stage, 0 if it failed to compile.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - renderer.Handle: the stage handle
	Stage(shaderType shader.ShaderType) renderer.Handle

	// Program returns the linked program handle, 0 if linking failed.
	//
	// Returns:
	//   - renderer.Handle: the program handle
	Program() renderer.Handle

	// Linked reports whether the program linked successfully.
	//
	// Returns:
	//   - bool: true if the program is linked
	Linked() bool

	// Usable reports whether the pipeline can be drawn with: it is linked and every requested
	// attribute resolved to a location.
	//
	// Returns:
	//   - bool: true if draw calls may use this pipeline
	Usable() bool

	// AttributeLocation returns the resolved location of a vertex attribute.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - int32: the location, or -1 if the pipeline is not linked or the name did not resolve
	AttributeLocation(name string) int32

	// UniformLocation returns the resolved location of a uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - int32: the location, or -1 if the pipeline is not linked or the name did not resolve
	UniformLocation(name string) int32

	// Errors returns every compile and link error encountered while building, in order.
	//
	// Returns:
	//   - []error: *renderer.CompileError and *renderer.LinkError values
	Errors() []error
}

var _ Pipeline = &pipeline{}

// NewPipeline compiles both stages, links them and resolves the configured attribute and uniform
// names against the program. Every resolved attribute is enabled once. NewPipeline never fails;
// see Pipeline for how failures surface.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - r: the renderer to build on
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the built pipeline
func NewPipeline(pipelineKey string, r renderer.Renderer, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:    pipelineKey,
		attributeNames: []string{shader.AttributePosition, shader.AttributeTexCoord},
		uniformNames:   []string{shader.UniformSampler, shader.UniformProjection, shader.UniformModelView},
		attributes:     make(map[string]int32),
		uniforms:       make(map[string]int32),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.vertexShader == nil || p.fragmentShader == nil {
		vs, fs := shader.CubeShaders(r.ShaderLanguage())
		p.vertexShader = common.Coalesce(p.vertexShader, vs)
		p.fragmentShader = common.Coalesce(p.fragmentShader, fs)
	}

	p.vertexStage = p.compile(r, p.vertexShader)
	p.fragmentStage = p.compile(r, p.fragmentShader)

	program, err := r.LinkProgram(p.pipelineKey, p.vertexStage, p.fragmentStage)
	if err != nil {
		common.Logger().Error("shader program link failed", "pipeline", p.pipelineKey, "error", err)
		p.errs = append(p.errs, err)
		return p
	}
	p.program = program

	for _, name := range p.attributeNames {
		loc := r.AttribLocation(program, name)
		p.attributes[name] = loc
		if loc < 0 {
			common.Logger().Warn("vertex attribute not found", "pipeline", p.pipelineKey, "attribute", name)
			continue
		}
		r.EnableVertexAttribArray(program, loc)
	}
	for _, name := range p.uniformNames {
		loc := r.UniformLocation(program, name)
		p.uniforms[name] = loc
		if loc < 0 {
			common.Logger().Warn("uniform not found", "pipeline", p.pipelineKey, "uniform", name)
		}
	}
	common.Logger().Debug("shader program linked", "pipeline", p.pipelineKey,
		"attributes", p.attributes, "uniforms", p.uniforms)
	return p
}

// compile compiles one stage, logging and recording the failure and returning a null handle.
func (p *pipeline) compile(r renderer.Renderer, s shader.Shader) renderer.Handle {
	h, err := r.CompileShader(s)
	if err != nil {
		common.Logger().Error("shader compile failed", "pipeline", p.pipelineKey,
			"stage", s.ShaderType().String(), "error", err)
		p.errs = append(p.errs, err)
		return 0
	}
	return h
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Stage(shaderType shader.ShaderType) renderer.Handle {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexStage
	case shader.ShaderTypeFragment:
		return p.fragmentStage
	default:
		return 0
	}
}

func (p *pipeline) Program() renderer.Handle {
	return p.program
}

func (p *pipeline) Linked() bool {
	return p.program != 0
}

func (p *pipeline) Usable() bool {
	if !p.Linked() {
		return false
	}
	for _, name := range p.attributeNames {
		if p.AttributeLocation(name) < 0 {
			return false
		}
	}
	return true
}

func (p *pipeline) AttributeLocation(name string) int32 {
	if loc, ok := p.attributes[name]; ok {
		return loc
	}
	return -1
}

func (p *pipeline) UniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (p *pipeline) Errors() []error {
	return p.errs
}
