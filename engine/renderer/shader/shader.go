package shader

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which programmable stage a shader belongs to.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the lowercase stage name used in logs and errors.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(t))
	}
}

// Language identifies the shading language a source is written in.
type Language int

const (
	// LanguageGLSL is GLSL 4.10 core, consumed by the OpenGL backend.
	LanguageGLSL Language = iota

	// LanguageWGSL is WGSL, consumed by the WebGPU backend.
	LanguageWGSL
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("language(%d)", int(l))
	}
}

// ResourceKind classifies a uniform-style declaration.
type ResourceKind int

const (
	// ResourceKindValue is a plain uniform value such as a matrix.
	ResourceKindValue ResourceKind = iota
	// ResourceKindTexture is a sampled texture (GLSL sampler2D, WGSL texture_2d).
	ResourceKindTexture
	// ResourceKindSampler is a standalone WGSL sampler.
	ResourceKindSampler
)

// Attribute is one named per-vertex input of a vertex shader.
type Attribute struct {
	// Name is the identifier the shader declares the attribute under.
	Name string
	// Type is the declared type, e.g. "vec3" or "vec3<f32>".
	Type string
	// Location is the explicit location, or -1 when the linker assigns one.
	Location int
}

// Uniform is one named uniform-style resource declared by a shader.
type Uniform struct {
	// Name is the identifier the shader declares the resource under.
	Name string
	// Type is the declared type, e.g. "mat4" or "texture_2d<f32>".
	Type string
	// Kind classifies the resource.
	Kind ResourceKind
	// Group is the WGSL bind group, or -1 for GLSL.
	Group int
	// Binding is the WGSL binding index, or -1 for GLSL.
	Binding int
}

// shader is the implementation of the Shader interface.
// It holds the literal source and everything parsed out of it.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	language                   Language
	entryPoint                 string
	attributes                 []Attribute
	uniforms                   []Uniform
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexBufferLayouts        []wgpu.VertexBufferLayout
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for one stage of a shader program. It exposes the literal source
// along with the names it declares, so a pipeline can resolve attribute and uniform locations by
// name on any backend.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as a debug label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the literal shader source code.
	//
	// Returns:
	//   - string: the source code of the shader
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Language returns the shading language of the source.
	//
	// Returns:
	//   - Language: LanguageGLSL or LanguageWGSL
	Language() Language

	// EntryPoint returns the entry point name for this shader. GLSL shaders always use "main".
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// Attributes returns the per-vertex inputs declared by a vertex shader, in declaration order.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []Attribute: the declared attributes
	Attributes() []Attribute

	// AttributeLocation looks up a vertex attribute by name.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - int: the explicit location, or -1 if not found or assigned by the linker
	//   - bool: true if the attribute is declared
	AttributeLocation(name string) (int, bool)

	// Uniforms returns the uniform-style resources declared by the shader, in declaration order.
	//
	// Returns:
	//   - []Uniform: the declared resources
	Uniforms() []Uniform

	// BindGroupFromVarName retrieves the binding index for a given group and variable name, if it exists.
	//
	// Parameters:
	//   - group: the bind group index
	//   - varName: the variable name within the group
	//
	// Returns:
	//   - int: the binding index associated with the variable name, or -1 if not found
	//   - bool: true if the variable name was found, false otherwise
	BindGroupFromVarName(group int, varName string) (int, bool)

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors of a WGSL shader.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexBufferLayouts returns one vertex buffer layout per attribute of a WGSL vertex shader,
	// ordered by location. Each attribute is fed from its own tightly packed buffer.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, nil for fragment or GLSL shaders
	VertexBufferLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor of a WGSL shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor, nil for GLSL shaders
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader from literal source text and parses the declarations
// out of it.
//
// Parameters:
//   - key: a unique identifier for the shader, used as a debug label
//   - shaderType: the stage of the shader
//   - language: the shading language of source
//   - source: the literal shader text
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, language Language, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		language:                   language,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	switch language {
	case LanguageWGSL:
		s.parseWGSL()
	default:
		s.parseGLSL()
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Language() Language {
	return s.language
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Attributes() []Attribute {
	return s.attributes
}

func (s *shader) AttributeLocation(name string) (int, bool) {
	for _, a := range s.attributes {
		if a.Name == name {
			return a.Location, true
		}
	}
	return -1, false
}

func (s *shader) Uniforms() []Uniform {
	return s.uniforms
}

func (s *shader) BindGroupFromVarName(group int, varName string) (int, bool) {
	for _, u := range s.uniforms {
		if u.Group == group && u.Name == varName && u.Binding >= 0 {
			return u.Binding, true
		}
	}
	return -1, false
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexBufferLayouts() []wgpu.VertexBufferLayout {
	return s.vertexBufferLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// parseWGSL builds the module descriptor and extracts the entry point, vertex inputs and
// bind group declarations from WGSL source.
func (s *shader) parseWGSL() {
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	s.entryPoint = parseEntryPoint(s.source, s.shaderType)

	visibility := wgpu.ShaderStageFragment
	if s.shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.attributes = parseVertexAttributes(s.source)
		sort.SliceStable(s.attributes, func(i, j int) bool {
			return s.attributes[i].Location < s.attributes[j].Location
		})
		s.vertexBufferLayouts = buildVertexBufferLayouts(s.attributes)
	}
	s.bindGroupLayoutDescriptors, s.uniforms = parseBindGroupLayouts(s.source, visibility)
}

// parseGLSL extracts the vertex inputs and uniforms from GLSL source. Locations are left to
// the linker.
func (s *shader) parseGLSL() {
	s.entryPoint = "main"
	if s.shaderType == ShaderTypeVertex {
		s.attributes = parseGLSLInputs(s.source)
	}
	s.uniforms = parseGLSLUniforms(s.source)
}
