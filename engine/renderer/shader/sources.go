package shader

import (
	_ "embed"
)

// Names of the vertex inputs and uniforms every cube program declares.
const (
	AttributePosition = "vertexPos"
	AttributeTexCoord = "vertexTexCoord"
	UniformSampler    = "uSampler"
	UniformProjection = "projectionMatrix"
	UniformModelView  = "modelViewMatrix"
)

var (
	//go:embed assets/cube.vert.glsl
	cubeVertexGLSL string
	//go:embed assets/cube.frag.glsl
	cubeFragmentGLSL string
	//go:embed assets/cube.vert.wgsl
	cubeVertexWGSL string
	//go:embed assets/cube.frag.wgsl
	cubeFragmentWGSL string
)

// CubeShaders returns the textured cube program for the given language. The vertex stage
// transforms positions by projection * model-view and forwards the texture coordinate; the
// fragment stage samples the texture at the interpolated coordinate.
//
// Parameters:
//   - language: the shading language the backend consumes
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
func CubeShaders(language Language) (Shader, Shader) {
	if language == LanguageWGSL {
		return NewShader("cube.vert.wgsl", ShaderTypeVertex, LanguageWGSL, cubeVertexWGSL),
			NewShader("cube.frag.wgsl", ShaderTypeFragment, LanguageWGSL, cubeFragmentWGSL)
	}
	return NewShader("cube.vert.glsl", ShaderTypeVertex, LanguageGLSL, cubeVertexGLSL),
		NewShader("cube.frag.glsl", ShaderTypeFragment, LanguageGLSL, cubeFragmentGLSL)
}
