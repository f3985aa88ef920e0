package pipeline

import (
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithAttributes replaces the vertex attribute names resolved after linking.
//
// Parameters:
//   - names: the attribute names
//
// Returns:
//   - PipelineBuilderOption: a function that sets the attribute names for this pipeline
func WithAttributes(names ...string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.attributeNames = names
	}
}

// WithUniforms replaces the uniform names resolved after linking.
//
// Parameters:
//   - names: the uniform names
//
// Returns:
//   - PipelineBuilderOption: a function that sets the uniform names for this pipeline
func WithUniforms(names ...string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.uniformNames = names
	}
}
