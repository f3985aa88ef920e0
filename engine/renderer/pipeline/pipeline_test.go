package pipeline_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, bt renderer.RendererBackendType) (renderer.Renderer, *rendertest.Recorder) {
	t.Helper()
	rec := rendertest.NewRecorder(bt)
	r, err := renderer.NewRenderer(nil, renderer.WithBackend(rec))
	require.NoError(t, err)
	return r, rec
}

func TestPipelineResolvesCubeLocations(t *testing.T) {
	tests := []struct {
		name     string
		backend  renderer.RendererBackendType
		uniforms map[string]int32
	}{
		{
			name:    "opengl",
			backend: renderer.BackendTypeOpenGL,
			uniforms: map[string]int32{
				shader.UniformProjection: 0,
				shader.UniformModelView:  1,
				shader.UniformSampler:    2,
			},
		},
		{
			name:    "webgpu",
			backend: renderer.BackendTypeWGPU,
			uniforms: map[string]int32{
				shader.UniformProjection: 0,
				shader.UniformModelView:  1,
				shader.UniformSampler:    2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newRenderer(t, tt.backend)
			p := pipeline.NewPipeline("cube", r)

			require.Empty(t, p.Errors())
			assert.True(t, p.Linked())
			assert.True(t, p.Usable())
			assert.NotZero(t, p.Stage(shader.ShaderTypeVertex))
			assert.NotZero(t, p.Stage(shader.ShaderTypeFragment))

			assert.Equal(t, int32(0), p.AttributeLocation(shader.AttributePosition))
			assert.Equal(t, int32(1), p.AttributeLocation(shader.AttributeTexCoord))
			for name, loc := range tt.uniforms {
				assert.Equal(t, loc, p.UniformLocation(name), name)
			}

			assert.Equal(t, 2, rec.Count(rendertest.OpEnableAttrib))
			assert.True(t, rec.Enabled(0))
			assert.True(t, rec.Enabled(1))
		})
	}
}

func TestPipelineMalformedFragmentIsLenient(t *testing.T) {
	r, rec := newRenderer(t, renderer.BackendTypeOpenGL)
	vs, _ := shader.CubeShaders(shader.LanguageGLSL)
	broken := shader.NewShader("broken.frag.glsl", shader.ShaderTypeFragment, shader.LanguageGLSL,
		"#version 410 core\nout vec4 fragColor;\nvoid main() {\n    fragColor = vec4(1.0)\n")

	var p pipeline.Pipeline
	require.NotPanics(t, func() {
		p = pipeline.NewPipeline("cube", r, pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(broken))
	})

	assert.False(t, p.Linked())
	assert.False(t, p.Usable())
	assert.NotZero(t, p.Stage(shader.ShaderTypeVertex))
	assert.Zero(t, p.Stage(shader.ShaderTypeFragment))
	assert.Zero(t, p.Program())

	require.Len(t, p.Errors(), 2)
	var compileErr *renderer.CompileError
	require.True(t, errors.As(p.Errors()[0], &compileErr))
	assert.Equal(t, shader.ShaderTypeFragment, compileErr.Stage)
	var linkErr *renderer.LinkError
	assert.True(t, errors.As(p.Errors()[1], &linkErr))

	assert.Equal(t, int32(-1), p.AttributeLocation(shader.AttributePosition))
	assert.Equal(t, int32(-1), p.UniformLocation(shader.UniformModelView))
	assert.Zero(t, rec.Count(rendertest.OpEnableAttrib))

	ops := rec.Ops()
	assert.Equal(t, []rendertest.Op{rendertest.OpCompile, rendertest.OpCompile, rendertest.OpLink}, ops)
}

func TestPipelineMalformedWGSLFragmentIsUnusable(t *testing.T) {
	r, rec := newRenderer(t, renderer.BackendTypeWGPU)
	vs, fs := shader.CubeShaders(shader.LanguageWGSL)
	src := fs.Source()
	broken := shader.NewShader("cube.frag.wgsl", shader.ShaderTypeFragment, shader.LanguageWGSL,
		src[:strings.LastIndex(src, "}")])

	var p pipeline.Pipeline
	require.NotPanics(t, func() {
		p = pipeline.NewPipeline("cube", r, pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(broken))
	})

	assert.False(t, p.Usable())
	assert.NotZero(t, p.Stage(shader.ShaderTypeVertex))
	assert.Zero(t, p.Stage(shader.ShaderTypeFragment))
	require.Len(t, p.Errors(), 2)
	var compileErr *renderer.CompileError
	require.True(t, errors.As(p.Errors()[0], &compileErr))
	assert.Equal(t, "cube.frag.wgsl", compileErr.Key)
	var linkErr *renderer.LinkError
	assert.True(t, errors.As(p.Errors()[1], &linkErr))
	assert.Equal(t, 1, rec.Count(rendertest.OpLink))
}

func TestPipelineCompilerRejection(t *testing.T) {
	r, rec := newRenderer(t, renderer.BackendTypeWGPU)
	rec.CompileErrors["cube.vert.wgsl"] = "error: expected ';'"

	p := pipeline.NewPipeline("cube", r)
	assert.False(t, p.Usable())
	require.NotEmpty(t, p.Errors())
	assert.True(t, strings.Contains(p.Errors()[0].Error(), "expected ';'"))
}

func TestPipelineUnresolvedAttributeIsUnusable(t *testing.T) {
	r, _ := newRenderer(t, renderer.BackendTypeOpenGL)
	p := pipeline.NewPipeline("cube", r, pipeline.WithAttributes(shader.AttributePosition, "vertexNormal"))

	assert.True(t, p.Linked())
	assert.False(t, p.Usable())
	assert.Equal(t, int32(-1), p.AttributeLocation("vertexNormal"))
}

func TestPipelineCustomUniforms(t *testing.T) {
	r, _ := newRenderer(t, renderer.BackendTypeOpenGL)
	p := pipeline.NewPipeline("cube", r, pipeline.WithUniforms(shader.UniformSampler))

	assert.Equal(t, int32(2), p.UniformLocation(shader.UniformSampler))
	assert.Equal(t, int32(-1), p.UniformLocation(shader.UniformProjection))
	assert.Equal(t, "cube", p.PipelineKey())
	assert.Equal(t, "cube.vert.glsl", p.Shader(shader.ShaderTypeVertex).Key())
}
