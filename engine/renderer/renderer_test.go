package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorded(t *testing.T, bt renderer.RendererBackendType) (renderer.Renderer, *rendertest.Recorder) {
	t.Helper()
	rec := rendertest.NewRecorder(bt)
	r, err := renderer.NewRenderer(nil, renderer.WithBackend(rec))
	require.NoError(t, err)
	return r, rec
}

func TestNewRendererWithoutSurface(t *testing.T) {
	r, err := renderer.NewRenderer(nil)
	assert.Nil(t, r)

	var setupErr *renderer.SetupError
	require.True(t, errors.As(err, &setupErr))
	assert.Equal(t, renderer.BackendTypeOpenGL, setupErr.Backend)
	assert.Contains(t, err.Error(), "opengl")
}

func TestNewRendererWithInjectedBackend(t *testing.T) {
	r, _ := newRecorded(t, renderer.BackendTypeWGPU)
	assert.Equal(t, renderer.BackendTypeWGPU, r.BackendType())
	assert.Equal(t, shader.LanguageWGSL, r.ShaderLanguage())
}

func TestViewportAndAspectRatio(t *testing.T) {
	r, rec := newRecorded(t, renderer.BackendTypeOpenGL)
	assert.Equal(t, float32(1), r.AspectRatio())

	r.Viewport(800, 400)
	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)
	assert.Equal(t, float32(2), r.AspectRatio())
	assert.Equal(t, 1, rec.Count(rendertest.OpViewport))
}

func TestNullProgramNeverReachesBackend(t *testing.T) {
	r, rec := newRecorded(t, renderer.BackendTypeOpenGL)

	assert.Equal(t, int32(-1), r.AttribLocation(0, shader.AttributePosition))
	assert.Equal(t, int32(-1), r.UniformLocation(0, shader.UniformSampler))
	r.EnableVertexAttribArray(0, 0)
	r.EnableVertexAttribArray(1, -1)
	assert.Error(t, r.Draw(renderer.DrawCommand{VertexCount: 36}))

	assert.Empty(t, rec.Calls())
}

func TestDrawWithoutVerticesIsSkipped(t *testing.T) {
	r, rec := newRecorded(t, renderer.BackendTypeOpenGL)
	require.NoError(t, r.Draw(renderer.DrawCommand{Program: 3}))
	assert.Zero(t, rec.Count(rendertest.OpDraw))
}

func TestUploadTexture(t *testing.T) {
	r, rec := newRecorded(t, renderer.BackendTypeOpenGL)

	tex, err := r.CreateTexture("video", renderer.TextureParams{})
	require.NoError(t, err)

	require.NoError(t, r.UploadTexture(tex, common.TextureStagingData{}))
	assert.Zero(t, rec.Count(rendertest.OpUploadTexture))

	frame := common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}
	assert.Error(t, r.UploadTexture(0, frame))
	require.NoError(t, r.UploadTexture(tex, frame))
	assert.Equal(t, 1, rec.Count(rendertest.OpUploadTexture))
}

func TestCreateVertexBufferRejectsEmptyData(t *testing.T) {
	r, rec := newRecorded(t, renderer.BackendTypeOpenGL)

	_, err := r.CreateVertexBuffer("empty", nil)
	assert.Error(t, err)

	h, err := r.CreateVertexBuffer("tri", []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, rec.Buffer(h))
}

func TestLinkWithNullStageFails(t *testing.T) {
	r, _ := newRecorded(t, renderer.BackendTypeOpenGL)
	vs, _ := shader.CubeShaders(shader.LanguageGLSL)

	v, err := r.CompileShader(vs)
	require.NoError(t, err)

	prog, err := r.LinkProgram("cube", v, 0)
	assert.Zero(t, prog)
	var linkErr *renderer.LinkError
	assert.True(t, errors.As(err, &linkErr))
}

func TestBackendTypeString(t *testing.T) {
	assert.Equal(t, "opengl", renderer.BackendTypeOpenGL.String())
	assert.Equal(t, "webgpu", renderer.BackendTypeWGPU.String())
}
