package renderer

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDeviceFreeBackend returns a backend whose device is never touched by the paths under test.
func newDeviceFreeBackend() *wgpuRendererBackendImpl {
	return &wgpuRendererBackendImpl{
		mu:       &sync.Mutex{},
		buffers:  make(map[Handle]*wgpu.Buffer),
		stages:   make(map[Handle]*wgpuStage),
		programs: make(map[Handle]*wgpuProgram),
		textures: make(map[Handle]*wgpuTexture),
	}
}

func TestWGPUCompileRejectsMalformedWGSL(t *testing.T) {
	_, fs := shader.CubeShaders(shader.LanguageWGSL)
	src := fs.Source()
	broken := shader.NewShader("cube.frag.wgsl", shader.ShaderTypeFragment, shader.LanguageWGSL,
		src[:strings.LastIndex(src, "}")])

	b := newDeviceFreeBackend()
	var (
		stage, program Handle
		compileErr     error
		linkErr        error
	)
	require.NotPanics(t, func() {
		stage, compileErr = b.CompileShader(broken)
		program, linkErr = b.LinkProgram("cube", 1, stage)
	})

	assert.Zero(t, stage)
	var ce *CompileError
	require.True(t, errors.As(compileErr, &ce))
	assert.Equal(t, shader.ShaderTypeFragment, ce.Stage)
	assert.Equal(t, "cube.frag.wgsl", ce.Key)
	assert.NotEmpty(t, ce.Log)

	assert.Zero(t, program)
	var le *LinkError
	require.True(t, errors.As(linkErr, &le))
	assert.Empty(t, b.stages)
	assert.Empty(t, b.programs)
}

func TestWGPUCompileRejectsGLSL(t *testing.T) {
	vs, _ := shader.CubeShaders(shader.LanguageGLSL)
	h, err := newDeviceFreeBackend().CompileShader(vs)
	assert.Zero(t, h)
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Log, "wgsl")
}

func TestProgramBindGroupLayoutRequiresGroupZero(t *testing.T) {
	entries := []wgpu.BindGroupLayoutEntry{{Binding: 0}}

	desc, err := programBindGroupLayout(map[int]wgpu.BindGroupLayoutDescriptor{0: {Entries: entries}})
	require.NoError(t, err)
	assert.Len(t, desc.Entries, 1)

	_, err = programBindGroupLayout(map[int]wgpu.BindGroupLayoutDescriptor{1: {Entries: entries}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind group 1")

	_, err = programBindGroupLayout(map[int]wgpu.BindGroupLayoutDescriptor{0: {Entries: entries}, 2: {Entries: entries}})
	require.Error(t, err)

	desc, err = programBindGroupLayout(map[int]wgpu.BindGroupLayoutDescriptor{})
	require.NoError(t, err)
	assert.Empty(t, desc.Entries)
}

func TestBindTexturesCarriesTextureSampler(t *testing.T) {
	b := newDeviceFreeBackend()
	view, samp := &wgpu.TextureView{}, &wgpu.Sampler{}
	b.textures[5] = &wgpuTexture{label: "video", view: view, sampler: samp}

	p := &wgpuProgram{
		provider: bind_group_provider.NewBindGroupProvider("cube"),
		textures: map[int]bool{2: true},
		samplers: map[int]bool{3: true},
	}
	p.provider.SetBindGroup(&wgpu.BindGroup{})

	b.bindTextures(p, []TextureBinding{
		{Location: -1, Texture: 5},
		{Location: 2, Texture: 99},
	})
	assert.Nil(t, p.provider.TextureView(2))
	assert.Nil(t, p.provider.Sampler(3))

	b.bindTextures(p, []TextureBinding{{Location: 2, Unit: 0, Texture: 5}})
	assert.Same(t, view, p.provider.TextureView(2))
	assert.Same(t, samp, p.provider.Sampler(3))
	assert.True(t, p.provider.Stale())
}

func TestWGPUSamplerFollowsTextureParams(t *testing.T) {
	s := wgpuSampler(TextureParams{})
	assert.Equal(t, wgpu.FilterModeNearest, s.MinFilter)
	assert.Equal(t, wgpu.FilterModeNearest, s.MagFilter)
	assert.Equal(t, wgpu.AddressModeClampToEdge, s.AddressModeU)

	s = wgpuSampler(TextureParams{MinFilter: FilterLinear, MagFilter: FilterLinear, Wrap: WrapRepeat})
	assert.Equal(t, wgpu.FilterModeLinear, s.MinFilter)
	assert.Equal(t, wgpu.FilterModeLinear, s.MagFilter)
	assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeU)
	assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeV)
}
