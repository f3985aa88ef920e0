package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// wgpuStage is a compiled shader stage.
type wgpuStage struct {
	source shader.Shader
	module *wgpu.ShaderModule
}

// wgpuProgram is a linked render pipeline together with the resources its bindings need.
type wgpuProgram struct {
	pipeline  *wgpu.RenderPipeline
	layout    wgpu.BindGroupLayoutDescriptor
	vertex    shader.Shader
	fragment  shader.Shader
	provider  bind_group_provider.BindGroupProvider
	slots     map[int32]uint32
	textures  map[int]bool
	samplers  map[int]bool
	valueSize map[int]uint64
}

// wgpuTexture is a sampled texture that is recreated whenever an upload changes its size. The
// sampler is built from the texture's parameters and follows the texture into every bind group.
type wgpuTexture struct {
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
	width   uint32
	height  uint32
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView
	presentMode      wgpu.PresentMode

	nextHandle Handle
	buffers    map[Handle]*wgpu.Buffer
	stages     map[Handle]*wgpuStage
	programs   map[Handle]*wgpuProgram
	textures   map[Handle]*wgpuTexture

	// Frame state between BeginFrame and EndFrame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the instance, surface, adapter, device and queue for the
// surface and configures the swapchain at the surface's current size.
func newWGPURendererBackend(surface Surface, forceFallbackAdapter bool, mode PresentMode) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	descriptor := surface.SurfaceDescriptor()
	if descriptor == nil {
		return nil, errors.New("surface has no webgpu descriptor")
	}

	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		buffers:     make(map[Handle]*wgpu.Buffer),
		stages:      make(map[Handle]*wgpuStage),
		programs:    make(map[Handle]*wgpuProgram),
		textures:    make(map[Handle]*wgpuTexture),
	}
	if mode == PresentModeUncapped {
		w.presentMode = wgpu.PresentModeImmediate
	}
	w.surface = w.instance.CreateSurface(descriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.configureSurface(surface.Width(), surface.Height()); err != nil {
		return nil, err
	}
	return w, nil
}

// configureSurface configures the swapchain and (re)creates the depth texture at the given size.
// A non-sRGB surface format is preferred so that video pixels are written unchanged, matching
// the OpenGL backend.
func (b *wgpuRendererBackendImpl) configureSurface(width, height int) error {
	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	for _, f := range capabilities.Formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			b.surfaceFormat = f
			break
		}
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(max(width, 1)),
			Height:             uint32(max(height, 1)),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create depth view: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeWGPU
}

func (b *wgpuRendererBackendImpl) Language() shader.Language {
	return shader.LanguageWGSL
}

func (b *wgpuRendererBackendImpl) ConfigureViewport(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.configureSurface(width, height); err != nil {
		common.Logger().Error("configure surface", "error", err)
	}
}

func (b *wgpuRendererBackendImpl) handle() Handle {
	b.nextHandle++
	return b.nextHandle
}

func (b *wgpuRendererBackendImpl) CreateVertexBuffer(label string, data []float32) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bytes := common.SliceToBytes(data)
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + " Vertex Buffer",
		Size:             uint64(len(bytes)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return 0, err
	}
	b.queue.WriteBuffer(buf, 0, bytes)

	h := b.handle()
	b.buffers[h] = buf
	return h, nil
}

// CompileShader validates the WGSL source with naga before handing it to the device, so a
// malformed stage is reported with a readable log instead of a device error callback.
func (b *wgpuRendererBackendImpl) CompileShader(s shader.Shader) (Handle, error) {
	if s.Language() != shader.LanguageWGSL {
		return 0, &CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: "webgpu requires wgsl, got " + s.Language().String()}
	}
	if _, err := naga.Compile(s.Source()); err != nil {
		return 0, &CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: err.Error()}
	}
	if s.EntryPoint() == "" {
		return 0, &CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: "no @" + s.ShaderType().String() + " entry point"}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	module, err := b.device.CreateShaderModule(s.Module())
	if err != nil {
		return 0, &CompileError{Stage: s.ShaderType(), Key: s.Key(), Log: err.Error()}
	}
	h := b.handle()
	b.stages[h] = &wgpuStage{source: s, module: module}
	return h, nil
}

func (b *wgpuRendererBackendImpl) LinkProgram(label string, vertex, fragment Handle) (Handle, error) {
	if vertex == 0 || fragment == 0 {
		return 0, &LinkError{Label: label, Log: missingStageLog(vertex, fragment)}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vs, fs := b.stages[vertex], b.stages[fragment]
	if vs == nil || fs == nil {
		return 0, &LinkError{Label: label, Log: "unknown stage handle"}
	}
	if vs.source.ShaderType() != shader.ShaderTypeVertex || fs.source.ShaderType() != shader.ShaderTypeFragment {
		return 0, &LinkError{Label: label, Log: "stages are not a vertex and fragment pair"}
	}

	desc, err := programBindGroupLayout(mergeBindGroupLayouts(vs.source.BindGroupLayoutDescriptors(), fs.source.BindGroupLayoutDescriptors()))
	if err != nil {
		return 0, &LinkError{Label: label, Log: err.Error()}
	}
	desc.Label = label + " Bind Group Layout"

	layout, err := b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return 0, &LinkError{Label: label, Log: err.Error()}
	}
	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		layout.Release()
		return 0, &LinkError{Label: label, Log: err.Error()}
	}
	defer pipelineLayout.Release()

	vertexLayouts := vs.source.VertexBufferLayouts()
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: vs.source.EntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs.module,
			EntryPoint: fs.source.EntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		layout.Release()
		return 0, &LinkError{Label: label, Log: err.Error()}
	}

	p := &wgpuProgram{
		pipeline:  created,
		layout:    desc,
		vertex:    vs.source,
		fragment:  fs.source,
		provider:  bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithBindGroupLayout(layout)),
		slots:     make(map[int32]uint32),
		textures:  make(map[int]bool),
		samplers:  make(map[int]bool),
		valueSize: make(map[int]uint64),
	}
	for slot, vl := range vertexLayouts {
		for _, attr := range vl.Attributes {
			p.slots[int32(attr.ShaderLocation)] = uint32(slot)
		}
	}
	if err := b.initProgramResources(p); err != nil {
		p.provider.Release()
		created.Release()
		return 0, &LinkError{Label: label, Log: err.Error()}
	}

	h := b.handle()
	b.programs[h] = p
	return h, nil
}

// initProgramResources creates a uniform buffer for every value binding of the program's layout.
// Texture and sampler bindings are only recorded; Draw fills them from the bound texture.
func (b *wgpuRendererBackendImpl) initProgramResources(p *wgpuProgram) error {
	for _, entry := range p.layout.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			p.textures[binding] = true
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			p.samplers[binding] = true
		default:
			size := common.Coalesce(entry.Buffer.MinBindingSize, 64)
			buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s Uniform %d", p.provider.Label(), binding),
				Size:  size,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return err
			}
			p.provider.SetBuffer(binding, buf)
			p.valueSize[binding] = size
		}
	}
	return nil
}

// AttribLocation resolves to the @location of the named vertex input.
func (b *wgpuRendererBackendImpl) AttribLocation(program Handle, name string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.programs[program]
	if p == nil {
		return -1
	}
	loc, ok := p.vertex.AttributeLocation(name)
	if !ok || loc < 0 {
		return -1
	}
	return int32(loc)
}

// UniformLocation resolves to the @binding of the named group 0 variable in either stage.
func (b *wgpuRendererBackendImpl) UniformLocation(program Handle, name string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.programs[program]
	if p == nil {
		return -1
	}
	for _, s := range []shader.Shader{p.vertex, p.fragment} {
		if binding, ok := s.BindGroupFromVarName(0, name); ok {
			return int32(binding)
		}
	}
	return -1
}

// EnableVertexAttribArray is a no-op: the pipeline's vertex layout already enables every input.
func (b *wgpuRendererBackendImpl) EnableVertexAttribArray(Handle, int32) {}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, params TextureParams) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := wgpuSampler(params)
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  s.AddressModeU,
		AddressModeV:  s.AddressModeV,
		AddressModeW:  s.AddressModeW,
		MagFilter:     s.MagFilter,
		MinFilter:     s.MinFilter,
		MipmapFilter:  s.MipmapFilter,
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   s.LodMaxClamp,
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	})
	if err != nil {
		return 0, err
	}
	t := &wgpuTexture{label: label, sampler: samp}
	// Until the first upload the texture is a single black texel.
	if err := b.allocateTexture(t, 1, 1); err != nil {
		samp.Release()
		return 0, err
	}
	b.writeTexture(t, common.TextureStagingData{Pixels: []byte{0, 0, 0, 255}, Width: 1, Height: 1})

	h := b.handle()
	b.textures[h] = t
	return h, nil
}

func (b *wgpuRendererBackendImpl) allocateTexture(t *wgpuTexture, width, height uint32) error {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     t.label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	if t.view != nil {
		t.view.Release()
		t.texture.Release()
	}
	t.texture, t.view, t.width, t.height = tex, view, width, height
	return nil
}

func (b *wgpuRendererBackendImpl) writeTexture(t *wgpuTexture, data common.TextureStagingData) {
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (b *wgpuRendererBackendImpl) UploadTexture(texture Handle, data common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.textures[texture]
	if t == nil {
		return fmt.Errorf("unknown texture %d", texture)
	}
	if t.width != data.Width || t.height != data.Height {
		if err := b.allocateTexture(t, data.Width, data.Height); err != nil {
			return err
		}
	}
	b.writeTexture(t, data)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame(clear [4]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear[0]), G: float64(clear[1]), B: float64(clear[2]), A: float64(clear[3]),
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(cmd DrawCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw outside of a frame")
	}
	p := b.programs[cmd.Program]
	if p == nil {
		return fmt.Errorf("unknown program %d", cmd.Program)
	}

	writes := make([]bind_group_provider.BufferWrite, 0, len(cmd.Matrices))
	for _, m := range cmd.Matrices {
		if m.Location < 0 {
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: p.provider,
			Binding:  int(m.Location),
			Data:     common.MatrixToBytes(m.Value),
		})
	}
	b.flushBufferWrites(writes, p.valueSize)
	b.bindTextures(p, cmd.Textures)
	if p.provider.Stale() {
		entries, err := p.provider.BindGroupEntries(p.layout)
		if err != nil {
			return err
		}
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   p.provider.Label() + " Bind Group",
			Layout:  p.provider.BindGroupLayout(),
			Entries: entries,
		})
		if err != nil {
			return err
		}
		p.provider.SetBindGroup(bg)
	}

	b.framePass.SetPipeline(p.pipeline)
	b.framePass.SetBindGroup(0, p.provider.BindGroup(), nil)
	for _, a := range cmd.Attributes {
		slot, ok := p.slots[a.Location]
		buf := b.buffers[a.Buffer]
		if a.Location < 0 || !ok || buf == nil {
			continue
		}
		b.framePass.SetVertexBuffer(slot, buf, 0, wgpu.WholeSize)
	}
	b.framePass.Draw(uint32(cmd.VertexCount), 1, 0, 0)
	return nil
}

// bindTextures points each texture binding at its texture's view and the program's sampler
// bindings at the sampler built from that texture's parameters.
func (b *wgpuRendererBackendImpl) bindTextures(p *wgpuProgram, bindings []TextureBinding) {
	for _, t := range bindings {
		tex := b.textures[t.Texture]
		if t.Location < 0 || tex == nil || !p.textures[int(t.Location)] {
			continue
		}
		p.provider.SetTextureView(int(t.Location), tex.view)
		for binding := range p.samplers {
			p.provider.SetSampler(binding, tex.sampler)
		}
	}
}

// flushBufferWrites queues every write against its provider's buffer. Writes to bindings that
// have no buffer, or that would overflow it, are dropped.
func (b *wgpuRendererBackendImpl) flushBufferWrites(writes []bind_group_provider.BufferWrite, sizes map[int]uint64) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil || w.Offset+uint64(len(w.Data)) > sizes[w.Binding] {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return nil
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
		b.surface.Present()
	}

	b.framePass.Release()
	b.frameEncoder.Release()
	b.frameView.Release()
	b.frameSurface.Release()
	b.frameEncoder = nil
	b.framePass = nil
	b.frameView = nil
	b.frameSurface = nil
	return err
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for h, p := range b.programs {
		p.provider.Release()
		p.pipeline.Release()
		delete(b.programs, h)
	}
	for h, s := range b.stages {
		s.module.Release()
		delete(b.stages, h)
	}
	for h, t := range b.textures {
		t.view.Release()
		t.texture.Release()
		t.sampler.Release()
		delete(b.textures, h)
	}
	for h, buf := range b.buffers {
		buf.Release()
		delete(b.buffers, h)
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTexture.Release()
	}
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}

// wgpuSampler maps texture parameters onto a sampler descriptor.
func wgpuSampler(params TextureParams) common.SamplerStagingData {
	s := common.NearestClampSampler
	if params.MagFilter == FilterLinear {
		s.MagFilter = wgpu.FilterModeLinear
	}
	if params.MinFilter == FilterLinear {
		s.MinFilter = wgpu.FilterModeLinear
	}
	if params.Wrap == WrapRepeat {
		s.AddressModeU = wgpu.AddressModeRepeat
		s.AddressModeV = wgpu.AddressModeRepeat
		s.AddressModeW = wgpu.AddressModeRepeat
	}
	return s
}

// programBindGroupLayout returns the one bind group layout a program may use. Every binding must
// live in group 0; a program without bindings gets an empty layout.
func programBindGroupLayout(merged map[int]wgpu.BindGroupLayoutDescriptor) (wgpu.BindGroupLayoutDescriptor, error) {
	for g := range merged {
		if g != 0 {
			return wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("bind group %d declared, only bind group 0 is supported", g)
		}
	}
	return merged[0], nil
}

// mergeBindGroupLayouts unions the per-stage layouts, OR-ing the visibility of bindings both
// stages declare.
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, layouts := range []map[int]wgpu.BindGroupLayoutDescriptor{vertexLayouts, fragmentLayouts} {
		for g, desc := range layouts {
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range merged[g].Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range desc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}
			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})
			merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
		}
	}
	return merged
}
