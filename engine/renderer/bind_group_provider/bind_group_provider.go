package bind_group_provider

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.

	// bindGroup is the GPU bind group built from the current resources, or nil until first built.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the layout every bind group of this provider is built against.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the uniform buffers, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textureViews holds the texture views, keyed by binding index. Views are borrowed from
	// the texture that owns them and are not released here.
	textureViews map[int]*wgpu.TextureView
	// samplers holds the samplers, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// stale is set whenever a resource changes after the bind group was built.
	stale bool
}

// BindGroupProvider holds the WebGPU resources bound to one program: a uniform buffer per
// value binding, a texture view per texture binding and a sampler per sampler binding, plus
// the bind group built from them.
//
// Usage pattern:
//  1. The backend links a program and creates the provider with the program's layout
//  2. The backend creates a buffer or sampler for every layout entry and stores it here
//  3. Each draw stores the current texture views; a changed view marks the provider stale
//  4. A stale or missing bind group is rebuilt from BindGroupEntries before the draw
type BindGroupProvider interface {
	// Release releases the buffers, samplers, bind group and layout held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the last built bind group, or nil.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// SetBindGroup stores a freshly built bind group, releasing the previous one, and clears
	// the stale flag.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// BindGroupLayout returns the layout the bind group is built against.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the uniform buffer for a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores the uniform buffer for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// TextureView returns the texture view for a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// SetTextureView stores the texture view for a binding. Storing a different view than the
	// current one marks the provider stale.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv *wgpu.TextureView)

	// Sampler returns the sampler for a binding, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// SetSampler stores the sampler for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)

	// Stale reports whether the bind group must be rebuilt before the next draw.
	//
	// Returns:
	//   - bool: true if no bind group exists or a resource changed since it was built
	Stale() bool

	// BindGroupEntries builds the bind group entries for a layout descriptor from the stored
	// resources.
	//
	// Parameters:
	//   - descriptor: the layout descriptor whose entries must be satisfied
	//
	// Returns:
	//   - []wgpu.BindGroupEntry: one entry per layout entry
	//   - error: an error naming the first binding without a resource
	BindGroupEntries(descriptor wgpu.BindGroupLayoutDescriptor) ([]wgpu.BindGroupEntry, error)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label used for every GPU object built from this provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
		stale:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	p.stale = bg == nil
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers[binding] != buf {
		p.stale = true
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	if p.textureViews[binding] != tv {
		p.stale = true
	}
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	if p.samplers[binding] != s {
		p.stale = true
	}
	p.samplers[binding] = s
}

func (p *bindGroupProvider) Stale() bool {
	return p.stale || p.bindGroup == nil
}

func (p *bindGroupProvider) BindGroupEntries(descriptor wgpu.BindGroupLayoutDescriptor) ([]wgpu.BindGroupEntry, error) {
	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := p.textureViews[binding]
			if tv == nil {
				return nil, fmt.Errorf("%s: texture binding %d has no texture view", p.label, binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := p.samplers[binding]
			if s == nil {
				return nil, fmt.Errorf("%s: sampler binding %d has no sampler", p.label, binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}
		default:
			buf := p.buffers[binding]
			if buf == nil {
				return nil, fmt.Errorf("%s: buffer binding %d has no buffer", p.label, binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Buffer: buf, Offset: 0, Size: wgpu.WholeSize}
		}
	}
	return entries, nil
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for k, buf := range p.buffers {
		buf.Release()
		delete(p.buffers, k)
	}
	for k, s := range p.samplers {
		s.Release()
		delete(p.samplers, k)
	}
	clear(p.textureViews)
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	p.stale = true
}

// BufferWrite is one pending queue write into a uniform buffer of a provider. The backend
// collects the matrix writes for a draw and flushes them together before binding.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
