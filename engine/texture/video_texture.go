// Package texture binds a video frame source to a GPU texture that is refreshed every frame.
package texture

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/video"
)

type videoTextureImpl struct {
	renderer renderer.Renderer
	source   video.FrameSource
	handle   renderer.Handle

	label  string
	params renderer.TextureParams
	flipY  bool

	refreshes atomic.Uint64
	uploads   atomic.Uint64
}

// VideoTexture is a texture whose contents are replaced by the source's current frame on every
// Refresh. The frame is sampled, not kept: texture contents are only meaningful right after a
// refresh.
type VideoTexture interface {
	// Handle returns the backend texture handle.
	//
	// Returns:
	//   - renderer.Handle: the texture handle
	Handle() renderer.Handle

	// Source returns the frame source the texture samples.
	//
	// Returns:
	//   - video.FrameSource: the source
	Source() video.FrameSource

	// Refresh uploads the source's current frame, flipped so its first row lands at the bottom
	// of the texture. When the source has no frame yet the upload is skipped and the texture keeps
	// its previous contents. Must be called exactly once per rendered frame.
	//
	// Returns:
	//   - error: an error if the backend rejected the upload
	Refresh() error

	// Refreshes returns the number of Refresh calls.
	//
	// Returns:
	//   - uint64: the refresh count
	Refreshes() uint64

	// Uploads returns the number of refreshes that actually uploaded a frame.
	//
	// Returns:
	//   - uint64: the upload count
	Uploads() uint64
}

var _ VideoTexture = &videoTextureImpl{}

// NewVideoTexture creates the texture object with nearest filtering, no mipmaps and
// clamp-to-edge wrapping, and associates it with source.
//
// Parameters:
//   - r: the renderer to create the texture on
//   - source: the frame source to sample
//   - options: functional options to configure the texture
//
// Returns:
//   - VideoTexture: the texture
//   - error: an error if the texture could not be created
func NewVideoTexture(r renderer.Renderer, source video.FrameSource, options ...VideoTextureBuilderOption) (VideoTexture, error) {
	t := &videoTextureImpl{
		renderer: r,
		source:   source,
		label:    "video",
		params: renderer.TextureParams{
			MinFilter: renderer.FilterNearest,
			MagFilter: renderer.FilterNearest,
			Wrap:      renderer.WrapClampToEdge,
		},
		flipY: true,
	}
	for _, option := range options {
		option(t)
	}

	h, err := r.CreateTexture(t.label, t.params)
	if err != nil {
		return nil, err
	}
	t.handle = h
	return t, nil
}

func (t *videoTextureImpl) Handle() renderer.Handle {
	return t.handle
}

func (t *videoTextureImpl) Source() video.FrameSource {
	return t.source
}

func (t *videoTextureImpl) Refresh() error {
	t.refreshes.Add(1)
	if t.source == nil {
		return nil
	}
	data := common.NewTextureStagingData(t.source.Frame(), t.flipY)
	if data.Empty() {
		return nil
	}
	if err := t.renderer.UploadTexture(t.handle, data); err != nil {
		return err
	}
	t.uploads.Add(1)
	return nil
}

func (t *videoTextureImpl) Refreshes() uint64 {
	return t.refreshes.Load()
}

func (t *videoTextureImpl) Uploads() uint64 {
	return t.uploads.Load()
}
