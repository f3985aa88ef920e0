package texture

import "github.com/Carmen-Shannon/oxy-cube/engine/renderer"

type VideoTextureBuilderOption func(*videoTextureImpl)

// WithLabel sets the debug label of the texture.
func WithLabel(label string) VideoTextureBuilderOption {
	return func(t *videoTextureImpl) {
		t.label = label
	}
}

// WithParams overrides the sampling parameters.
func WithParams(params renderer.TextureParams) VideoTextureBuilderOption {
	return func(t *videoTextureImpl) {
		t.params = params
	}
}

// WithFlipY sets whether rows are reversed on upload. Defaults to true.
func WithFlipY(flip bool) VideoTextureBuilderOption {
	return func(t *videoTextureImpl) {
		t.flipY = flip
	}
}
