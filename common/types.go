// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// Video frames are converted into this form once per frame before the backend writes them.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// NewTextureStagingData packs img into tightly packed RGBA rows.
//
// Parameters:
//   - img: the source frame
//   - flipY: when true the rows are reversed so the bottom row is uploaded first
//
// Returns:
//   - TextureStagingData: the staged pixels, empty if img is nil or has no area
func NewTextureStagingData(img *image.RGBA, flipY bool) TextureStagingData {
	if img == nil || img.Bounds().Empty() {
		return TextureStagingData{}
	}
	b := img.Bounds()
	var pix []byte
	if flipY {
		pix = FlipRGBA(img)
	} else {
		rowLen := b.Dx() * 4
		pix = make([]byte, 0, rowLen*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			pix = append(pix, img.Pix[off:off+rowLen]...)
		}
	}
	return TextureStagingData{Pixels: pix, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// Empty reports whether the staging data has no pixels to upload.
func (t TextureStagingData) Empty() bool {
	return len(t.Pixels) == 0 || t.Width == 0 || t.Height == 0
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level. Must be 1 for nearest filtering.
	MaxAnisotropy uint16
}

// NearestClampSampler is the sampler used for video textures: nearest filtering in both
// directions, no mipmaps, and coordinates clamped to the edge.
var NearestClampSampler = SamplerStagingData{
	AddressModeU:  wgpu.AddressModeClampToEdge,
	AddressModeV:  wgpu.AddressModeClampToEdge,
	AddressModeW:  wgpu.AddressModeClampToEdge,
	MagFilter:     wgpu.FilterModeNearest,
	MinFilter:     wgpu.FilterModeNearest,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMinClamp:   0,
	LodMaxClamp:   0,
	MaxAnisotropy: 1,
}
