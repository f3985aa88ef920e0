package common

import "image"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// FlipRGBA returns a copy of the pixel rows of img in bottom-to-top order.
// Image rows are stored top row first while texture uploads expect the first row to be the bottom
// of the texture, so every video frame passes through here before it reaches the GPU.
//
// Parameters:
//   - img: the source image, which is not modified
//
// Returns:
//   - []byte: tightly packed RGBA rows, bottom row first, or nil if img is nil or empty
func FlipRGBA(img *image.RGBA) []byte {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	rowLen := w * 4
	out := make([]byte, rowLen*h)
	for y := range h {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		dst := (h - 1 - y) * rowLen
		copy(out[dst:dst+rowLen], img.Pix[src:src+rowLen])
	}
	return out
}
