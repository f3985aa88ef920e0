package video

// DecoderBuilderOption is a functional option applied to a decoder during construction via NewDecoder.
type DecoderBuilderOption func(*decoderImpl)

// WithOpener replaces the function used to open the file. The default decodes with reisen.
//
// Parameters:
//   - open: the opener
//
// Returns:
//   - DecoderBuilderOption: a function that sets the opener
func WithOpener(open Opener) DecoderBuilderOption {
	return func(d *decoderImpl) {
		if open != nil {
			d.open = open
		}
	}
}

// WithFrameRate overrides the playback rate reported by the stream.
//
// Parameters:
//   - fps: frames per second, ignored when not positive
//
// Returns:
//   - DecoderBuilderOption: a function that sets the frame rate
func WithFrameRate(fps float64) DecoderBuilderOption {
	return func(d *decoderImpl) {
		d.frameRate = fps
	}
}
