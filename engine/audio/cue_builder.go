package audio

import "io/fs"

// CueBuilderOption is a functional option for configuring a Cue.
type CueBuilderOption func(*cue)

// WithFS sets the file system audio assets are read from.
//
// Parameters:
//   - fsys: the asset file system
//
// Returns:
//   - CueBuilderOption: a function that applies the file system option to a cue
func WithFS(fsys fs.FS) CueBuilderOption {
	return func(c *cue) {
		c.fsys = fsys
	}
}

// WithMixer sets the output device.
//
// Parameters:
//   - m: the mixer to play through
//
// Returns:
//   - CueBuilderOption: a function that applies the mixer option to a cue
func WithMixer(m Mixer) CueBuilderOption {
	return func(c *cue) {
		c.mixer = m
	}
}

// WithWorkers sets how many assets are decoded in parallel. Values below 1 are ignored.
func WithWorkers(n int) CueBuilderOption {
	return func(c *cue) {
		if n > 0 {
			c.workers = n
		}
	}
}
