// Package video decodes a looping, muted video file on a background goroutine and exposes the
// most recently decoded frame.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// DefaultFrameRate is used when the stream does not report a frame rate.
const DefaultFrameRate = 30

// LoadError reports that a video asset could not be opened or decoded.
type LoadError struct {
	Asset string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("video: load %q: %v", e.Asset, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FrameSource exposes the current frame of a playing video.
type FrameSource interface {
	// Frame returns the most recently decoded frame, or nil if none is available yet. The
	// source keeps ownership of the image; callers must not retain it across frames.
	//
	// Returns:
	//   - *image.RGBA: the current frame or nil
	Frame() *image.RGBA
}

type decoderImpl struct {
	mu *sync.Mutex

	path      string
	open      Opener
	frameRate float64

	frame   *image.RGBA
	err     error
	started atomic.Bool
	decoded atomic.Uint64
	loops   atomic.Uint64
}

// Decoder is a FrameSource that plays a video file in a loop, forever, at the stream's frame
// rate. Playback starts with Start and runs on its own goroutine; the render thread only ever
// reads the latest frame and never waits on decoding.
type Decoder interface {
	FrameSource

	// Path returns the video file path.
	//
	// Returns:
	//   - string: the path
	Path() string

	// Start opens the file and begins decoding in the background. Later calls are ignored.
	// Decoding stops when ctx is done.
	//
	// Parameters:
	//   - ctx: bounds the lifetime of the decoding goroutine
	Start(ctx context.Context)

	// Err returns the *LoadError that stopped decoding, if any.
	//
	// Returns:
	//   - error: the failure or nil
	Err() error

	// Decoded returns the number of frames decoded so far.
	//
	// Returns:
	//   - uint64: the decoded frame count
	Decoded() uint64

	// Loops returns how many times playback wrapped back to the first frame.
	//
	// Returns:
	//   - uint64: the loop count
	Loops() uint64
}

var _ Decoder = &decoderImpl{}

// NewDecoder creates a Decoder for the file at path. Nothing is opened until Start.
//
// Parameters:
//   - path: the video file path
//   - options: functional options to configure the decoder
//
// Returns:
//   - Decoder: the decoder
func NewDecoder(path string, options ...DecoderBuilderOption) Decoder {
	d := &decoderImpl{
		mu:   &sync.Mutex{},
		path: path,
		open: OpenReisen,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *decoderImpl) Path() string {
	return d.path
}

func (d *decoderImpl) Frame() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *decoderImpl) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *decoderImpl) Decoded() uint64 {
	return d.decoded.Load()
}

func (d *decoderImpl) Loops() uint64 {
	return d.loops.Load()
}

func (d *decoderImpl) Start(ctx context.Context) {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run(ctx)
}

func (d *decoderImpl) run(ctx context.Context) {
	reader, err := d.open(d.path)
	if err != nil {
		d.fail(err)
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			common.Logger().Debug("video close", "asset", d.path, "error", err)
		}
	}()

	rate := d.frameRate
	if rate <= 0 {
		rate = common.Coalesce(reader.FrameRate(), DefaultFrameRate)
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()
	common.Logger().Info("video playing", "asset", d.path, "fps", rate)

	sinceRewind := 0
	for {
		img, err := reader.ReadFrame()
		switch {
		case errors.Is(err, io.EOF):
			if sinceRewind == 0 {
				d.fail(errors.New("stream has no frames"))
				return
			}
			if err := reader.Rewind(); err != nil {
				d.fail(fmt.Errorf("rewind: %w", err))
				return
			}
			sinceRewind = 0
			d.loops.Add(1)
			continue
		case err != nil:
			d.fail(err)
			return
		}

		sinceRewind++
		d.decoded.Add(1)
		d.mu.Lock()
		d.frame = img
		d.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *decoderImpl) fail(err error) {
	loadErr := &LoadError{Asset: d.path, Err: err}
	common.Logger().Error("video asset failed", "asset", d.path, "error", err)
	d.mu.Lock()
	d.err = loadErr
	d.mu.Unlock()
}
