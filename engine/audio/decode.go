// Package audio loads a two-part soundtrack and schedules it on the speaker: the first clip plays
// once, the second loops forever starting a fixed gap after the first one ends.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/h2non/filetype"
)

// LoadError reports that an audio asset could not be fetched or decoded.
type LoadError struct {
	Asset string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("audio: load %q: %v", e.Asset, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Clip is a fully decoded audio asset held in memory.
type Clip struct {
	Asset  string
	Format beep.Format
	Buffer *beep.Buffer
}

// Duration returns the natural length of the clip.
func (c *Clip) Duration() time.Duration {
	if c == nil || c.Buffer == nil {
		return 0
	}
	return c.Format.SampleRate.D(c.Buffer.Len())
}

// Streamer returns a new streamer over the whole clip.
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.Buffer.Streamer(0, c.Buffer.Len())
}

// Decode sniffs the container format of data and decodes it fully into memory. Ogg Vorbis, WAV
// and MP3 are supported.
//
// Parameters:
//   - asset: the asset name, used in errors
//   - data: the encoded bytes
//
// Returns:
//   - *Clip: the decoded clip
//   - error: an error if the format is unknown or decoding fails
func Decode(asset string, data []byte) (*Clip, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("sniff format: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch kind.Extension {
	case "ogg":
		streamer, format, err = vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	case "wav":
		streamer, format, err = wav.Decode(bytes.NewReader(data))
	case "mp3":
		streamer, format, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("unsupported audio format %q", kind.Extension)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.Extension, err)
	}
	if buf.Len() == 0 {
		return nil, errors.New("no samples")
	}
	return &Clip{Asset: asset, Format: format, Buffer: buf}, nil
}
