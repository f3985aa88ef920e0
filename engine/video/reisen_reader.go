package video

import (
	"errors"
	"image"
	"io"

	"github.com/cogentcore/reisen"
)

// FrameReader yields the decoded frames of one video stream in presentation order.
type FrameReader interface {
	// ReadFrame decodes the next frame. It returns io.EOF once the stream is exhausted.
	ReadFrame() (*image.RGBA, error)
	// Rewind seeks back to the first frame.
	Rewind() error
	// FrameRate returns the nominal frames per second, or 0 if unknown.
	FrameRate() float64
	// Close releases the decoder.
	Close() error
}

// Opener opens a FrameReader for a file path.
type Opener func(path string) (FrameReader, error)

// reisenReader decodes the first video stream of a media file with ffmpeg through reisen.
// Audio packets are skipped.
type reisenReader struct {
	media  *reisen.Media
	stream *reisen.VideoStream
}

// OpenReisen is the default Opener.
func OpenReisen(path string) (FrameReader, error) {
	media, err := reisen.NewMedia(path)
	if err != nil {
		return nil, err
	}
	if err := media.OpenDecode(); err != nil {
		media.Close()
		return nil, err
	}
	streams := media.VideoStreams()
	if len(streams) == 0 {
		media.CloseDecode()
		media.Close()
		return nil, errors.New("no video stream")
	}
	if err := streams[0].Open(); err != nil {
		media.CloseDecode()
		media.Close()
		return nil, err
	}
	return &reisenReader{media: media, stream: streams[0]}, nil
}

func (r *reisenReader) ReadFrame() (*image.RGBA, error) {
	for {
		packet, gotPacket, err := r.media.ReadPacket()
		if err != nil {
			return nil, err
		}
		if !gotPacket {
			return nil, io.EOF
		}
		if packet.Type() != reisen.StreamVideo || packet.StreamIndex() != r.stream.Index() {
			continue
		}

		frame, gotFrame, err := r.stream.ReadVideoFrame()
		if err != nil {
			return nil, err
		}
		if !gotFrame || frame == nil {
			continue
		}
		return frame.Image(), nil
	}
}

func (r *reisenReader) Rewind() error {
	return r.stream.Rewind(0)
}

func (r *reisenReader) FrameRate() float64 {
	num, den := r.stream.FrameRate()
	if num <= 0 || den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func (r *reisenReader) Close() error {
	err := r.stream.Close()
	err = errors.Join(err, r.media.CloseDecode())
	r.media.Close()
	return err
}
