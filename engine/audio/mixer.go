package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Mixer is the output device clips are played on.
type Mixer interface {
	// Init opens the device at the given sample rate. Only the first call has an effect.
	Init(rate beep.SampleRate) error
	// SampleRate returns the rate the device was opened at.
	SampleRate() beep.SampleRate
	// Play starts all streamers in the same mixing pass.
	Play(streamers ...beep.Streamer)
}

// speakerMixer plays through the beep speaker.
type speakerMixer struct {
	once sync.Once
	rate beep.SampleRate
	err  error
}

// NewSpeakerMixer returns a Mixer backed by the process-wide beep speaker.
func NewSpeakerMixer() Mixer {
	return &speakerMixer{}
}

func (m *speakerMixer) Init(rate beep.SampleRate) error {
	m.once.Do(func() {
		m.rate = rate
		m.err = speaker.Init(rate, rate.N(time.Second/10))
	})
	return m.err
}

func (m *speakerMixer) SampleRate() beep.SampleRate {
	return m.rate
}

func (m *speakerMixer) Play(streamers ...beep.Streamer) {
	speaker.Play(streamers...)
}
