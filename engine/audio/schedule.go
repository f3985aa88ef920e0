package audio

import (
	"time"

	"github.com/faiface/beep"
)

// Gap is the silence between the end of the first clip and the start of the second.
const Gap = 180 * time.Millisecond

// resampleQuality is passed to beep.Resample when a clip's rate differs from the mixer's.
const resampleQuality = 4

// Schedule returns when the second clip starts: t0 plus the first clip's duration plus the gap.
// The second clip's own duration never matters.
//
// Parameters:
//   - t0: the time the first clip starts
//   - first: the first clip's natural duration, 0 if it failed to load
//
// Returns:
//   - time.Duration: the start time of the second clip
func Schedule(t0, first time.Duration) time.Duration {
	return t0 + first + Gap
}

// Plan is the playback computed for a pair of clips, relative to the moment playback starts.
type Plan struct {
	// First plays once at offset 0, nil if it failed to load.
	First *Clip
	// Second loops forever from SecondStart, nil if it failed to load.
	Second *Clip
	// SecondStart is the offset of the second clip.
	SecondStart time.Duration
	// SampleRate is the mixer rate both streams are resampled to.
	SampleRate beep.SampleRate
}

// streamers builds the mixer inputs for the plan: the first clip once, and the second clip
// looped behind exactly SecondStart worth of silence.
func (p Plan) streamers() []beep.Streamer {
	var out []beep.Streamer
	if p.First != nil {
		out = append(out, resample(p.First.Format.SampleRate, p.SampleRate, p.First.Streamer()))
	}
	if p.Second != nil {
		looped := resample(p.Second.Format.SampleRate, p.SampleRate, beep.Loop(-1, p.Second.Streamer()))
		out = append(out, beep.Seq(beep.Silence(p.SampleRate.N(p.SecondStart)), looped))
	}
	return out
}

func resample(from, to beep.SampleRate, s beep.Streamer) beep.Streamer {
	if from == to {
		return s
	}
	return beep.Resample(resampleQuality, from, to, s)
}
