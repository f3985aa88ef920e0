package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wavBytes encodes a mono 16-bit PCM WAV holding n samples of a constant non-zero value.
func wavBytes(t *testing.T, rate, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	dataSize := uint32(n * 2)
	write := func(v any) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	buf.WriteString("RIFF")
	write(uint32(36) + dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1)) // PCM
	write(uint16(1)) // mono
	write(uint32(rate))
	write(uint32(rate * 2))
	write(uint16(2))
	write(uint16(16))
	buf.WriteString("data")
	write(dataSize)
	for range n {
		write(int16(16384))
	}
	return buf.Bytes()
}

type recordingMixer struct {
	mu        sync.Mutex
	inits     []beep.SampleRate
	rate      beep.SampleRate
	streamers []beep.Streamer
	plays     int
	initErr   error
}

func (m *recordingMixer) Init(rate beep.SampleRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inits = append(m.inits, rate)
	if m.rate == 0 {
		m.rate = rate
	}
	return m.initErr
}

func (m *recordingMixer) SampleRate() beep.SampleRate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *recordingMixer) Play(streamers ...beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	m.streamers = append(m.streamers, streamers...)
}

// leadingSilence counts the zero samples a streamer yields before its first non-zero sample.
func leadingSilence(t *testing.T, s beep.Streamer, limit int) int {
	t.Helper()
	chunk := make([][2]float64, 512)
	count := 0
	for count < limit {
		n, ok := s.Stream(chunk)
		require.True(t, ok, "stream drained before any sound")
		for i := range n {
			if chunk[i][0] != 0 {
				return count + i
			}
		}
		count += n
	}
	t.Fatalf("no sound within %d samples", limit)
	return 0
}

func TestScheduleIgnoresSecondDuration(t *testing.T) {
	t0 := 10 * time.Second
	assert.Equal(t, t0+3380*time.Millisecond, Schedule(t0, 3200*time.Millisecond))
	assert.Equal(t, t0+Gap, Schedule(t0, 0))
	assert.Equal(t, 180*time.Millisecond, Gap)
}

func TestDecodeSniffsWAV(t *testing.T) {
	clip, err := Decode("tone.wav", wavBytes(t, 8000, 800))
	require.NoError(t, err)
	assert.Equal(t, beep.SampleRate(8000), clip.Format.SampleRate)
	assert.Equal(t, 800, clip.Buffer.Len())
	assert.Equal(t, 100*time.Millisecond, clip.Duration())
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, err := Decode("notes.txt", []byte("definitely not audio"))
	require.Error(t, err)
}

func TestCueSchedulesSecondAfterFirstPlusGap(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wav": {Data: wavBytes(t, 8000, 800)},
		"b.wav": {Data: wavBytes(t, 8000, 4000)},
	}
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fsys), WithMixer(mixer))
	c.Start(context.Background(), "a.wav", "b.wav")
	c.Wait()

	assert.Empty(t, c.Errors())
	plan, ok := c.Plan()
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond+Gap, plan.SecondStart)
	assert.Equal(t, []beep.SampleRate{8000}, mixer.inits, "mixer opened once at the first rate")
	assert.Equal(t, 1, mixer.plays, "both streams start in one pass")
	require.Len(t, mixer.streamers, 2)

	assert.Zero(t, leadingSilence(t, mixer.streamers[0], 8000))
	expected := beep.SampleRate(8000).N(100*time.Millisecond + Gap)
	assert.Equal(t, expected, leadingSilence(t, mixer.streamers[1], 16000))
}

func TestCueLoopsSecondForever(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wav": {Data: wavBytes(t, 8000, 80)},
		"b.wav": {Data: wavBytes(t, 8000, 100)},
	}
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fsys), WithMixer(mixer))
	c.Start(context.Background(), "a.wav", "b.wav")
	c.Wait()
	require.Len(t, mixer.streamers, 2)

	// Far more samples than the clip holds keep flowing.
	chunk := make([][2]float64, 1000)
	for range 10 {
		n, ok := mixer.streamers[1].Stream(chunk)
		require.True(t, ok)
		require.Equal(t, len(chunk), n)
	}
}

func TestCueFirstFailureStartsSecondAtGap(t *testing.T) {
	fsys := fstest.MapFS{
		"b.wav": {Data: wavBytes(t, 8000, 400)},
	}
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fsys), WithMixer(mixer))
	c.Start(context.Background(), "missing.ogg", "b.wav")
	c.Wait()

	errs := c.Errors()
	require.Len(t, errs, 1)
	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, "missing.ogg", le.Asset)
	assert.ErrorIs(t, errs[0], fs.ErrNotExist)

	plan, ok := c.Plan()
	require.True(t, ok)
	assert.Nil(t, plan.First)
	assert.Equal(t, Gap, plan.SecondStart)
	require.Len(t, mixer.streamers, 1)
}

func TestCueSecondFailurePlaysFirstAlone(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wav": {Data: wavBytes(t, 8000, 400)},
		"b.wav": {Data: []byte("garbage")},
	}
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fsys), WithMixer(mixer))
	c.Start(context.Background(), "a.wav", "b.wav")
	c.Wait()

	require.Len(t, c.Errors(), 1)
	plan, ok := c.Plan()
	require.True(t, ok)
	assert.Nil(t, plan.Second)
	require.Len(t, mixer.streamers, 1)
}

func TestCueBothFailuresScheduleNothing(t *testing.T) {
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fstest.MapFS{}), WithMixer(mixer))
	c.Start(context.Background(), "a.ogg", "b.ogg")
	c.Wait()

	assert.Len(t, c.Errors(), 2)
	_, ok := c.Plan()
	assert.False(t, ok)
	assert.Empty(t, mixer.inits)
}

func TestCueCancelledContextFailsPendingLoads(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wav": {Data: wavBytes(t, 8000, 400)},
		"b.wav": {Data: wavBytes(t, 8000, 400)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCue(WithFS(fsys), WithMixer(&recordingMixer{}))
	c.Start(ctx, "a.wav", "b.wav")
	c.Wait()

	for _, err := range c.Errors() {
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.Len(t, c.Errors(), 2)
}

func TestCueResamplesToMixerRate(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wav": {Data: wavBytes(t, 8000, 800)},
		"b.wav": {Data: wavBytes(t, 16000, 800)},
	}
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fsys), WithMixer(mixer))
	c.Start(context.Background(), "a.wav", "b.wav")
	c.Wait()

	plan, ok := c.Plan()
	require.True(t, ok)
	assert.Equal(t, beep.SampleRate(8000), plan.SampleRate)
	assert.Equal(t, 50*time.Millisecond, plan.Second.Duration())
}

func TestCueStartIsIdempotent(t *testing.T) {
	fsys := fstest.MapFS{
		"a.wav": {Data: wavBytes(t, 8000, 80)},
		"b.wav": {Data: wavBytes(t, 8000, 80)},
	}
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fsys), WithMixer(mixer))
	c.Start(context.Background(), "a.wav", "b.wav")
	c.Start(context.Background(), "a.wav", "b.wav")
	c.Wait()
	assert.Equal(t, 1, mixer.plays)
}

func TestCueWaitWithoutStartReturns(t *testing.T) {
	mixer := &recordingMixer{}
	c := NewCue(WithFS(fstest.MapFS{}), WithMixer(mixer))

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked on a cue that was never started")
	}
	_, ok := c.Plan()
	assert.False(t, ok)
	assert.Empty(t, c.Errors())
	assert.Zero(t, mixer.plays)
}
