package audio

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-cube/common"
)

// cue implements the Cue interface.
type cue struct {
	fsys     fs.FS
	mixer    Mixer
	workers  int
	started  sync.Once
	running  atomic.Bool
	finished chan struct{}

	mu   *sync.Mutex
	plan *Plan
	errs []error
}

// Cue plays a two-part soundtrack: the first clip once, then the second clip looping forever
// from a fixed gap after the first clip's natural end.
type Cue interface {
	// Start fetches and decodes both assets in the background and schedules playback once both
	// loads have settled. It returns immediately. Only the first call has an effect.
	//
	// Parameters:
	//   - ctx: cancels pending loads; playback is never stopped
	//   - first: asset name of the clip played once
	//   - second: asset name of the clip looped after it
	Start(ctx context.Context, first, second string)

	// Wait blocks until playback has been scheduled or both loads failed. It returns at once
	// when Start has not been called.
	Wait()

	// Plan returns the scheduled playback, false if nothing has been scheduled.
	Plan() (Plan, bool)

	// Errors returns the per-asset load failures, each a *LoadError.
	Errors() []error
}

var _ Cue = &cue{}

// NewCue creates a Cue that reads assets from the current directory and plays them through the
// beep speaker unless configured otherwise.
//
// Parameters:
//   - options: variadic list of CueBuilderOption functions
//
// Returns:
//   - Cue: the new cue
func NewCue(options ...CueBuilderOption) Cue {
	c := &cue{
		workers:  2,
		finished: make(chan struct{}),
		mu:       &sync.Mutex{},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.fsys == nil {
		c.fsys = os.DirFS(".")
	}
	if c.mixer == nil {
		c.mixer = NewSpeakerMixer()
	}
	return c
}

func (c *cue) Start(ctx context.Context, first, second string) {
	c.started.Do(func() {
		c.running.Store(true)
		go c.run(ctx, first, second)
	})
}

func (c *cue) Wait() {
	if !c.running.Load() {
		return
	}
	<-c.finished
}

func (c *cue) Plan() (Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.plan == nil {
		return Plan{}, false
	}
	return *c.plan, true
}

func (c *cue) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errs...)
}

// run loads both assets concurrently on a worker pool, then schedules whatever loaded.
func (c *cue) run(ctx context.Context, first, second string) {
	defer close(c.finished)

	assets := []string{first, second}
	clips := make([]*Clip, len(assets))

	pool := worker.NewDynamicWorkerPool(c.workers, len(assets), time.Second)
	var wg sync.WaitGroup
	wg.Add(len(assets))
	for i, asset := range assets {
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: asset,
			Do: func() (any, error) {
				defer wg.Done()
				clip, err := c.load(ctx, asset)
				if err != nil {
					c.fail(err)
					return nil, err
				}
				clips[i] = clip
				return clip, nil
			},
		})
	}
	wg.Wait()
	pool.Stop()

	plan, ok := c.schedule(clips[0], clips[1])
	if !ok {
		return
	}
	c.mu.Lock()
	c.plan = &plan
	c.mu.Unlock()
}

// load reads and decodes one asset, honoring cancellation before the read.
func (c *cue) load(ctx context.Context, asset string) (*Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Asset: asset, Err: err}
	}
	data, err := fs.ReadFile(c.fsys, asset)
	if err != nil {
		return nil, &LoadError{Asset: asset, Err: err}
	}
	clip, err := Decode(asset, data)
	if err != nil {
		return nil, &LoadError{Asset: asset, Err: err}
	}
	return clip, nil
}

func (c *cue) fail(err error) {
	var le *LoadError
	if errors.As(err, &le) {
		common.Logger().Warn("audio asset failed to load", "asset", le.Asset, "error", le.Err)
	}
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// schedule opens the mixer at the first loaded clip's rate and plays both streams in one pass,
// so the second stream's leading silence is measured from the same instant the first starts.
func (c *cue) schedule(first, second *Clip) (Plan, bool) {
	lead := first
	if lead == nil {
		lead = second
	}
	if lead == nil {
		return Plan{}, false
	}
	if err := c.mixer.Init(lead.Format.SampleRate); err != nil {
		common.Logger().Error("audio output unavailable", "error", err)
		return Plan{}, false
	}

	plan := Plan{
		First:       first,
		Second:      second,
		SecondStart: Schedule(0, first.Duration()),
		SampleRate:  c.mixer.SampleRate(),
	}
	c.mixer.Play(plan.streamers()...)
	common.Logger().Info("audio scheduled",
		"first", first != nil,
		"second", second != nil,
		"second_start", plan.SecondStart)
	return plan, true
}
