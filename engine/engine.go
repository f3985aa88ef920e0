package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/geometry"
	"github.com/Carmen-Shannon/oxy-cube/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cube/engine/texture"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	"github.com/Carmen-Shannon/oxy-cube/engine/video"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
)

// State is the lifecycle stage of the render loop.
type State int

const (
	// StateUninitialized is the stage before setup succeeds. A failed setup stays here.
	StateUninitialized State = iota
	// StateReady means every GPU resource exists and the first frame is scheduled.
	StateReady
	// StateRunning means at least one frame has run.
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	default:
		return "uninitialized"
	}
}

// ErrAlreadySetUp is returned by Setup once the loop has left StateUninitialized.
var ErrAlreadySetUp = errors.New("engine: already set up")

// PipelineKey is the key of the cube's shader pipeline.
const PipelineKey = "video-cube"

// Scheduler is the frame-synchronization primitive the loop reschedules itself on.
// window.Window implements it.
type Scheduler interface {
	RequestFrame(cb window.FrameCallback)
}

// RendererFactory acquires a graphics context. It replaces renderer.NewRenderer in tests.
type RendererFactory func() (renderer.Renderer, error)

// engine implements the Engine interface.
type engine struct {
	mu    *sync.Mutex
	state State

	scheduler       Scheduler
	source          video.FrameSource
	surface         renderer.Surface
	newRenderer     RendererFactory
	rendererOptions []renderer.RendererBuilderOption
	stateOptions    []transform.StateBuilderOption
	width, height   int
	clearColor      [4]float32
	now             func() time.Time

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderer  renderer.Renderer
	buffers   geometry.Buffers
	pipeline  pipeline.Pipeline
	texture   texture.VideoTexture
	transform transform.State
	clock     *transform.Clock

	frames atomic.Uint64
}

// Engine drives the textured cube: a one-time setup builds every GPU resource, then a
// self-rescheduling frame callback refreshes the video texture, draws and advances the rotation.
type Engine interface {
	// Setup acquires the graphics context and builds the viewport, geometry, pipeline, texture
	// and projection in that order. On success the loop is Ready and its first frame is scheduled.
	// On failure the error is logged, the loop stays Uninitialized and nothing is retried.
	//
	// Returns:
	//   - error: a *renderer.SetupError if no context could be acquired, another error if a
	//     resource could not be built, or ErrAlreadySetUp
	Setup() error

	// State returns the current lifecycle stage.
	//
	// Returns:
	//   - State: the stage
	State() State

	// Frames returns the number of frames run.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Renderer returns the graphics context, nil before a successful setup.
	Renderer() renderer.Renderer

	// Pipeline returns the cube's shader pipeline, nil before a successful setup.
	Pipeline() pipeline.Pipeline

	// Texture returns the video texture, nil before a successful setup.
	Texture() texture.VideoTexture

	// Transform returns the projection and model-view state, nil before a successful setup.
	Transform() transform.State
}

var _ Engine = &engine{}

// NewEngine creates an Engine that schedules frames on scheduler and textures the cube with
// frames from source. Nothing touches the GPU until Setup.
//
// Parameters:
//   - scheduler: the frame scheduler, usually the window
//   - source: the video frame source
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(scheduler Scheduler, source video.FrameSource, options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:         &sync.Mutex{},
		state:      StateUninitialized,
		scheduler:  scheduler,
		source:     source,
		clearColor: [4]float32{0, 0, 0, 1},
		now:        time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.newRenderer == nil {
		e.newRenderer = func() (renderer.Renderer, error) {
			return renderer.NewRenderer(e.surface, e.rendererOptions...)
		}
	}
	if e.profilingEnabled {
		e.profiler = profiler.NewProfiler(e.now(), time.Second)
	}
	return e
}

func (e *engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Pipeline() pipeline.Pipeline {
	return e.pipeline
}

func (e *engine) Texture() texture.VideoTexture {
	return e.texture
}

func (e *engine) Transform() transform.State {
	return e.transform
}

func (e *engine) Setup() error {
	if e.State() != StateUninitialized {
		return ErrAlreadySetUp
	}
	if err := e.setup(); err != nil {
		common.Logger().Error("setup failed", "error", err)
		return err
	}

	e.mu.Lock()
	e.state = StateReady
	e.mu.Unlock()
	common.Logger().Info("render loop ready",
		"backend", e.renderer.BackendType().String(),
		"pipeline_usable", e.pipeline.Usable())

	e.scheduler.RequestFrame(e.frame)
	return nil
}

func (e *engine) setup() error {
	r, err := e.newRenderer()
	if err != nil {
		return err
	}
	if r == nil {
		return &renderer.SetupError{Err: errors.New("no renderer")}
	}

	width, height := e.width, e.height
	if (width <= 0 || height <= 0) && e.surface != nil {
		width, height = e.surface.Width(), e.surface.Height()
	}
	r.Viewport(width, height)

	buffers, err := geometry.Upload(r, geometry.NewCube())
	if err != nil {
		r.Release()
		return fmt.Errorf("upload geometry: %w", err)
	}

	p := pipeline.NewPipeline(PipelineKey, r)

	tex, err := texture.NewVideoTexture(r, e.source)
	if err != nil {
		r.Release()
		return fmt.Errorf("create texture: %w", err)
	}

	stateOptions := append([]transform.StateBuilderOption{transform.WithAspect(r.AspectRatio())}, e.stateOptions...)

	e.renderer = r
	e.buffers = buffers
	e.pipeline = p
	e.texture = tex
	e.transform = transform.NewState(stateOptions...)
	e.clock = transform.NewClock(e.now())
	return nil
}

// frame is the loop body. The next frame is requested first so the loop keeps going even if a
// later step fails.
func (e *engine) frame(now time.Time) {
	e.scheduler.RequestFrame(e.frame)

	e.mu.Lock()
	if e.state == StateReady {
		e.state = StateRunning
		common.Logger().Info("render loop running")
	}
	e.mu.Unlock()

	if err := e.texture.Refresh(); err != nil {
		common.Logger().Warn("video texture refresh failed", "error", err)
	}
	if err := e.draw(); err != nil {
		common.Logger().Warn("draw failed", "error", err)
	}

	delta := e.clock.Tick(now)
	angle := e.transform.Advance(delta)
	n := e.frames.Add(1)
	common.Logger().Debug("frame", "n", n, "delta", delta, "angle", angle)

	if e.profiler != nil {
		e.profiler.Tick(now)
	}
}

// draw clears the frame and, when the pipeline is usable, submits the cube.
func (e *engine) draw() error {
	if err := e.renderer.BeginFrame(e.clearColor); err != nil {
		return err
	}
	var drawErr error
	if e.pipeline.Usable() {
		drawErr = e.renderer.Draw(e.drawCommand())
	}
	if err := e.renderer.EndFrame(); err != nil {
		return errors.Join(drawErr, err)
	}
	return drawErr
}

// drawCommand binds the geometry, the current matrices and the video texture on unit 0.
func (e *engine) drawCommand() renderer.DrawCommand {
	p, b := e.pipeline, e.buffers
	return renderer.DrawCommand{
		Program:     p.Program(),
		Primitive:   b.Primitive,
		VertexCount: b.VertexCount,
		Attributes: []renderer.VertexAttribute{
			{Location: p.AttributeLocation(shader.AttributePosition), Buffer: b.Position, Size: b.PositionSize},
			{Location: p.AttributeLocation(shader.AttributeTexCoord), Buffer: b.TexCoord, Size: b.TexCoordSize},
		},
		Matrices: []renderer.MatrixUniform{
			{Location: p.UniformLocation(shader.UniformProjection), Value: e.transform.Projection()},
			{Location: p.UniformLocation(shader.UniformModelView), Value: e.transform.ModelView()},
		},
		Textures: []renderer.TextureBinding{
			{Location: p.UniformLocation(shader.UniformSampler), Unit: 0, Texture: e.texture.Handle()},
		},
	}
}
