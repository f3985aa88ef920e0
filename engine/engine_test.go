package engine_test

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-cube/engine"
	"github.com/Carmen-Shannon/oxy-cube/engine/geometry"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/rendertest"
	"github.com/Carmen-Shannon/oxy-cube/engine/transform"
	"github.com/Carmen-Shannon/oxy-cube/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stillSource struct {
	frame *image.RGBA
}

func (s *stillSource) Frame() *image.RGBA { return s.frame }

func newStill() *stillSource {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return &stillSource{frame: img}
}

func newEngine(t *testing.T, bt renderer.RendererBackendType, source *stillSource, options ...engine.EngineBuilderOption) (engine.Engine, *rendertest.Recorder, *window.FrameScheduler, time.Time) {
	t.Helper()
	rec := rendertest.NewRecorder(bt)
	sched := &window.FrameScheduler{}
	start := time.Unix(1000, 0)
	opts := append([]engine.EngineBuilderOption{
		engine.WithViewport(800, 600),
		engine.WithClock(func() time.Time { return start }),
		engine.WithRendererFactory(func() (renderer.Renderer, error) {
			return renderer.NewRenderer(nil, renderer.WithBackend(rec))
		}),
	}, options...)
	return engine.NewEngine(sched, source, opts...), rec, sched, start
}

func TestSetupReadiesLoopAndSchedulesFirstFrame(t *testing.T) {
	e, rec, sched, _ := newEngine(t, renderer.BackendTypeOpenGL, newStill())
	assert.Equal(t, engine.StateUninitialized, e.State())

	require.NoError(t, e.Setup())
	assert.Equal(t, engine.StateReady, e.State())
	assert.True(t, sched.Pending())
	assert.Zero(t, e.Frames())
	assert.Zero(t, rec.Count(rendertest.OpDraw), "nothing drawn before the first callback")

	ops := rec.Ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, rendertest.OpViewport, ops[0])
	assert.Equal(t, 2, rec.Count(rendertest.OpVertexBuffer))
	assert.Equal(t, 1, rec.Count(rendertest.OpLink))
	assert.Equal(t, 1, rec.Count(rendertest.OpCreateTexture))

	assert.True(t, e.Pipeline().Usable())
	assert.InDelta(t, 800.0/600.0, e.Transform().Aspect(), 1e-6)
	assert.ErrorIs(t, e.Setup(), engine.ErrAlreadySetUp)
}

func TestThreeFramesRefreshDrawAndRotateInOrder(t *testing.T) {
	for _, bt := range []renderer.RendererBackendType{renderer.BackendTypeOpenGL, renderer.BackendTypeWGPU} {
		t.Run(bt.String(), func(t *testing.T) {
			e, rec, sched, start := newEngine(t, bt, newStill())
			require.NoError(t, e.Setup())
			rec.Reset()

			step := 1250 * time.Millisecond
			for i := 1; i <= 3; i++ {
				require.True(t, sched.RunFrame(start.Add(time.Duration(i)*step)))
				assert.Equal(t, engine.StateRunning, e.State())
				assert.True(t, sched.Pending(), "frame %d rescheduled the loop", i)
			}
			assert.Equal(t, uint64(3), e.Frames())
			assert.Equal(t, uint64(3), e.Texture().Refreshes())

			frame := []rendertest.Op{rendertest.OpUploadTexture, rendertest.OpBeginFrame, rendertest.OpDraw, rendertest.OpEndFrame}
			var expected []rendertest.Op
			for range 3 {
				expected = append(expected, frame...)
			}
			assert.Equal(t, expected, rec.Ops())

			draws := rec.Draws()
			require.Len(t, draws, 3)
			cmd := draws[0]
			assert.Equal(t, e.Pipeline().Program(), cmd.Program)
			assert.Equal(t, renderer.PrimitiveTriangles, cmd.Primitive)
			assert.Equal(t, int32(geometry.CubeVertexCount), cmd.VertexCount)
			require.Len(t, cmd.Attributes, 2)
			assert.Equal(t, int32(3), cmd.Attributes[0].Size)
			assert.Equal(t, int32(2), cmd.Attributes[1].Size)
			require.Len(t, cmd.Textures, 1)
			assert.Equal(t, uint32(0), cmd.Textures[0].Unit)
			assert.Equal(t, e.Texture().Handle(), cmd.Textures[0].Texture)
			require.Len(t, cmd.Matrices, 2)
			assert.Equal(t, e.Transform().Projection(), cmd.Matrices[0].Value)

			// The first draw uses the initial model-view; rotation happens after drawing.
			initial := transform.NewState(transform.WithAspect(800.0 / 600.0))
			assert.Equal(t, initial.ModelView(), cmd.Matrices[1].Value)

			for range 3 {
				initial.Advance(step)
			}
			assert.Equal(t, initial.ModelView(), e.Transform().ModelView())
			assert.NotEqual(t, draws[0].Matrices[1].Value, draws[1].Matrices[1].Value)
			assert.Equal(t, draws[0].Matrices[0].Value, draws[2].Matrices[0].Value, "projection never changes")
		})
	}
}

func TestFrameWithoutVideoFrameStillDraws(t *testing.T) {
	e, rec, sched, start := newEngine(t, renderer.BackendTypeOpenGL, &stillSource{})
	require.NoError(t, e.Setup())
	require.True(t, sched.RunFrame(start.Add(16*time.Millisecond)))

	assert.Zero(t, rec.Count(rendertest.OpUploadTexture))
	assert.Equal(t, 1, rec.Count(rendertest.OpDraw))
	assert.Equal(t, uint64(1), e.Texture().Refreshes())
}

func TestUnusablePipelineClearsWithoutDrawing(t *testing.T) {
	rec := rendertest.NewRecorder(renderer.BackendTypeOpenGL)
	rec.CompileErrors["cube.frag.glsl"] = "0:1: syntax error"
	sched := &window.FrameScheduler{}
	e := engine.NewEngine(sched, newStill(),
		engine.WithViewport(640, 480),
		engine.WithRendererFactory(func() (renderer.Renderer, error) {
			return renderer.NewRenderer(nil, renderer.WithBackend(rec))
		}))

	require.NoError(t, e.Setup())
	assert.False(t, e.Pipeline().Usable())
	require.True(t, sched.RunFrame(time.Now()))

	assert.Equal(t, 1, rec.Count(rendertest.OpBeginFrame))
	assert.Equal(t, 1, rec.Count(rendertest.OpEndFrame))
	assert.Zero(t, rec.Count(rendertest.OpDraw))
	assert.Equal(t, uint64(1), e.Frames())
}

func TestDrawErrorDoesNotStopLoop(t *testing.T) {
	e, rec, sched, start := newEngine(t, renderer.BackendTypeOpenGL, newStill())
	rec.DrawErr = errors.New("device lost")
	require.NoError(t, e.Setup())

	require.True(t, sched.RunFrame(start.Add(time.Millisecond)))
	require.True(t, sched.RunFrame(start.Add(2*time.Millisecond)))
	assert.Equal(t, uint64(2), e.Frames())
	assert.Equal(t, 2, rec.Count(rendertest.OpEndFrame))
}

func TestSetupFailureStaysUninitialized(t *testing.T) {
	sched := &window.FrameScheduler{}
	e := engine.NewEngine(sched, newStill())

	err := e.Setup()
	var setupErr *renderer.SetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, engine.StateUninitialized, e.State())
	assert.False(t, sched.Pending(), "no loop starts")
	assert.Nil(t, e.Renderer())
}

func TestSetupFailureFromFactory(t *testing.T) {
	sched := &window.FrameScheduler{}
	calls := 0
	e := engine.NewEngine(sched, newStill(), engine.WithRendererFactory(func() (renderer.Renderer, error) {
		calls++
		return nil, &renderer.SetupError{Backend: renderer.BackendTypeWGPU, Err: errors.New("no adapter")}
	}))

	require.Error(t, e.Setup())
	assert.Equal(t, engine.StateUninitialized, e.State())
	assert.False(t, sched.RunFrame(time.Now()))
	assert.Equal(t, 1, calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", engine.StateUninitialized.String())
	assert.Equal(t, "ready", engine.StateReady.String())
	assert.Equal(t, "running", engine.StateRunning.String())
}
