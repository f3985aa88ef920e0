package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

// GraphicsAPI selects which client API the window is created for.
type GraphicsAPI int

const (
	// GraphicsAPIOpenGL creates an OpenGL 4.1 core context with the window.
	GraphicsAPIOpenGL GraphicsAPI = iota
	// GraphicsAPIWebGPU creates the window without a client API; WebGPU attaches its own surface.
	GraphicsAPIWebGPU
)

// Window provides platform windowing, input event handling and frame scheduling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration, after frame callbacks.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and the mouse x, y position
	SetMouseDownCallback(callback func(button uint32, x, y int32))

	// RequestFrame schedules cb to run on the next loop iteration in which the window is visible.
	// At most one callback is pending at a time.
	//
	// Parameters:
	//   - cb: the frame callback
	RequestFrame(cb FrameCallback)

	// SetTitle changes the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// MakeContextCurrent binds the window's OpenGL context to the calling thread and enables vsync.
	//
	// Returns:
	//   - error: an error if the window was created without an OpenGL context
	MakeContextCurrent() error

	// SwapBuffers presents the OpenGL back buffer. It is a no-op without an OpenGL context.
	SwapBuffers()

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Iconified reports whether the window is minimized. Frame callbacks do not run while it is.
	//
	// Returns:
	//   - bool: true if minimized
	Iconified() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Each iteration polls events, runs the pending frame
	// callback and then the update callback.
	ProcessMessages()

	// Width returns the framebuffer width in pixels captured at creation.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the framebuffer height in pixels captured at creation.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width and height are the framebuffer size in pixels. They are read once after creation.
	width  int
	height int

	// api is the client API requested for the window; hasContext is whether an OpenGL context exists.
	api        GraphicsAPI
	hasContext bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	scheduler *FrameScheduler

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	// onMouseDown is called when a mouse button is pressed.
	onMouseDown func(button uint32, x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order. No graphics context is made current.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Default Window Title",
		width:     1280,
		height:    720,
		api:       GraphicsAPIOpenGL,
		scheduler: &FrameScheduler{},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button uint32, x, y int32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) RequestFrame(cb FrameCallback) {
	w.scheduler.RequestFrame(cb)
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) MakeContextCurrent() error {
	if !w.hasContext {
		return fmt.Errorf("window %q has no OpenGL context", w.title)
	}
	return platformMakeContextCurrent(w)
}

func (w *engineWindow) SwapBuffers() {
	if w.hasContext {
		platformSwapBuffers(w)
	}
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Iconified() bool {
	return platformIsIconified(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if !w.Iconified() {
			w.scheduler.RunFrame(time.Now())
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
