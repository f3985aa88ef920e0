package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithGraphicsAPI selects the client API the window is created for.
//
// Parameters:
//   - api: GraphicsAPIOpenGL (default) or GraphicsAPIWebGPU
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithGraphicsAPI(api GraphicsAPI) WindowBuilderOption {
	return func(w *engineWindow) {
		w.api = api
	}
}

// WithFrameScheduler shares a scheduler with the window instead of creating one.
//
// Parameters:
//   - s: the scheduler the message loop drains
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithFrameScheduler(s *FrameScheduler) WindowBuilderOption {
	return func(w *engineWindow) {
		if s != nil {
			w.scheduler = s
		}
	}
}
