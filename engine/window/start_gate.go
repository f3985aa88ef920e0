package window

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-cube/common"
)

// InputSource delivers the input events a StartGate listens to.
type InputSource interface {
	SetMouseDownCallback(callback func(button uint32, x, y int32))
	SetKeyDownCallback(callback func(keyCode uint32))
}

// StartGate runs a start function on the first user activation: a left mouse button press,
// Enter or Space. Every later activation is ignored.
type StartGate struct {
	once    sync.Once
	fired   atomic.Bool
	onStart func()
}

// NewStartGate creates a gate that calls onStart once.
func NewStartGate(onStart func()) *StartGate {
	return &StartGate{onStart: onStart}
}

// Attach registers the gate's input callbacks on src.
func (g *StartGate) Attach(src InputSource) {
	src.SetMouseDownCallback(g.MouseDown)
	src.SetKeyDownCallback(g.KeyDown)
}

// MouseDown fires the gate for the left button.
func (g *StartGate) MouseDown(button uint32, x, y int32) {
	if button == common.MouseButtonLeft {
		g.Fire()
	}
}

// KeyDown fires the gate for Enter and Space.
func (g *StartGate) KeyDown(keyCode uint32) {
	if keyCode == common.KeyEnter || keyCode == common.KeySpace {
		g.Fire()
	}
}

// Fire opens the gate.
//
// Returns:
//   - bool: true only for the call that actually ran the start function
func (g *StartGate) Fire() bool {
	first := false
	g.once.Do(func() {
		first = true
		g.fired.Store(true)
		common.Logger().Info("start gate activated")
		if g.onStart != nil {
			g.onStart()
		}
	})
	return first
}

// Fired reports whether the gate has opened.
func (g *StartGate) Fired() bool {
	return g.fired.Load()
}
