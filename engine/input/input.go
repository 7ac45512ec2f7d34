// Package input routes window events to an ordered list of processors.
package input

import (
	"github.com/Carmen-Shannon/oxy-logo/common"
)

// Processor receives input events. Each method reports whether the event was
// consumed; a consumed event is not offered to later processors.
type Processor interface {
	// KeyDown is called when a key is pressed or repeats.
	KeyDown(keyCode uint32) bool

	// KeyUp is called when a key is released.
	KeyUp(keyCode uint32) bool

	// TouchDown is called when a mouse button is pressed at x, y.
	TouchDown(x, y int32, button common.MouseButton) bool

	// TouchUp is called when a mouse button is released at x, y.
	TouchUp(x, y int32, button common.MouseButton) bool

	// MouseMoved is called when the cursor moves, with or without buttons held.
	MouseMoved(x, y int32) bool

	// Scrolled is called for wheel events. Positive delta scrolls up.
	Scrolled(delta float32) bool
}

// Adapter is a Processor that ignores every event.
// Embed it to implement only the events a processor cares about.
type Adapter struct{}

var _ Processor = Adapter{}

func (Adapter) KeyDown(uint32) bool { return false }
func (Adapter) KeyUp(uint32) bool { return false }
func (Adapter) TouchDown(int32, int32, common.MouseButton) bool { return false }
func (Adapter) TouchUp(int32, int32, common.MouseButton) bool { return false }
func (Adapter) MouseMoved(int32, int32) bool { return false }
func (Adapter) Scrolled(float32) bool { return false }

// EventSource is the part of a window that publishes input events.
// window.Window satisfies it.
type EventSource interface {
	SetScrollCallback(callback func(delta float32))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseDownCallback(callback func(button common.MouseButton, x, y int32))
	SetMouseUpCallback(callback func(button common.MouseButton, x, y int32))
	SetMouseMoveCallback(callback func(x, y int32))
}
