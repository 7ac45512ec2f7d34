// Package window opens the viewer's GLFW window and forwards its input and
// framebuffer events. The window never creates a graphics context; the
// renderer builds a WebGPU surface from SurfaceDescriptor.
package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a desktop window with an event loop.
type Window interface {
	// SetUpdateCallback sets the function run once per loop iteration, after events are polled.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function receiving framebuffer sizes in pixels.
	// Zero sizes from a minimized window are not reported.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function receiving vertical scroll offsets (positive is up).
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function receiving pressed and repeated key codes.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function receiving released key codes.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the function receiving button presses with the cursor position.
	SetMouseDownCallback(callback func(button common.MouseButton, x, y int32))

	// SetMouseUpCallback sets the function receiving button releases with the cursor position.
	SetMouseUpCallback(callback func(button common.MouseButton, x, y int32))

	// SetMouseMoveCallback sets the function receiving cursor positions.
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor returns the platform surface descriptor for the window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, nil after Close
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the loop should keep going.
	IsRunning() bool

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: an error if the window was already closed
	Close() error

	// ProcessMessages runs the event loop until the window stops running.
	ProcessMessages()

	// RequestClose stops the loop after the current iteration without destroying the window.
	RequestClose()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// callbacks holds the event handlers; nil entries are skipped.
type callbacks struct {
	update    func()
	resize    func(width, height int)
	scroll    func(delta float32)
	keyDown   func(keyCode uint32)
	keyUp     func(keyCode uint32)
	mouseDown func(button common.MouseButton, x, y int32)
	mouseUp   func(button common.MouseButton, x, y int32)
	mouseMove func(x, y int32)
}

// glfwWindow implements Window on GLFW.
type glfwWindow struct {
	title     string
	width     int
	height    int
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int
	resizable bool
	closeKey  glfw.Key

	handle  *glfw.Window
	running bool
	on      callbacks
}

var _ Window = &glfwWindow{}

// NewWindow initializes GLFW and opens a window. It locks the calling goroutine
// to its OS thread, which must stay the thread that calls ProcessMessages.
// Panics when GLFW or the window cannot be created.
//
// Parameters:
//   - options: the window options
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &glfwWindow{
		title:     "oxy-logo",
		width:     1280,
		height:    720,
		minWidth:  320,
		minHeight: 240,
		maxWidth:  glfw.DontCare,
		maxHeight: glfw.DontCare,
		resizable: true,
		closeKey:  glfw.KeyEscape,
	}
	for _, opt := range options {
		opt(w)
	}

	runtime.LockOSThread()
	if err := w.open(); err != nil {
		panic(fmt.Sprintf("failed to create window: %v", err))
	}
	return w
}

func (w *glfwWindow) SetUpdateCallback(callback func()) { w.on.update = callback }

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) { w.on.resize = callback }

func (w *glfwWindow) SetScrollCallback(callback func(delta float32)) { w.on.scroll = callback }

func (w *glfwWindow) SetKeyDownCallback(callback func(keyCode uint32)) { w.on.keyDown = callback }

func (w *glfwWindow) SetKeyUpCallback(callback func(keyCode uint32)) { w.on.keyUp = callback }

func (w *glfwWindow) SetMouseDownCallback(callback func(button common.MouseButton, x, y int32)) {
	w.on.mouseDown = callback
}

func (w *glfwWindow) SetMouseUpCallback(callback func(button common.MouseButton, x, y int32)) {
	w.on.mouseUp = callback
}

func (w *glfwWindow) SetMouseMoveCallback(callback func(x, y int32)) { w.on.mouseMove = callback }

func (w *glfwWindow) IsRunning() bool {
	return w.handle != nil && w.running && !w.handle.ShouldClose()
}

func (w *glfwWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		if !w.IsRunning() {
			return
		}
		if w.on.update != nil {
			w.on.update()
		}
	}
}

func (w *glfwWindow) RequestClose() {
	w.running = false
	if w.handle != nil {
		w.handle.SetShouldClose(true)
	}
}

func (w *glfwWindow) Close() error {
	if w.handle == nil {
		return fmt.Errorf("window %q is already closed", w.title)
	}
	w.running = false
	w.handle.Destroy()
	w.handle = nil
	glfw.Terminate()
	return nil
}

func (w *glfwWindow) Width() int { return w.width }

func (w *glfwWindow) Height() int { return w.height }
