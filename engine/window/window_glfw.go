package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// open creates the GLFW window without a client API and installs the event callbacks.
func (w *glfwWindow) open() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolHint(w.resizable))

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	handle.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	w.handle = handle
	w.running = true

	handle.SetKeyCallback(w.onKey)
	handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.on.scroll != nil {
			w.on.scroll(float32(yoff))
		}
	})
	handle.SetMouseButtonCallback(w.onMouseButton)
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.on.mouseMove != nil {
			w.on.mouseMove(int32(x), int32(y))
		}
	})
	handle.SetFramebufferSizeCallback(w.onFramebufferSize)

	// High-DPI displays report a framebuffer larger than the requested window size.
	w.width, w.height = handle.GetFramebufferSize()
	return nil
}

func (w *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == w.closeKey && key != glfw.KeyUnknown && action == glfw.Press {
		w.RequestClose()
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		if w.on.keyDown != nil {
			w.on.keyDown(uint32(key))
		}
	case glfw.Release:
		if w.on.keyUp != nil {
			w.on.keyUp(uint32(key))
		}
	}
}

func (w *glfwWindow) onMouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	x, y := win.GetCursorPos()
	cb := w.on.mouseDown
	if action == glfw.Release {
		cb = w.on.mouseUp
	}
	if cb != nil {
		cb(common.MouseButton(button), int32(x), int32(y))
	}
}

func (w *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.width, w.height = width, height
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}

// SurfaceDescriptor builds the descriptor with the wgpuglfw bridge, which
// picks Win32, X11, Wayland or Metal for the running platform.
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.handle == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.handle)
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
