package window

import "github.com/go-gl/glfw/v3.3/glfw"

// WindowBuilderOption configures a window before it opens.
type WindowBuilderOption func(w *glfwWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.title = title
	}
}

// WithSize sets the requested window size. Non-positive values keep the default.
//
// Parameters:
//   - width: width in screen coordinates
//   - height: height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *glfwWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithMinSize limits how small the window can be resized.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.minWidth, w.minHeight = width, height
	}
}

// WithMaxSize limits how large the window can be resized. Non-positive values remove the limit.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.maxWidth, w.maxHeight = glfw.DontCare, glfw.DontCare
		if width > 0 {
			w.maxWidth = width
		}
		if height > 0 {
			w.maxHeight = height
		}
	}
}

// WithResizable controls whether the user can resize the window.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.resizable = resizable
	}
}

// WithCloseKey sets the key that closes the window, Escape by default.
// Zero disables the close key.
//
// Parameters:
//   - keyCode: a key code from the common package
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCloseKey(keyCode uint32) WindowBuilderOption {
	return func(w *glfwWindow) {
		w.closeKey = glfw.KeyUnknown
		if keyCode != 0 {
			w.closeKey = glfw.Key(keyCode)
		}
	}
}
