// Package engine hosts an Application on a window: it creates the application,
// forwards framebuffer resizes, drives one render per window loop iteration and
// disposes the application when the window closes.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-logo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/window"
)

// ErrNoWindow is returned by Run when the engine has no window.
var ErrNoWindow = errors.New("engine: no window")

// Application is the lifecycle implemented by a program hosted by the engine.
// Every method is called on the window's thread.
type Application interface {
	// Create is called once before the first frame.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	//
	// Returns:
	//   - error: a non-nil error aborts Run
	Create(width, height int) error

	// Resize is called when the framebuffer size changes to a non-zero size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Render is called once per window loop iteration.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	Render(dt float32)

	// Dispose is called once when the loop ends, including after a failed Create
	// or a recovered panic.
	Dispose()
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time

	running bool
}

// Engine is the main entry point for the engine.
// It owns the window loop and the renderer's lifetime.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer, nil if none was configured.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run creates app, runs the window loop until the window closes, then disposes
	// app and releases the renderer. Blocks until the window closes.
	//
	// Parameters:
	//   - app: the application to host
	//
	// Returns:
	//   - error: ErrNoWindow, or the wrapped error from app.Create
	Run(app Application) error

	// Quit asks the window to close; Run returns after the current frame.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, frame cap)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Run(app Application) error {
	if e.window == nil {
		return ErrNoWindow
	}

	var disposeOnce sync.Once
	dispose := func() {
		disposeOnce.Do(func() {
			app.Dispose()
			if e.renderer != nil {
				e.renderer.Release()
			}
		})
	}
	defer dispose()

	if err := app.Create(e.window.Width(), e.window.Height()); err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	e.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		app.Resize(width, height)
	})
	e.window.SetUpdateCallback(func() {
		if !e.frame(app) {
			e.window.RequestClose()
		}
	})

	e.mu.Lock()
	e.running = true
	e.lastRender = time.Now()
	e.mu.Unlock()

	e.window.ProcessMessages()

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	return nil
}

func (e *engine) Quit() {
	if e.window != nil {
		e.window.RequestClose()
	}
}

// frame renders one frame, ticks the profiler and applies the frame cap.
// It reports false when the application panicked.
func (e *engine) frame(app Application) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render recovered from panic: %v", r)
			ok = false
		}
	}()

	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return false
	}
	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now
	limit := e.renderFrameLimit
	profiling := e.profilingEnabled
	e.mu.Unlock()

	app.Render(dt)

	if profiling {
		e.profiler.Tick()
	}
	if limit > 0 {
		if remaining := limit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	return true
}

// frameDuration converts a frames-per-second cap into a minimum frame duration.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
