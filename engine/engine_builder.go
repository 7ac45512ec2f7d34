package engine

import (
	"github.com/Carmen-Shannon/oxy-logo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiler enables performance profiling output, optionally configuring the profiler.
//
// Parameters:
//   - options: profiler options, e.g. a draw counter
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(options ...profiler.ProfilerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = true
		e.profiler = profiler.NewProfiler(options...)
	}
}

// WithWindow sets the window whose loop the engine drives.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer hands the renderer to the engine, which resizes it with the
// framebuffer and releases it after the application is disposed.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
