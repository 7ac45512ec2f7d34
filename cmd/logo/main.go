// Command logo opens a window and displays models/libGDX-logo.gltf with
// shadowed PBR shading and image based lighting while the camera orbits it.
package main

import (
	"log"
	"runtime"

	"github.com/Carmen-Shannon/oxy-logo/engine"
	"github.com/Carmen-Shannon/oxy-logo/engine/profiler"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/window"
	"github.com/Carmen-Shannon/oxy-logo/logo"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg := logo.DefaultConfig()

	win := window.NewWindow(
		window.WithTitle(cfg.Title),
		window.WithSize(cfg.Width, cfg.Height),
	)
	r := renderer.NewRenderer(win, renderer.WithPresentMode(renderer.PresentModeVSync))
	app := logo.NewApp(cfg, r, win, nil)

	options := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithRenderFrameLimit(cfg.FrameCap),
	}
	if cfg.Profile {
		options = append(options, engine.WithProfiler(profiler.WithDrawCounter(func() (int, int) {
			ctx := app.Context()
			if ctx == nil || ctx.Manager == nil {
				return 0, 0
			}
			s := ctx.Manager.Stats()
			return s.Draws, s.Culled
		})))
	}

	err := engine.NewEngine(options...).Run(app)
	win.Close()
	if err != nil {
		log.Fatalf("[Logo] %v", err)
	}
}
