package logo

import (
	"log"

	"github.com/Carmen-Shannon/oxy-logo/engine"
	"github.com/Carmen-Shannon/oxy-logo/engine/input"
	"github.com/Carmen-Shannon/oxy-logo/engine/loader"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
)

// App adapts the viewer to the engine.Application lifecycle.
type App struct {
	cfg  Config
	deps Deps
	ctx  *Context
}

var _ engine.Application = &App{}

// NewApp creates the viewer application.
//
// Parameters:
//   - cfg: the viewer configuration
//   - r: the renderer
//   - events: the window input source, may be nil
//   - l: the asset loader, nil for a glTF loader
//
// Returns:
//   - *App: the application
func NewApp(cfg Config, r renderer.Renderer, events input.EventSource, l loader.Loader) *App {
	return &App{cfg: cfg, deps: Deps{Renderer: r, Input: events, Loader: l}}
}

// Context returns the live context, nil before Create or after Dispose.
func (a *App) Context() *Context {
	return a.ctx
}

func (a *App) Create(width, height int) error {
	deps := a.deps
	deps.Width, deps.Height = width, height
	ctx, err := Bootstrap(a.cfg, deps)
	a.ctx = ctx
	return err
}

func (a *App) Resize(width, height int) {
	Resize(a.ctx, width, height)
}

func (a *App) Render(dt float32) {
	a.ctx = Frame(a.ctx, dt)
}

func (a *App) Dispose() {
	if err := Teardown(a.ctx); err != nil {
		log.Printf("[Logo] teardown: %v", err)
	}
	a.ctx = nil
}
