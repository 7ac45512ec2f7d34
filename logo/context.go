// Package logo is the glTF logo viewer: it loads one asset, lights it with a
// shadow casting sun and image based lighting, and orbits the camera around it.
package logo

import (
	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/Carmen-Shannon/oxy-logo/engine/input"
	"github.com/Carmen-Shannon/oxy-logo/engine/light"
	"github.com/Carmen-Shannon/oxy-logo/engine/loader"
	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/scene"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
)

// Deps are the collaborators Bootstrap wires together.
type Deps struct {
	// Renderer is required.
	Renderer renderer.Renderer
	// Loader defaults to a glTF loader.
	Loader loader.Loader
	// Input, when set, feeds the camera controller.
	Input input.EventSource
	// Width and Height are the framebuffer size; zero falls back to the renderer size.
	Width, Height int
}

// Context is the viewer state passed from frame to frame.
// Nil fields were never acquired or have been released.
type Context struct {
	Config   Config
	Renderer renderer.Renderer
	Loader   loader.Loader

	Asset    model.Asset
	Instance model.Instance
	Manager  scene.Manager

	Camera     camera.Camera
	Controller camera.InputController
	Input      input.Multiplexer

	Light light.DirectionalLight

	EnvCubemap      texture.Cubemap
	DiffuseCubemap  texture.Cubemap
	SpecularCubemap texture.Cubemap
	BRDFLUT         texture.Texture
	Skybox          scene.Skybox

	// Time is the accumulated frame time in seconds.
	Time float32
	// Frames counts Frame calls that reached the renderer.
	Frames int
	// Err is the most recent render error, nil after a successful frame.
	Err error
}
