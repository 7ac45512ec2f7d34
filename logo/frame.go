package logo

import (
	"log"
	"math"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// orbitPeriodScale stretches the elevation sweep: t = π|sin(time/orbitPeriodScale)|.
const orbitPeriodScale = 5

var (
	origin  = mgl32.Vec3{0, 0, 0}
	worldUp = mgl32.Vec3{0, 1, 0}
)

// ElevationAngle maps accumulated time to the orbit angle π·|sin(time/5)|.
// The result lies in [0, π] and repeats every 5π seconds.
//
// Parameters:
//   - time: accumulated seconds
//
// Returns:
//   - float32: the angle in radians
func ElevationAngle(time float32) float32 {
	return float32(math.Pi * math.Abs(math.Sin(float64(time)/orbitPeriodScale)))
}

// OrbitPosition places the camera on a sphere around the origin. The azimuth is
// t·π/4 and the polar angle is fixed.
//
// Parameters:
//   - t: the elevation angle from ElevationAngle
//   - radius: the sphere radius
//   - polar: the polar offset in radians
//
// Returns:
//   - mgl32.Vec3: the camera position
func OrbitPosition(t, radius, polar float32) mgl32.Vec3 {
	return common.Spherical(t*math.Pi/4, polar).Mul(radius)
}

// Frame advances the context by dt seconds and renders one frame: scripted
// camera orbit, controller input, clear, scene update and render.
// Negative dt counts as zero. Render errors are kept in ctx.Err.
//
// Parameters:
//   - ctx: the bootstrapped context
//   - dt: seconds since the previous frame
//
// Returns:
//   - *Context: ctx, advanced
func Frame(ctx *Context, dt float32) *Context {
	if ctx == nil || ctx.Manager == nil || ctx.Camera == nil {
		return ctx
	}
	dt = max(dt, 0)
	ctx.Time += dt

	if ctx.Controller == nil || !ctx.Controller.Overriding() {
		cfg := ctx.Config
		ctx.Camera.SetPosition(OrbitPosition(ElevationAngle(ctx.Time), cfg.OrbitRadius, cfg.OrbitPolar))
		ctx.Camera.SetUp(worldUp)
		ctx.Camera.LookAt(origin)
		ctx.Camera.Update()
	}
	if ctx.Controller != nil {
		ctx.Controller.Update(dt)
	}

	ctx.Renderer.Clear(renderer.ClearColor|renderer.ClearDepth, ctx.Config.ClearColor)
	ctx.Manager.Update(dt)
	err := ctx.Manager.Render()
	if err != nil && ctx.Err == nil {
		log.Printf("[Logo] render failed: %v", err)
	}
	ctx.Err = err
	ctx.Frames++
	return ctx
}

// Resize forwards a framebuffer resize to the scene manager's camera.
// Zero sizes, as sent for a minimized window, are ignored.
//
// Parameters:
//   - ctx: the context
//   - width: the new width in pixels
//   - height: the new height in pixels
func Resize(ctx *Context, width, height int) {
	if ctx == nil || ctx.Manager == nil || width <= 0 || height <= 0 {
		return
	}
	ctx.Manager.UpdateViewport(width, height)
}
