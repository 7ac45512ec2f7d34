package logo

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/Carmen-Shannon/oxy-logo/engine/ibl"
	"github.com/Carmen-Shannon/oxy-logo/engine/input"
	"github.com/Carmen-Shannon/oxy-logo/engine/light"
	"github.com/Carmen-Shannon/oxy-logo/engine/loader"
	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/Carmen-Shannon/oxy-logo/engine/scene"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
)

// Bootstrap loads the asset and builds the scene: manager, camera and input
// controller, shadow casting light, IBL cubemaps, BRDF lookup texture and skybox.
//
// The asset is loaded before anything else is constructed. On any later failure
// the partially filled context is returned with the error; pass it to Teardown.
//
// Parameters:
//   - cfg: the viewer configuration
//   - deps: the renderer, loader and input source
//
// Returns:
//   - *Context: the context, partial when err is non-nil and the asset loaded
//   - error: the wrapped failure
func Bootstrap(cfg Config, deps Deps) (*Context, error) {
	if deps.Renderer == nil {
		return nil, errors.New("logo: bootstrap requires a renderer")
	}
	start := time.Now()

	ldr := deps.Loader
	if ldr == nil {
		ldr = loader.NewLoader(loader.BackendTypeGLTF)
	}
	asset, err := ldr.Load(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}

	ctx := &Context{
		Config:   cfg,
		Renderer: deps.Renderer,
		Loader:   ldr,
		Asset:    asset,
		Instance: model.NewInstance(asset),
	}
	ctx.Manager = scene.NewManager(deps.Renderer)
	ctx.Manager.AddScene(ctx.Instance)

	width, height := deps.Width, deps.Height
	if width <= 0 || height <= 0 {
		width, height = deps.Renderer.Size()
	}
	if width <= 0 || height <= 0 {
		width, height = cfg.Width, cfg.Height
	}
	ctx.Camera = camera.NewCamera(
		camera.WithFovDegrees(cfg.FovDegrees),
		camera.WithNear(cfg.Near),
		camera.WithFar(cfg.Far),
		camera.WithViewport(width, height),
	)
	ctx.Manager.SetCamera(ctx.Camera)

	ctx.Controller = camera.NewInputController(ctx.Camera, camera.WithPolicy(cfg.ControlPolicy))
	ctx.Input = input.NewMultiplexer(ctx.Controller)
	if deps.Input != nil {
		ctx.Input.Bind(deps.Input)
	}

	env := ctx.Manager.Environment()
	if err := env.Set(scene.FloatAttribute(scene.ShadowBias, cfg.ShadowBias)); err != nil {
		return ctx, fmt.Errorf("logo: %w", err)
	}

	dir := cfg.LightDirection.Normalize()
	ctx.Light = light.NewDirectionalShadowLight(
		light.WithShadowMapSize(cfg.ShadowMapSize, cfg.ShadowMapSize),
		light.WithShadowViewport(cfg.ShadowWidth, cfg.ShadowHeight, cfg.ShadowNear, cfg.ShadowFar),
		light.WithDirection(dir[0], dir[1], dir[2]),
		light.WithColor(cfg.LightColor[0], cfg.LightColor[1], cfg.LightColor[2]),
		light.WithIntensity(cfg.LightIntensity),
	)
	env.AddLight(ctx.Light)

	if err := buildLighting(ctx); err != nil {
		return ctx, fmt.Errorf("logo: %w", err)
	}

	ctx.BRDFLUT, err = texture.LoadBRDFLUT()
	if err != nil {
		return ctx, fmt.Errorf("logo: %w", err)
	}

	ctx.Manager.SetAmbientLight(cfg.AmbientLight)
	for _, a := range []scene.Attribute{
		scene.TextureAttribute(scene.BRDFLUTTexture, ctx.BRDFLUT),
		scene.CubemapAttribute(scene.SpecularEnv, ctx.SpecularCubemap),
		scene.CubemapAttribute(scene.DiffuseEnv, ctx.DiffuseCubemap),
	} {
		if err := env.Set(a); err != nil {
			return ctx, fmt.Errorf("logo: %w", err)
		}
	}

	ctx.Skybox, err = scene.NewSkybox(ctx.EnvCubemap)
	if err != nil {
		return ctx, fmt.Errorf("logo: %w", err)
	}
	ctx.Manager.SetSkybox(ctx.Skybox)

	log.Printf("[Logo] bootstrapped %s (%dx%d, policy %s) in %s",
		cfg.ModelPath, width, height, cfg.ControlPolicy, time.Since(start).Round(time.Millisecond))
	return ctx, nil
}

// buildLighting derives the environment, irradiance and radiance cubemaps from
// the context's light and releases the builder before returning.
func buildLighting(ctx *Context) (err error) {
	var options []ibl.BuilderOption
	if ctx.Config.IBLWorkers > 0 {
		options = append(options, ibl.WithWorkers(ctx.Config.IBLWorkers))
	}
	builder := ibl.NewOutdoorBuilder(ctx.Light, options...)
	defer func() {
		err = errors.Join(err, builder.Dispose())
	}()

	if ctx.EnvCubemap, err = builder.BuildEnvMap(ctx.Config.EnvMapSize); err != nil {
		return err
	}
	if ctx.DiffuseCubemap, err = builder.BuildIrradianceMap(ctx.Config.IrradianceMapSize); err != nil {
		return err
	}
	if ctx.SpecularCubemap, err = builder.BuildRadianceMap(ctx.Config.RadianceLevels); err != nil {
		return err
	}
	return nil
}
