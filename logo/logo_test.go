package logo

import (
	"errors"
	"io/fs"
	"math"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/Carmen-Shannon/oxy-logo/engine/loader"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-logo/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

// vecNear compares component-wise with an absolute tolerance.
func vecNear(a, b mgl32.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tol {
			return false
		}
	}
	return true
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ModelPath = "testdata/triangle.gltf"
	cfg.EnvMapSize = 4
	cfg.IrradianceMapSize = 2
	cfg.RadianceLevels = 3
	cfg.IBLWorkers = 2
	return cfg
}

func bootstrap(t *testing.T, cfg Config) (*Context, *renderertest.Fake) {
	t.Helper()
	f := renderertest.NewFake(640, 480)
	ctx, err := Bootstrap(cfg, Deps{
		Renderer: f,
		Loader:   loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogging(false)),
	})
	if err != nil {
		Teardown(ctx)
		t.Fatalf("Bootstrap: %v", err)
	}
	t.Cleanup(func() { Teardown(ctx) })
	return ctx, f
}

func timeZeroPosition() mgl32.Vec3 {
	return mgl32.Vec3{float32(7 * math.Sin(0.3)), 0, float32(7 * math.Cos(0.3))}
}

func TestElevationAngle(t *testing.T) {
	tests := []struct {
		time float32
		want float32
	}{
		{time: 0, want: 0},
		{time: 5 * math.Pi / 2, want: math.Pi},
		{time: 5 * math.Pi, want: 0},
	}
	for _, tt := range tests {
		if got := ElevationAngle(tt.time); math.Abs(float64(got-tt.want)) > eps {
			t.Errorf("ElevationAngle(%v) = %v, want %v", tt.time, got, tt.want)
		}
	}

	for time := float32(0); time < 100; time += 0.37 {
		got := ElevationAngle(time)
		if got < 0 || got > math.Pi {
			t.Fatalf("ElevationAngle(%v) = %v out of [0, π]", time, got)
		}
		if next := ElevationAngle(time + 5*math.Pi); math.Abs(float64(next-got)) > 1e-3 {
			t.Fatalf("not periodic at %v: %v vs %v", time, got, next)
		}
	}
}

func TestOrbitPosition(t *testing.T) {
	for time := float32(0); time < 40; time += 0.5 {
		pos := OrbitPosition(ElevationAngle(time), 7, 0.3)
		if math.Abs(float64(pos.Len()-7)) > eps {
			t.Fatalf("|OrbitPosition| = %v at time %v, want 7", pos.Len(), time)
		}
	}
	if got := OrbitPosition(0, 7, 0.3); !vecNear(got, timeZeroPosition(), eps) {
		t.Errorf("OrbitPosition(0) = %v, want %v", got, timeZeroPosition())
	}
}

func TestBootstrap(t *testing.T) {
	ctx, _ := bootstrap(t, testConfig())

	if ctx.Asset == nil || ctx.Instance == nil || ctx.Manager == nil || ctx.Camera == nil || ctx.Controller == nil {
		t.Fatalf("context not fully populated: %+v", ctx)
	}
	if ctx.EnvCubemap == nil || ctx.DiffuseCubemap == nil || ctx.SpecularCubemap == nil || ctx.BRDFLUT == nil {
		t.Fatal("cubemaps or BRDF lookup texture missing")
	}
	if ctx.SpecularCubemap.Levels() != 3 || ctx.EnvCubemap.Size() != 4 || ctx.DiffuseCubemap.Size() != 2 {
		t.Errorf("cubemap sizes: env %d, diffuse %d, specular levels %d",
			ctx.EnvCubemap.Size(), ctx.DiffuseCubemap.Size(), ctx.SpecularCubemap.Levels())
	}
	if ctx.EnvCubemap.Refs() != 2 {
		t.Errorf("environment cubemap refs = %d, want 2 (context and skybox)", ctx.EnvCubemap.Refs())
	}

	env := ctx.Manager.Environment()
	lights := env.Lights()
	if len(lights) != 1 || lights[0] != ctx.Light || !ctx.Light.CastsShadows() {
		t.Fatalf("lights = %v", lights)
	}
	if !vecNear(ctx.Light.Direction(), mgl32.Vec3{1, -3, 1}.Normalize(), 1e-6) || ctx.Light.Intensity() != 10 {
		t.Errorf("light direction %v intensity %v", ctx.Light.Direction(), ctx.Light.Intensity())
	}
	if w, h := ctx.Light.ShadowMapSize(); w != 2048 || h != 2048 {
		t.Errorf("shadow map %dx%d", w, h)
	}
	if got := env.Float(scene.ShadowBias, 0); got != 0.001 {
		t.Errorf("ShadowBias = %v", got)
	}
	if got := env.Float(scene.AmbientLight, 0); got != 0.2 {
		t.Errorf("AmbientLight = %v", got)
	}
	if env.Texture(scene.BRDFLUTTexture) != ctx.BRDFLUT || env.Cubemap(scene.DiffuseEnv) != ctx.DiffuseCubemap || env.Cubemap(scene.SpecularEnv) != ctx.SpecularCubemap {
		t.Error("environment attributes not installed")
	}
	if ctx.Manager.Skybox() != ctx.Skybox {
		t.Error("skybox not installed")
	}
	if w, h := ctx.Camera.Viewport(); w != 640 || h != 480 {
		t.Errorf("viewport = %dx%d, want the renderer size", w, h)
	}
	if math.Abs(float64(ctx.Camera.Fov())-math.Pi/3) > eps || ctx.Camera.Near() != 0.01 || ctx.Camera.Far() != 1000 {
		t.Errorf("camera fov %v near %v far %v", ctx.Camera.Fov(), ctx.Camera.Near(), ctx.Camera.Far())
	}

	Frame(ctx, 0)
	if got := ctx.Camera.Position(); !vecNear(got, timeZeroPosition(), 1e-3) {
		t.Errorf("camera at %v after first frame, want %v", got, timeZeroPosition())
	}
}

func TestBootstrapMissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.ModelPath = "testdata/missing.gltf"
	f := renderertest.NewFake(640, 480)

	ctx, err := Bootstrap(cfg, Deps{Renderer: f})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if ctx != nil {
		t.Fatalf("context %+v returned for a missing asset", ctx)
	}
	if len(f.Calls) != 0 {
		t.Errorf("renderer used before the asset loaded: %v", f.Calls)
	}
}

func TestFrameOrder(t *testing.T) {
	ctx, f := bootstrap(t, testConfig())
	f.Calls = nil

	if got := Frame(ctx, 0.5); got != ctx {
		t.Fatal("Frame returned a different context")
	}
	if ctx.Err != nil {
		t.Fatalf("render error: %v", ctx.Err)
	}
	clearAt := slices.Index(f.Calls, "Clear")
	renderAt := slices.Index(f.Calls, "Render")
	if clearAt < 0 || renderAt < 0 || clearAt > renderAt {
		t.Fatalf("calls = %v, want Clear before Render", f.Calls)
	}
	if f.LastClear != renderer.ClearColor|renderer.ClearDepth {
		t.Errorf("clear flags = %v", f.LastClear)
	}
	if ctx.Time != 0.5 || ctx.Frames != 1 {
		t.Errorf("time %v frames %d", ctx.Time, ctx.Frames)
	}
	if ctx.Manager.Stats().Draws != 1 {
		t.Errorf("stats = %+v, want one draw", ctx.Manager.Stats())
	}

	frame := f.LastFrame()
	if frame.ShadowMapSize != 2048 || frame.Skybox == nil || frame.Environment.BRDF == nil {
		t.Errorf("frame = %+v", frame)
	}

	Frame(ctx, -1)
	if ctx.Time != 0.5 {
		t.Errorf("negative dt moved time to %v", ctx.Time)
	}
}

func TestResizeBeforeRender(t *testing.T) {
	ctx, _ := bootstrap(t, testConfig())
	before := ctx.Camera.ProjectionMatrix()

	Resize(ctx, 800, 400)
	if got := ctx.Camera.Aspect(); got != 2 {
		t.Fatalf("aspect = %v, want 2", got)
	}
	if ctx.Camera.ProjectionMatrix() == before {
		t.Error("projection not updated")
	}
	Resize(ctx, 0, 0)
	if w, h := ctx.Camera.Viewport(); w != 800 || h != 400 {
		t.Errorf("zero resize changed the viewport to %dx%d", w, h)
	}

	Frame(ctx, 0.016)
	if got := ctx.Camera.Aspect(); got != 2 {
		t.Errorf("aspect after frame = %v", got)
	}
}

func TestControlPolicyOverride(t *testing.T) {
	cfg := testConfig()
	cfg.ControlPolicy = camera.PolicyOverride
	ctx, _ := bootstrap(t, cfg)

	Frame(ctx, 0)
	ctx.Input.KeyDown(common.KeyW)
	Frame(ctx, 0.1)
	if !ctx.Controller.Overriding() {
		t.Fatal("controller not overriding after input")
	}
	scripted := OrbitPosition(ElevationAngle(ctx.Time), 7, 0.3)
	if got := ctx.Camera.Position(); vecNear(got, scripted, 1e-3) {
		t.Errorf("camera at scripted pose %v while the user drives it", got)
	}
	if d := ctx.Camera.Position().Len(); d >= 7 {
		t.Errorf("W key did not dolly in: distance %v", d)
	}
}

func TestTeardown(t *testing.T) {
	cfg := testConfig()
	f := renderertest.NewFake(640, 480)
	ldr := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogging(false))
	ctx, err := Bootstrap(cfg, Deps{Renderer: f, Loader: ldr})
	if err != nil {
		t.Fatal(err)
	}
	Frame(ctx, 0.016)

	asset, envMap, diffuse, specular, brdf, sky := ctx.Asset, ctx.EnvCubemap, ctx.DiffuseCubemap, ctx.SpecularCubemap, ctx.BRDFLUT, ctx.Skybox
	manager := ctx.Manager

	if err := Teardown(ctx); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if !manager.Disposed() || !asset.Disposed() || !envMap.Disposed() || !diffuse.Disposed() ||
		!specular.Disposed() || !brdf.Disposed() || !sky.Disposed() {
		t.Fatal("a bootstrap resource was not disposed")
	}
	if envMap.Data() != nil {
		t.Error("environment cubemap data survived both handles")
	}
	for _, h := range f.Handles {
		if h.Releases() != 1 {
			t.Errorf("%s %q released %d times, want 1", h.Kind, h.Label, h.Releases())
		}
	}
	if ldr.Get(cfg.ModelPath) != nil {
		t.Error("asset still cached after teardown")
	}
	if ctx.Manager != nil || ctx.Asset != nil || ctx.EnvCubemap != nil || ctx.Skybox != nil || ctx.BRDFLUT != nil {
		t.Error("context fields not cleared")
	}

	if err := Teardown(ctx); err != nil {
		t.Fatalf("second Teardown: %v", err)
	}
	for _, h := range f.Handles {
		if h.Releases() != 1 {
			t.Errorf("%s %q released again by the second teardown", h.Kind, h.Label)
		}
	}
	if got := Frame(ctx, 0.016); got.Frames != 1 {
		t.Error("Frame rendered a torn down context")
	}
}

func TestTeardownPartial(t *testing.T) {
	if err := Teardown(nil); err != nil {
		t.Fatal(err)
	}
	if err := Teardown(&Context{}); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.RadianceLevels = 0
	ctx, err := Bootstrap(cfg, Deps{Renderer: renderertest.NewFake(1, 1)})
	if err == nil {
		t.Fatal("Bootstrap with zero radiance levels succeeded")
	}
	if ctx == nil || ctx.Manager == nil || ctx.EnvCubemap == nil || ctx.SpecularCubemap != nil || ctx.Skybox != nil {
		t.Fatalf("unexpected partial context %+v", ctx)
	}
	envMap := ctx.EnvCubemap
	if err := Teardown(ctx); err != nil {
		t.Fatalf("Teardown(partial): %v", err)
	}
	if !envMap.Disposed() {
		t.Error("partial teardown leaked the environment cubemap")
	}
}

func TestApp(t *testing.T) {
	f := renderertest.NewFake(1, 1)
	app := NewApp(testConfig(), f, nil, loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogging(false)))
	if err := app.Create(320, 240); err != nil {
		t.Fatal(err)
	}
	if w, h := app.Context().Camera.Viewport(); w != 320 || h != 240 {
		t.Errorf("viewport = %dx%d, want the framebuffer size", w, h)
	}
	app.Resize(640, 320)
	app.Render(0.25)
	if ctx := app.Context(); ctx.Frames != 1 || ctx.Camera.Aspect() != 2 {
		t.Errorf("frames %d aspect %v", ctx.Frames, ctx.Camera.Aspect())
	}
	app.Dispose()
	if app.Context() != nil || len(f.Live("Cubemap")) != 0 || len(f.Live("Mesh")) != 0 {
		t.Error("Dispose left live resources")
	}
}
