package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/Carmen-Shannon/oxy-logo/engine/light"
	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

func triangleAsset(t *testing.T, mat model.Material) model.Asset {
	t.Helper()
	verts := []renderer.GPUVertex{
		{Position: [3]float32{-1, -1, 0}},
		{Position: [3]float32{1, -1, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
	bounds := common.EmptyAABB()
	for _, v := range verts {
		bounds = bounds.Extend(v.Position)
	}
	a := model.NewAsset(
		model.WithName("tri"),
		model.WithMeshes(model.Mesh{Name: "tri", Vertices: verts, Indices: []uint32{0, 1, 2}, MaterialIndex: 0, Bounds: bounds}),
		model.WithMaterials(mat),
		model.WithNodes(model.Node{Name: "root", Local: model.IdentityTransform(), Meshes: []int{0}}),
		model.WithRoots(0),
	)
	t.Cleanup(func() { a.Dispose() })
	return a
}

func testCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, 0, 5}),
		camera.WithNear(0.1),
		camera.WithFar(100),
		camera.WithViewport(4, 3),
	)
}

func testCubemap(t *testing.T, label string, size uint32, levels int) texture.Cubemap {
	t.Helper()
	data := &common.CubemapStagingData{Size: size, Levels: make([][6][]byte, levels)}
	for l := range levels {
		edge := int(data.LevelSize(l))
		for f := range 6 {
			data.Levels[l][f] = make([]byte, edge*edge*texture.BytesPerTexel)
		}
	}
	c, err := texture.NewCubemap(label, data)
	if err != nil {
		t.Fatalf("NewCubemap: %v", err)
	}
	t.Cleanup(func() { c.Dispose() })
	return c
}

func testTexture(t *testing.T, label string) texture.Texture {
	t.Helper()
	tex, err := texture.NewTexture(label, &common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	t.Cleanup(func() { tex.Dispose() })
	return tex
}

func TestRenderRequiresCamera(t *testing.T) {
	m := NewManager(renderertest.NewFake(4, 3))
	if err := m.Render(); !errors.Is(err, ErrNoCamera) {
		t.Fatalf("Render without camera = %v, want ErrNoCamera", err)
	}
	m.SetCamera(testCamera())
	if err := m.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := m.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := m.Render(); !errors.Is(err, ErrDisposed) {
		t.Fatalf("Render after Dispose = %v, want ErrDisposed", err)
	}
	if err := m.Dispose(); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}
}

func TestRenderBuildsFrame(t *testing.T) {
	f := renderertest.NewFake(4, 3)
	m := NewManager(f, WithCamera(testCamera()))
	m.AddScene(model.NewInstance(triangleAsset(t, model.DefaultMaterial())))

	sun := light.NewDirectionalShadowLight(light.WithDirection(1, -3, 1), light.WithIntensity(10))
	env := m.Environment()
	env.AddLight(sun)
	if err := env.Set(FloatAttribute(ShadowBias, 0.001)); err != nil {
		t.Fatal(err)
	}
	m.SetAmbientLight(0.2)

	envMap := testCubemap(t, "env", 2, 1)
	specular := testCubemap(t, "specular", 4, 3)
	diffuse := testCubemap(t, "diffuse", 1, 1)
	brdf := testTexture(t, "brdf")
	for _, a := range []Attribute{
		TextureAttribute(BRDFLUTTexture, brdf),
		CubemapAttribute(SpecularEnv, specular),
		CubemapAttribute(DiffuseEnv, diffuse),
	} {
		if err := env.Set(a); err != nil {
			t.Fatalf("Set(%s): %v", a.Type(), err)
		}
	}
	sky, err := NewSkybox(envMap)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sky.Dispose() })
	m.SetSkybox(sky)

	m.Update(0.016)
	if err := m.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	frame := f.LastFrame()
	if frame == nil || len(frame.Draws) != 1 {
		t.Fatalf("frame = %+v, want one draw", frame)
	}
	if frame.ShadowMapSize != light.DefaultShadowMapSize {
		t.Errorf("ShadowMapSize = %d", frame.ShadowMapSize)
	}
	u := frame.Uniforms
	if u.Ambient[0] != 0.2 || u.Ambient[1] != 0.001 || u.Ambient[2] <= 0 || u.Ambient[3] != 3 {
		t.Errorf("Ambient = %v", u.Ambient)
	}
	if u.LightDir[3] != 1 || !u.LightDir.Vec3().ApproxEqual(sun.Direction()) {
		t.Errorf("LightDir = %v", u.LightDir)
	}
	if !u.LightColor.Vec3().ApproxEqual(mgl32.Vec3{10, 10, 10}) {
		t.Errorf("LightColor = %v", u.LightColor)
	}
	if u.ShadowParams[2] != 1 || u.ShadowParams[0] != 1.0/light.DefaultShadowMapSize {
		t.Errorf("ShadowParams = %v", u.ShadowParams)
	}
	if !u.CameraPos.Vec3().ApproxEqual(mgl32.Vec3{0, 0, 5}) {
		t.Errorf("CameraPos = %v", u.CameraPos)
	}
	if frame.Environment.BRDF != brdf.GPU() || frame.Environment.Diffuse != diffuse.GPU() || frame.Environment.Specular != specular.GPU() {
		t.Errorf("environment bindings = %+v", frame.Environment)
	}
	if frame.Skybox == nil || frame.Skybox != envMap.GPU() {
		t.Errorf("skybox handle %v does not match the shared environment cubemap", frame.Skybox)
	}
	if p := frame.Draws[0].Object.Params; p[0] != 1 || p[1] != 1 || p[2] != 1 || p[3] != 0 {
		t.Errorf("object params = %v", p)
	}

	created := len(f.Handles)
	if err := m.Render(); err != nil {
		t.Fatalf("second Render: %v", err)
	}
	if len(f.Handles) != created {
		t.Errorf("second Render created %d new handles, want 0", len(f.Handles)-created)
	}
}

func TestRenderWithoutLight(t *testing.T) {
	f := renderertest.NewFake(4, 3)
	m := NewManager(f, WithCamera(testCamera()))
	m.AddScene(model.NewInstance(triangleAsset(t, model.DefaultMaterial())))
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	frame := f.LastFrame()
	if frame.ShadowMapSize != 0 || frame.Uniforms.LightDir[3] != 0 {
		t.Errorf("unlit frame has shadow %d, light flag %v", frame.ShadowMapSize, frame.Uniforms.LightDir[3])
	}
	if frame.Uniforms.Ambient[0] != 1 || frame.Uniforms.Ambient[1] != light.DefaultShadowBias {
		t.Errorf("default Ambient = %v", frame.Uniforms.Ambient)
	}
}

func TestTexturedMaterial(t *testing.T) {
	f := renderertest.NewFake(4, 3)
	mat := model.DefaultMaterial()
	mat.BaseColorTexture = testTexture(t, "albedo")
	mat.Emissive = mgl32.Vec3{0.5, 0, 0}
	mat.DoubleSided = true

	m := NewManager(f, WithCamera(testCamera()))
	m.AddScene(model.NewInstance(triangleAsset(t, mat)))
	if err := m.Render(); err != nil {
		t.Fatal(err)
	}
	d := f.LastFrame().Draws[0]
	if d.BaseColorTexture == nil || d.BaseColorTexture != mat.BaseColorTexture.GPU() {
		t.Errorf("BaseColorTexture = %v", d.BaseColorTexture)
	}
	if d.Object.Params[3] != 1 || !d.DoubleSided || d.Object.Emissive[0] != 0.5 {
		t.Errorf("draw = %+v", d)
	}
}

func TestFrustumCulling(t *testing.T) {
	tests := []struct {
		name       string
		options    []ManagerBuilderOption
		wantDraws  int
		wantCulled int
	}{
		{name: "culling", wantDraws: 1, wantCulled: 1},
		{name: "disabled", options: []ManagerBuilderOption{WithCullingDisabled(true)}, wantDraws: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := renderertest.NewFake(4, 3)
			m := NewManager(f, append([]ManagerBuilderOption{WithCamera(testCamera())}, tt.options...)...)
			a := triangleAsset(t, model.DefaultMaterial())
			visible := model.NewInstance(a)
			behind := model.NewInstance(a)
			behind.SetTransform(mgl32.Translate3D(0, 0, 50))
			m.AddScene(visible)
			m.AddScene(behind)
			m.AddScene(visible)

			if err := m.Render(); err != nil {
				t.Fatal(err)
			}
			stats := m.Stats()
			if stats.Draws != tt.wantDraws || stats.Culled != tt.wantCulled {
				t.Errorf("stats = %+v, want %d draws, %d culled", stats, tt.wantDraws, tt.wantCulled)
			}
			if got := len(f.LastFrame().Draws); got != tt.wantDraws {
				t.Errorf("frame has %d draws", got)
			}
		})
	}
}

func TestUpdateViewport(t *testing.T) {
	cam := testCamera()
	m := NewManager(renderertest.NewFake(4, 3), WithCamera(cam))
	before := cam.ProjectionMatrix()

	m.UpdateViewport(800, 200)
	if got := cam.Aspect(); got != 4 {
		t.Fatalf("Aspect = %v, want 4", got)
	}
	if cam.ProjectionMatrix() == before {
		t.Error("projection not recomputed after UpdateViewport")
	}
	m.UpdateViewport(0, 0)
	if w, h := cam.Viewport(); w != 800 || h != 200 {
		t.Errorf("zero resize changed viewport to %dx%d", w, h)
	}
}

func TestSetAmbientLight(t *testing.T) {
	m := NewManager(renderertest.NewFake(4, 3))
	for _, v := range []float32{0.2, 0, 1.5} {
		m.SetAmbientLight(v)
		a, ok := m.Environment().Get(AmbientLight)
		if !ok {
			t.Fatalf("SetAmbientLight(%v) stored nothing", v)
		}
		if got := a.(FloatValue).Value; got != v {
			t.Fatalf("ambient = %v, want %v", got, v)
		}
	}
}

func TestEnvironmentAttributes(t *testing.T) {
	env := NewEnvironment()
	if err := env.Set(FloatAttribute(SpecularEnv, 1)); !errors.Is(err, ErrAttributeKind) {
		t.Errorf("float for SpecularEnv = %v, want ErrAttributeKind", err)
	}
	if err := env.Set(nil); !errors.Is(err, ErrAttributeKind) {
		t.Errorf("nil attribute = %v", err)
	}
	if got := env.Float(ShadowBias, 0.5); got != 0.5 {
		t.Errorf("unset Float = %v, want fallback", got)
	}
	if err := env.Set(FloatAttribute(ShadowBias, 0.002)); err != nil {
		t.Fatal(err)
	}
	a, ok := env.Get(ShadowBias)
	if !ok || a.(FloatValue).Value != 0.002 {
		t.Errorf("Get(ShadowBias) = %v, %v", a, ok)
	}
	env.Remove(ShadowBias)
	if _, ok := env.Get(ShadowBias); ok {
		t.Error("attribute still set after Remove")
	}

	l := light.NewDirectionalLight()
	env.AddLight(l)
	env.AddLight(l)
	if n := len(env.Lights()); n != 1 {
		t.Errorf("Lights() has %d entries, want 1", n)
	}
	if !env.RemoveLight(l) || env.RemoveLight(l) {
		t.Error("RemoveLight should succeed once")
	}
}

func TestSkyboxSharesCubemap(t *testing.T) {
	envMap := testCubemap(t, "env", 1, 1)
	sky, err := NewSkybox(envMap)
	if err != nil {
		t.Fatal(err)
	}
	if envMap.Refs() != 2 {
		t.Fatalf("Refs = %d, want 2", envMap.Refs())
	}
	if err := sky.Dispose(); err != nil {
		t.Fatal(err)
	}
	if err := sky.Dispose(); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}
	if envMap.Refs() != 1 || envMap.Data() == nil {
		t.Errorf("environment cubemap lost after skybox dispose: refs %d", envMap.Refs())
	}
	if sky.Cubemap() != nil || !sky.Disposed() {
		t.Error("skybox still holds its cubemap")
	}

	if _, err := NewSkybox(nil); err == nil {
		t.Error("NewSkybox(nil) should fail")
	}
}

func TestDisposeKeepsCallerResources(t *testing.T) {
	a := triangleAsset(t, model.DefaultMaterial())
	diffuse := testCubemap(t, "diffuse", 1, 1)
	m := NewManager(renderertest.NewFake(4, 3), WithCamera(testCamera()))
	m.AddScene(model.NewInstance(a))
	m.Environment().AddLight(light.NewDirectionalShadowLight())
	if err := m.Environment().Set(CubemapAttribute(DiffuseEnv, diffuse)); err != nil {
		t.Fatal(err)
	}

	if err := m.Dispose(); err != nil {
		t.Fatal(err)
	}
	if a.Disposed() || diffuse.Disposed() {
		t.Error("manager disposed caller-owned resources")
	}
	if len(m.Scenes()) != 0 || len(m.Environment().Lights()) != 0 || m.Camera() != nil {
		t.Error("manager state not cleared")
	}
}
