package loader

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestLoader() Loader {
	return NewLoader(BackendTypeGLTF, WithLogging(false))
}

func TestLoadTriangle(t *testing.T) {
	a, err := newTestLoader().Load("testdata/triangle.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Name() != "triangle" {
		t.Errorf("name = %q", a.Name())
	}
	meshes := a.Meshes()
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	m := meshes[0]
	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("vertices=%d indices=%d", len(m.Vertices), len(m.Indices))
	}
	if n := mgl32.Vec3(m.Vertices[1].Normal); !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v", n)
	}
	if uv := m.Vertices[1].TexCoord; uv != [2]float32{1, 0} {
		t.Errorf("uv = %v", uv)
	}
	if m.Vertices[0].Color != [4]float32{1, 1, 1, 1} {
		t.Errorf("default vertex color = %v", m.Vertices[0].Color)
	}
	if !m.Bounds.Max.ApproxEqual(mgl32.Vec3{1, 1, 0}) {
		t.Errorf("bounds = %+v", m.Bounds)
	}

	mat := a.Material(0)
	if mat.Name != "gold" || !mat.DoubleSided {
		t.Errorf("material = %+v", mat)
	}
	if mgl32.Abs(mat.Metallic-0.9) > 1e-6 || mgl32.Abs(mat.Roughness-0.3) > 1e-6 {
		t.Errorf("metallic=%v roughness=%v", mat.Metallic, mat.Roughness)
	}
	if !mat.BaseColor.ApproxEqual(mgl32.Vec4{1, 0.8, 0.2, 1}) || !mat.Emissive.ApproxEqual(mgl32.Vec3{0.1, 0, 0}) {
		t.Errorf("colors = %v %v", mat.BaseColor, mat.Emissive)
	}
	if roots := a.Roots(); len(roots) != 1 || roots[0] != 0 {
		t.Errorf("roots = %v", roots)
	}
}

func TestLoadCaches(t *testing.T) {
	l := newTestLoader()
	a1, err := l.Load("testdata/triangle.gltf")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := l.Load("./testdata/../testdata/triangle.gltf")
	if err != nil {
		t.Fatal(err)
	}
	if a1 != a2 {
		t.Fatal("equivalent paths returned different assets")
	}
	if len(l.Assets()) != 1 || l.Get("testdata/triangle.gltf") != a1 {
		t.Fatalf("cache = %v", l.Assets())
	}

	if !l.Unload("testdata/triangle.gltf") {
		t.Fatal("Unload reported a miss")
	}
	if l.Unload("testdata/triangle.gltf") {
		t.Fatal("second Unload reported a hit")
	}
	a3, _ := l.Load("testdata/triangle.gltf")
	if a3 == a1 {
		t.Fatal("load after Unload returned the dropped asset")
	}
	l.Clear()
	if len(l.Assets()) != 0 {
		t.Fatal("Clear left assets behind")
	}
	if a1.Disposed() || a3.Disposed() {
		t.Fatal("the loader must not dispose assets")
	}
}

func TestLoadErrors(t *testing.T) {
	l := newTestLoader()

	_, err := l.Load("testdata/model.obj")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("obj: got %v, want ErrUnsupportedFormat", err)
	}

	_, err = l.Load("testdata/missing.gltf")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing: got %v, want fs.ErrNotExist", err)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "failed to load testdata/missing.gltf") {
		t.Errorf("missing: error text %q", err)
	}

	if _, err = l.Load("testdata/broken.gltf"); err == nil {
		t.Error("broken: expected a decode error")
	}
	if len(l.Assets()) != 0 {
		t.Errorf("failed loads were cached: %v", l.Assets())
	}
}

func TestLoadAnimated(t *testing.T) {
	a, err := newTestLoader().Load("testdata/animated.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := a.Meshes()[0]
	if m.MaterialIndex != -1 {
		t.Errorf("material index = %d, want -1", m.MaterialIndex)
	}
	if len(m.Indices) != 6 || m.Indices[5] != 5 {
		t.Errorf("generated indices = %v", m.Indices)
	}
	for i, v := range m.Vertices {
		if n := mgl32.Vec3(v.Normal); !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Fatalf("generated normal %d = %v", i, n)
		}
	}

	nodes := a.Nodes()
	if nodes[1].Parent != 0 || nodes[1].Local.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Fatalf("child node = %+v", nodes[1])
	}

	anims := a.Animations()
	if len(anims) != 1 || anims[0].Duration != 2 || len(anims[0].Channels) != 1 {
		t.Fatalf("animations = %+v", anims)
	}
	ch := anims[0].Channels[0]
	if ch.NodeIndex != 1 || len(ch.PositionKeys) != 3 || len(ch.RotationKeys) != 3 {
		t.Fatalf("channel = %+v", ch)
	}
	if ch.PositionStep || !ch.RotationStep {
		t.Fatalf("interpolation flags = %v %v", ch.PositionStep, ch.RotationStep)
	}

	in := model.NewInstance(a)
	in.Update(0.5)
	world := in.Draws()[0].World
	if got := world.Col(3).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, -2}, 1e-5) {
		t.Fatalf("child origin at t=0.5 = %v", got)
	}
	// step rotation still holds the identity key
	if got := world.Col(0).Vec3(); !got.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-5) {
		t.Fatalf("child x axis at t=0.5 = %v", got)
	}
}

func TestLoadTextured(t *testing.T) {
	a, err := newTestLoader().Load("testdata/textured.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(a.Meshes()) != 2 {
		t.Fatalf("got %d meshes, want one per primitive", len(a.Meshes()))
	}
	if a.Meshes()[0].Name != "mesh0.0" || a.Meshes()[1].Name != "mesh0.1" {
		t.Errorf("mesh names = %q %q", a.Meshes()[0].Name, a.Meshes()[1].Name)
	}

	checker, shared := a.Materials()[0], a.Materials()[1]
	tex := checker.BaseColorTexture
	if tex == nil || tex.Width() != 2 || tex.Height() != 2 {
		t.Fatalf("base color texture = %v", tex)
	}
	d := tex.Data()
	if !d.SRGB || d.Pixels[0] != 255 || d.Pixels[1] != 0 {
		t.Errorf("texture data srgb=%v first pixel=%v", d.SRGB, d.Pixels[:4])
	}
	if d.Sampler == nil || d.Sampler.MagFilter != wgpu.FilterModeNearest ||
		d.Sampler.AddressModeU != wgpu.AddressModeClampToEdge || d.Sampler.AddressModeV != wgpu.AddressModeMirrorRepeat {
		t.Errorf("sampler = %+v", d.Sampler)
	}
	if tex.Refs() != 2 {
		t.Errorf("texture refs = %d, want one per material", tex.Refs())
	}
	if shared.AlphaMode != model.AlphaMask || shared.AlphaCutoff != 0.25 {
		t.Errorf("mask material = %+v", shared)
	}

	if err := a.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if !tex.Disposed() || !shared.BaseColorTexture.Disposed() || tex.Data() != nil {
		t.Fatal("texture data survived asset disposal")
	}
}

func TestLoadReader(t *testing.T) {
	raw, err := os.ReadFile("testdata/triangle.gltf")
	if err != nil {
		t.Fatal(err)
	}
	l := newTestLoader()
	a, err := l.LoadReader("inline/tri.gltf", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if a.Name() != "tri" || len(a.Meshes()) != 1 {
		t.Fatalf("asset = %q with %d meshes", a.Name(), len(a.Meshes()))
	}
	if l.Get("inline/tri.gltf") != a {
		t.Fatal("reader asset not cached")
	}
	if _, err := l.LoadReader("tri.txt", bytes.NewReader(raw)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("txt: got %v", err)
	}
}
