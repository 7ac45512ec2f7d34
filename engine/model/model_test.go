package model

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

func triangle(name string, material int) Mesh {
	verts := []renderer.GPUVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
	bounds := common.EmptyAABB()
	for _, v := range verts {
		bounds = bounds.Extend(v.Position)
	}
	return Mesh{Name: name, Vertices: verts, Indices: []uint32{0, 1, 2}, MaterialIndex: material, Bounds: bounds}
}

// twoNodeAsset has a root translated by +X with a child translated by +Y, each drawing one mesh.
func twoNodeAsset(opts ...AssetBuilderOption) Asset {
	root := IdentityTransform()
	root.Translation = mgl32.Vec3{1, 0, 0}
	child := IdentityTransform()
	child.Translation = mgl32.Vec3{0, 1, 0}
	base := []AssetBuilderOption{
		WithName("pair"),
		WithMeshes(triangle("a", 0), triangle("b", -1)),
		WithMaterials(Material{Name: "red", BaseColor: mgl32.Vec4{1, 0, 0, 1}, Roughness: 0.5}),
		WithNodes(
			Node{Name: "root", Local: root, Children: []int{1}, Meshes: []int{0}},
			Node{Name: "child", Local: child, Meshes: []int{1}},
		),
		WithRoots(0),
	}
	return NewAsset(append(base, opts...)...)
}

func TestWithNodesDerivesParents(t *testing.T) {
	a := twoNodeAsset()
	nodes := a.Nodes()
	if nodes[0].Parent != -1 || nodes[1].Parent != 0 {
		t.Fatalf("parents = %d, %d; want -1, 0", nodes[0].Parent, nodes[1].Parent)
	}
}

func TestInstanceDrawsFollowHierarchy(t *testing.T) {
	in := NewInstance(twoNodeAsset())
	draws := in.Draws()
	if len(draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(draws))
	}
	if got := draws[0].World.Col(3).Vec3(); !got.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("root origin = %v", got)
	}
	if got := draws[1].World.Col(3).Vec3(); !got.ApproxEqual(mgl32.Vec3{1, 1, 0}) {
		t.Errorf("child origin = %v, want parent offset applied", got)
	}

	in.SetTransform(mgl32.Translate3D(0, 0, 5))
	if got := in.Draws()[1].World.Col(3).Vec3(); !got.ApproxEqual(mgl32.Vec3{1, 1, 5}) {
		t.Errorf("child origin after SetTransform = %v", got)
	}
	b := in.Bounds()
	if !b.Min.ApproxEqual(mgl32.Vec3{1, 0, 5}) || !b.Max.ApproxEqual(mgl32.Vec3{2, 2, 5}) {
		t.Errorf("bounds = %+v", b)
	}
}

func TestAssetBoundsAtRest(t *testing.T) {
	b := twoNodeAsset().Bounds()
	if !b.Min.ApproxEqual(mgl32.Vec3{1, 0, 0}) || !b.Max.ApproxEqual(mgl32.Vec3{2, 2, 0}) {
		t.Fatalf("bounds = %+v", b)
	}
	if !NewAsset().Bounds().Empty() {
		t.Fatal("empty asset should have empty bounds")
	}
}

func TestMaterialFallback(t *testing.T) {
	a := twoNodeAsset()
	if got := a.Material(0).Name; got != "red" {
		t.Errorf("mesh 0 material = %q", got)
	}
	if got := a.Material(1); got.Name != "default" || got.Metallic != 1 || got.Roughness != 1 {
		t.Errorf("mesh 1 material = %+v, want default", got)
	}
	if got := a.Material(7).Name; got != "default" {
		t.Errorf("out of range material = %q", got)
	}
}

func TestAnimationPlayback(t *testing.T) {
	clip := &AnimationClip{
		Name:     "slide",
		Duration: 2,
		Channels: []AnimationChannel{{
			NodeIndex: 1,
			PositionKeys: []VectorKeyframe{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 2, Value: mgl32.Vec3{0, 0, 4}},
			},
		}},
	}
	in := NewInstance(twoNodeAsset(WithAnimations(clip)))

	in.Update(0.5)
	if got := in.Draws()[1].World.Col(3).Vec3(); !got.ApproxEqual(mgl32.Vec3{1, 0, 1}) {
		t.Fatalf("child at t=0.5 = %v, want {1 0 1}", got)
	}

	// wraps past the clip end
	in.Update(2)
	if got := in.Time(); got < 0.49 || got > 0.51 {
		t.Fatalf("time after wrap = %v, want 0.5", got)
	}

	in.Update(-1)
	if got := in.Time(); got < 0.49 || got > 0.51 {
		t.Fatalf("negative dt moved the clock to %v", got)
	}
}

func TestSampling(t *testing.T) {
	keys := []VectorKeyframe{
		{Time: 1, Value: mgl32.Vec3{0, 0, 0}},
		{Time: 2, Value: mgl32.Vec3{10, 0, 0}},
		{Time: 4, Value: mgl32.Vec3{20, 0, 0}},
	}
	tests := []struct {
		name string
		t    float32
		step bool
		want float32
	}{
		{"before first", 0, false, 0},
		{"linear mid", 1.5, false, 5},
		{"second span", 3, false, 15},
		{"step holds", 3, true, 10},
		{"after last", 9, false, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampleVector(keys, tt.t, tt.step).X(); mgl32.Abs(got-tt.want) > 1e-4 {
				t.Errorf("sample = %v, want %v", got, tt.want)
			}
		})
	}

	rot := []QuaternionKeyframe{
		{Time: 0, Value: mgl32.QuatIdent()},
		{Time: 1, Value: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})},
	}
	half := sampleRotation(rot, 0.5, false)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	if !half.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("slerp midpoint = %v, want %v", half, want)
	}
}

func TestUploadAndDispose(t *testing.T) {
	tex, err := texture.NewTexture("albedo", &common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	a := NewAsset(
		WithName("tex"),
		WithMeshes(triangle("m", 0)),
		WithMaterials(Material{Name: "m", BaseColorTexture: tex}),
	)
	fake := renderertest.NewFake(8, 8)

	h1, err := a.UploadMesh(fake, 0)
	if err != nil {
		t.Fatalf("UploadMesh: %v", err)
	}
	h2, _ := a.UploadMesh(fake, 0)
	if h1 != h2 || fake.CallCount("CreateMesh") != 1 {
		t.Fatalf("mesh uploaded %d times", fake.CallCount("CreateMesh"))
	}
	if _, err := a.UploadMesh(fake, 3); err == nil {
		t.Fatal("expected out of range error")
	}

	if err := a.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := a.Dispose(); err != nil {
		t.Fatalf("second Dispose: %v", err)
	}
	if got := h1.(*renderertest.Handle).Releases(); got != 1 {
		t.Fatalf("mesh released %d times, want 1", got)
	}
	if !tex.Disposed() {
		t.Fatal("material texture not disposed")
	}
	if _, err := a.UploadMesh(fake, 0); !errors.Is(err, ErrDisposed) {
		t.Fatalf("UploadMesh after Dispose = %v, want ErrDisposed", err)
	}
}
