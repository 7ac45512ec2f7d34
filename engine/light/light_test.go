package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDirectionalShadowLightDefaults(t *testing.T) {
	l := NewDirectionalShadowLight(
		WithShadowMapSize(2048, 2048),
		WithShadowViewport(5, 5, 5, 40),
		WithDirection(1, -3, 1),
		WithColor(1, 1, 1),
		WithIntensity(10),
	)
	if !l.CastsShadows() {
		t.Fatal("shadow light must cast shadows")
	}
	if w, h := l.ShadowMapSize(); w != 2048 || h != 2048 {
		t.Fatalf("shadow map size = %dx%d", w, h)
	}
	want := mgl32.Vec3{1, -3, 1}.Normalize()
	if !l.Direction().ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("direction = %v, want %v", l.Direction(), want)
	}
	if r := l.Radiance(); r != (mgl32.Vec3{10, 10, 10}) {
		t.Fatalf("radiance = %v", r)
	}
}

func TestSetDirectionIgnoresZero(t *testing.T) {
	l := NewDirectionalLight()
	l.SetDirection(0, 0, 0)
	if l.Direction() != (mgl32.Vec3{0, -1, 0}) {
		t.Fatalf("zero direction should be ignored, got %v", l.Direction())
	}
}

func TestShadowDataCentersVolume(t *testing.T) {
	l := NewDirectionalShadowLight(WithShadowViewport(5, 5, 5, 40), WithDirection(1, -3, 1))
	s := l.ShadowData(mgl32.Vec3{}, DefaultShadowBias)
	vp := s.LightVP

	// The center lands in the middle of the map and halfway through the depth range.
	c := vp.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(c[0])) > 1e-5 || math.Abs(float64(c[1])) > 1e-5 {
		t.Fatalf("center not at map middle: %v", c)
	}
	if math.Abs(float64(c[2]-0.5)) > 1e-4 {
		t.Fatalf("center depth = %v, want 0.5", c[2])
	}

	// A point further along the light direction is deeper.
	p := vp.Mul4x1(l.Direction().Mul(5).Vec4(1))
	if p[2] <= c[2] {
		t.Fatalf("depth should grow along the light direction: %v <= %v", p[2], c[2])
	}

	if s.TexelSize[0] != 1.0/2048 || s.Bias != DefaultShadowBias || s.NormalBias <= 0 {
		t.Fatalf("unexpected shadow parameters %+v", s)
	}

	var empty GPUShadowData
	empty.ComputeNormalBias(l.ShadowViewport(), DefaultShadowNormalBiasScale, 0)
	if empty.NormalBias != 0 {
		t.Fatalf("zero resolution normal bias = %v, want 0", empty.NormalBias)
	}
}
