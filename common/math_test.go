package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

// vecNear compares component-wise with an absolute tolerance, so expected
// zeros accept float32 rounding such as cos(π/2).
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if !approx(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func clipDepth(m mgl32.Mat4, viewZ float32) float32 {
	c := m.Mul4x1(mgl32.Vec4{0, 0, viewZ, 1})
	return c[2] / c[3]
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.01, 1000)
	if d := clipDepth(p, -0.01); !approx(d, 0, 1e-4) {
		t.Fatalf("near plane depth = %v, want 0", d)
	}
	if d := clipDepth(p, -1000); !approx(d, 1, 1e-4) {
		t.Fatalf("far plane depth = %v, want 1", d)
	}
	if !approx(p[5]/p[0], 16.0/9.0, 1e-5) {
		t.Fatalf("aspect not encoded: x scale %v y scale %v", p[0], p[5])
	}
}

func TestOrthoDepthRange(t *testing.T) {
	o := Ortho(-2.5, 2.5, -2.5, 2.5, 5, 40)
	if d := clipDepth(o, -5); !approx(d, 0, 1e-5) {
		t.Fatalf("near depth = %v", d)
	}
	if d := clipDepth(o, -40); !approx(d, 1, 1e-5) {
		t.Fatalf("far depth = %v", d)
	}
	c := o.Mul4x1(mgl32.Vec4{2.5, -2.5, -10, 1})
	if !approx(c[0], 1, 1e-5) || !approx(c[1], -1, 1e-5) {
		t.Fatalf("edge maps to (%v, %v), want (1, -1)", c[0], c[1])
	}
}

func TestSpherical(t *testing.T) {
	tests := []struct {
		name           string
		azimuth, polar float32
		want           mgl32.Vec3
	}{
		{"pole", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"x axis", 0, math.Pi / 2, mgl32.Vec3{1, 0, 0}},
		{"y axis", math.Pi / 2, math.Pi / 2, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spherical(tt.azimuth, tt.polar)
			if !vecNear(got, tt.want, 1e-6) {
				t.Fatalf("Spherical(%v, %v) = %v, want %v", tt.azimuth, tt.polar, got, tt.want)
			}
			if !approx(got.Len(), 1, 1e-6) {
				t.Fatalf("not unit length: %v", got.Len())
			}
		})
	}
}

func TestSafeNormalize(t *testing.T) {
	fb := mgl32.Vec3{0, 1, 0}
	if got := SafeNormalize(mgl32.Vec3{}, fb); got != fb {
		t.Fatalf("zero vector should return fallback, got %v", got)
	}
	got := SafeNormalize(mgl32.Vec3{1, -3, 1}, fb)
	if !approx(got.Len(), 1, 1e-6) || got[1] >= 0 {
		t.Fatalf("unexpected normalized vector %v", got)
	}
}

func TestFrustumCulling(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	unit := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	if !f.IntersectsAABB(unit) {
		t.Fatal("box at origin should be visible")
	}
	behind := AABB{Min: mgl32.Vec3{-1, -1, 20}, Max: mgl32.Vec3{1, 1, 22}}
	if f.IntersectsAABB(behind) {
		t.Fatal("box behind the camera should be culled")
	}
	far := AABB{Min: mgl32.Vec3{-1, -1, -200}, Max: mgl32.Vec3{1, 1, -198}}
	if f.IntersectsAABB(far) {
		t.Fatal("box beyond the far plane should be culled")
	}
	if f.IntersectsAABB(EmptyAABB()) {
		t.Fatal("empty box should never be visible")
	}
}

func TestAABBTransform(t *testing.T) {
	b := EmptyAABB().Extend(mgl32.Vec3{-1, -1, -1}).Extend(mgl32.Vec3{1, 1, 1})
	moved := b.Transform(mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2)))
	if !vecNear(moved.Min, mgl32.Vec3{3, -2, -2}, 1e-5) || !vecNear(moved.Max, mgl32.Vec3{7, 2, 2}, 1e-5) {
		t.Fatalf("transformed box = %+v", moved)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatal("Clamp returned a value outside the range")
	}
	if Coalesce("", "a", "b") != "a" {
		t.Fatal("Coalesce should return the first non-zero value")
	}
}
