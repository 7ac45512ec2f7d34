package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
//
// Returns:
//   - AABB: the empty box
func EmptyAABB() AABB {
	const big = 3.4e38
	return AABB{
		Min: mgl32.Vec3{big, big, big},
		Max: mgl32.Vec3{-big, -big, -big},
	}
}

// Empty reports whether the box contains no points.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to contain p.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - AABB: the grown box
func (b AABB) Extend(p mgl32.Vec3) AABB {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	if o.Empty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Transform returns the axis-aligned box enclosing b after transformation by m.
//
// Parameters:
//   - m: the affine transform to apply
//
// Returns:
//   - AABB: the enclosing box in the transformed space
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.Empty() {
		return b
	}
	out := EmptyAABB()
	for i := range 8 {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out = out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix
// whose clip-space depth range is [0, 1] (WebGPU).
// Uses the Gribb/Hartmann method; the near plane is row 2 alone for this depth range.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined Projection * View matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	var f Frustum
	r0 := viewProj.Row(0)
	r1 := viewProj.Row(1)
	r2 := viewProj.Row(2)
	r3 := viewProj.Row(3)

	set := func(i int, v mgl32.Vec4) {
		f.Planes[i] = Plane{Normal: v.Vec3(), Distance: v[3]}
	}
	set(FrustumLeft, r3.Add(r0))
	set(FrustumRight, r3.Sub(r0))
	set(FrustumBottom, r3.Add(r1))
	set(FrustumTop, r3.Sub(r1))
	set(FrustumNear, r2)
	set(FrustumFar, r3.Sub(r2))

	for i := range f.Planes {
		f.normalizePlane(i)
	}
	return f
}

// IntersectsAABB reports whether any part of the box lies inside the frustum.
// Uses the positive-vertex test, so it may report boxes near frustum corners as visible.
//
// Parameters:
//   - b: the world-space box
//
// Returns:
//   - bool: false only if the box is fully outside one plane
func (f *Frustum) IntersectsAABB(b AABB) bool {
	if b.Empty() {
		return false
	}
	for _, p := range f.Planes {
		var v mgl32.Vec3
		for i := range 3 {
			if p.Normal[i] >= 0 {
				v[i] = b.Max[i]
			} else {
				v[i] = b.Min[i]
			}
		}
		if p.Normal.Dot(v)+p.Distance < 0 {
			return false
		}
	}
	return true
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := p.Normal.Len()
	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}
