package ibl

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// outdoorSky is a procedural sky: a vertical gradient over ground and sky plus a sun lobe.
type outdoorSky struct {
	nearGround mgl32.Vec3
	farGround  mgl32.Vec3
	nearSky    mgl32.Vec3
	farSky     mgl32.Vec3

	// sunDir points from the scene toward the sun.
	sunDir      mgl32.Vec3
	sunColor    mgl32.Vec3
	sunExponent float32
}

// gradient returns the sky color without the sun.
func (s *outdoorSky) gradient(v mgl32.Vec3) mgl32.Vec3 {
	y := mgl32.Clamp(v.Y(), -1, 1)
	if y >= 0 {
		return lerp(s.nearSky, s.farSky, y)
	}
	return lerp(s.nearGround, s.farGround, -y)
}

// sun returns the sun lobe radiance toward v.
func (s *outdoorSky) sun(v mgl32.Vec3) mgl32.Vec3 {
	c := v.Dot(s.sunDir)
	if c <= 0 {
		return mgl32.Vec3{}
	}
	return s.sunColor.Mul(float32(math.Pow(float64(c), float64(s.sunExponent))))
}

// radiance returns the full sky radiance toward the unit direction v.
func (s *outdoorSky) radiance(v mgl32.Vec3) mgl32.Vec3 {
	return s.gradient(v).Add(s.sun(v))
}

// sunPower is the integral of the sun lobe over the sphere per color channel.
func (s *outdoorSky) sunPower() mgl32.Vec3 {
	return s.sunColor.Mul(2 * math.Pi / (s.sunExponent + 1))
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// faceDirection returns the unit direction through texel (x, y) of a cube face of the given size.
// Faces follow the +X, -X, +Y, -Y, +Z, -Z order with v pointing down each face.
func faceDirection(face, x, y, size int) mgl32.Vec3 {
	u := 2*(float32(x)+0.5)/float32(size) - 1
	v := 2*(float32(y)+0.5)/float32(size) - 1
	var d mgl32.Vec3
	switch face {
	case 0:
		d = mgl32.Vec3{1, -v, -u}
	case 1:
		d = mgl32.Vec3{-1, -v, u}
	case 2:
		d = mgl32.Vec3{u, 1, v}
	case 3:
		d = mgl32.Vec3{u, -1, -v}
	case 4:
		d = mgl32.Vec3{u, -v, 1}
	default:
		d = mgl32.Vec3{-u, -v, -1}
	}
	return d.Normalize()
}

// texelSolidAngle returns the solid angle subtended by texel (x, y) of a cube face.
func texelSolidAngle(x, y, size int) float32 {
	inv := 1 / float64(size)
	x0 := 2*float64(x)*inv - 1
	y0 := 2*float64(y)*inv - 1
	x1 := x0 + 2*inv
	y1 := y0 + 2*inv
	area := func(a, b float64) float64 {
		return math.Atan2(a*b, math.Sqrt(a*a+b*b+1))
	}
	return float32(area(x0, y0) - area(x0, y1) - area(x1, y0) + area(x1, y1))
}

// shBasis evaluates the first nine real spherical harmonics at the unit direction d.
func shBasis(d mgl32.Vec3) [9]float32 {
	x, y, z := d.X(), d.Y(), d.Z()
	return [9]float32{
		0.282095,
		0.488603 * y,
		0.488603 * z,
		0.488603 * x,
		1.092548 * x * y,
		1.092548 * y * z,
		0.315392 * (3*z*z - 1),
		1.092548 * x * z,
		0.546274 * (x*x - y*y),
	}
}

// shBandScale holds the cosine lobe convolution per band divided by pi, so the
// reconstructed value is irradiance over pi.
var shBandScale = [9]float32{1, 2.0 / 3, 2.0 / 3, 2.0 / 3, 0.25, 0.25, 0.25, 0.25, 0.25}

// sh9 is a set of RGB spherical harmonic coefficients.
type sh9 [9]mgl32.Vec3

// projectSky projects the sky gradient numerically and the sun analytically.
func projectSky(s *outdoorSky, sampleSize int) sh9 {
	var out sh9
	for face := range 6 {
		for y := range sampleSize {
			for x := range sampleSize {
				d := faceDirection(face, x, y, sampleSize)
				w := texelSolidAngle(x, y, sampleSize)
				c := s.gradient(d).Mul(w)
				basis := shBasis(d)
				for i := range out {
					out[i] = out[i].Add(c.Mul(basis[i]))
				}
			}
		}
	}
	power := s.sunPower()
	basis := shBasis(s.sunDir)
	for i := range out {
		out[i] = out[i].Add(power.Mul(basis[i]))
	}
	return out
}

// irradiance reconstructs cosine-convolved radiance over pi at the unit normal n.
func (c *sh9) irradiance(n mgl32.Vec3) mgl32.Vec3 {
	basis := shBasis(n)
	var e mgl32.Vec3
	for i := range c {
		e = e.Add(c[i].Mul(basis[i] * shBandScale[i]))
	}
	return mgl32.Vec3{max(e.X(), 0), max(e.Y(), 0), max(e.Z(), 0)}
}
