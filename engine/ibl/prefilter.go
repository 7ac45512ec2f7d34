package ibl

import (
	"math"
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
)

// hammersley returns the i-th point of an n-point Hammersley set.
func hammersley(i, n int) (float32, float32) {
	radical := float32(bits.Reverse32(uint32(i))) * 2.3283064365386963e-10
	return float32(i) / float32(n), radical
}

// importanceSampleGGX returns a half vector around n distributed by the GGX lobe for alpha.
func importanceSampleGGX(u1, u2 float32, n mgl32.Vec3, alpha float32) mgl32.Vec3 {
	phi := 2 * math.Pi * u1
	a2 := alpha * alpha
	cosTheta := float32(math.Sqrt(float64((1 - u2) / (1 + (a2-1)*u2))))
	sinTheta := float32(math.Sqrt(float64(1 - cosTheta*cosTheta)))
	h := mgl32.Vec3{
		sinTheta * float32(math.Cos(float64(phi))),
		sinTheta * float32(math.Sin(float64(phi))),
		cosTheta,
	}

	up := mgl32.Vec3{0, 0, 1}
	if abs(n.Z()) > 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	tx := up.Cross(n).Normalize()
	ty := n.Cross(tx)
	return tx.Mul(h.X()).Add(ty.Mul(h.Y())).Add(n.Mul(h.Z())).Normalize()
}

// prefilterGradient integrates the gradient over the GGX lobe around n with n = v = r.
func (s *outdoorSky) prefilterGradient(n mgl32.Vec3, alpha float32, samples int) mgl32.Vec3 {
	var sum mgl32.Vec3
	var weight float32
	for i := range samples {
		u1, u2 := hammersley(i, samples)
		h := importanceSampleGGX(u1, u2, n, alpha)
		l := h.Mul(2 * n.Dot(h)).Sub(n)
		nDotL := n.Dot(l)
		if nDotL <= 0 {
			continue
		}
		sum = sum.Add(s.gradient(l).Mul(nDotL))
		weight += nDotL
	}
	if weight == 0 {
		return s.gradient(n)
	}
	return sum.Mul(1 / weight)
}

// prefilterSun convolves the sun lobe with the reflected GGX lobe. Both are
// approximated as von Mises-Fisher lobes, whose convolution is again a lobe
// with sharpness k1*k2/(k1+k2).
func (s *outdoorSky) prefilterSun(n mgl32.Vec3, alpha float32) mgl32.Vec3 {
	kSun := float64(s.sunExponent)
	kGGX := 1 / (2 * float64(alpha) * float64(alpha))
	k := kSun * kGGX / (kSun + kGGX)

	c := float64(n.Dot(s.sunDir))
	density := k / (2 * math.Pi * (1 - math.Exp(-2*k))) * math.Exp(k*(c-1))
	return s.sunPower().Mul(float32(density))
}

// prefiltered returns the radiance map value at n for the given perceptual roughness.
func (s *outdoorSky) prefiltered(n mgl32.Vec3, roughness float32, samples int) mgl32.Vec3 {
	if roughness <= 0 {
		return s.radiance(n)
	}
	alpha := roughness * roughness
	return s.prefilterGradient(n, alpha, samples).Add(s.prefilterSun(n, alpha))
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
