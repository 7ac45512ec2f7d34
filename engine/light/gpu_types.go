package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUShadowData is what the shadow and PBR passes need from a shadow casting
// light. The scene manager copies it into the frame uniforms.
type GPUShadowData struct {
	LightVP    mgl32.Mat4 // light space orthographic view-projection
	TexelSize  [2]float32 // 1/width, 1/height of the shadow map, for PCF offsets
	Bias       float32    // depth comparison bias
	NormalBias float32    // world space offset along the surface normal
}

// ComputeDirectionalLightVP sets LightVP. The eye sits HalfDepth behind center
// and looks along lightDir.
//
// Parameters:
//   - lightDir: normalized direction the light travels
//   - center: world space center of the shadow volume
//   - vp: the shadow volume extents and depth range
func (s *GPUShadowData) ComputeDirectionalLightVP(lightDir, center mgl32.Vec3, vp ShadowViewport) {
	eye := center.Sub(lightDir.Mul(vp.HalfDepth()))

	up := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(lightDir.Y())) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}
	view := mgl32.LookAtV(eye, center, up)

	hw, hh := vp.Width/2, vp.Height/2
	s.LightVP = common.Ortho(-hw, hw, -hh, hh, vp.Near, vp.Far).Mul4(view)
}

// ComputeNormalBias sets NormalBias to scale times the world size of one shadow map texel.
func (s *GPUShadowData) ComputeNormalBias(vp ShadowViewport, scale float32, resolution int) {
	if resolution <= 0 {
		s.NormalBias = 0
		return
	}
	s.NormalBias = max(vp.Width, vp.Height) / float32(resolution) * scale
}
