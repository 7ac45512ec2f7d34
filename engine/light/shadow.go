package light

// DefaultShadowMapSize is the default width and height in texels of the shadow
// depth texture.
const DefaultShadowMapSize = 2048

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias.
const DefaultShadowNormalBiasScale float32 = 2.0

// ShadowViewport describes the orthographic volume a directional light renders
// its shadow map from. Width and Height are the full extents of the volume in
// world units; Near and Far are distances along the light direction measured
// from the light's virtual eye.
type ShadowViewport struct {
	Width  float32
	Height float32
	Near   float32
	Far    float32
}

// DefaultShadowViewport is a 10x10 unit volume, 0.1 to 100 deep.
var DefaultShadowViewport = ShadowViewport{Width: 10, Height: 10, Near: 0.1, Far: 100}

// HalfDepth returns the distance from the eye to the middle of the depth range.
// The eye is placed this far behind the shadow center so the center sits midway
// between the near and far planes.
func (v ShadowViewport) HalfDepth() float32 {
	return v.Near + 0.5*(v.Far-v.Near)
}
