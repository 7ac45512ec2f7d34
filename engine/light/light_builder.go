package light

import (
	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a functional option for configuring a directional light.
type LightBuilderOption func(*directionalLight)

// WithDirection sets the direction the light travels. The vector is normalized.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that sets the direction
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.direction = common.SafeNormalize(mgl32.Vec3{x, y, z}, l.direction)
	}
}

// WithColor sets the linear RGB color of the light.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - LightBuilderOption: a function that sets the color
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity sets the intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that sets the intensity
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.intensity = intensity
	}
}

// WithCastsShadows enables or disables shadow map rendering for the light.
//
// Parameters:
//   - castsShadows: true to render a shadow map
//
// Returns:
//   - LightBuilderOption: a function that sets the flag
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *directionalLight) {
		l.castsShadows = castsShadows
	}
}

// WithShadowMapSize sets the shadow map size in texels. Non-positive values keep the default.
//
// Parameters:
//   - width, height: shadow map dimensions
//
// Returns:
//   - LightBuilderOption: a function that sets the map size
func WithShadowMapSize(width, height int) LightBuilderOption {
	return func(l *directionalLight) {
		if width > 0 && height > 0 {
			l.shadowWidth = width
			l.shadowHeight = height
		}
	}
}

// WithShadowViewport sets the orthographic shadow volume.
//
// Parameters:
//   - width, height: full extents of the volume in world units
//   - near, far: depth range along the light direction
//
// Returns:
//   - LightBuilderOption: a function that sets the volume
func WithShadowViewport(width, height, near, far float32) LightBuilderOption {
	return func(l *directionalLight) {
		l.shadowViewport = ShadowViewport{Width: width, Height: height, Near: near, Far: far}
	}
}
