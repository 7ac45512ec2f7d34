// Package light provides the directional light used for key lighting and shadows.
package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

// directionalLight is the implementation of the DirectionalLight interface.
type directionalLight struct {
	mu *sync.Mutex

	direction mgl32.Vec3
	color     mgl32.Vec3
	intensity float32

	castsShadows   bool
	shadowWidth    int
	shadowHeight   int
	shadowViewport ShadowViewport
}

// DirectionalLight is an infinitely distant light with a direction and no
// position, optionally casting shadows through an orthographic shadow map.
type DirectionalLight interface {
	// Direction returns the normalized direction the light travels.
	//
	// Returns:
	//   - mgl32.Vec3: direction (from light toward scene)
	Direction() mgl32.Vec3

	// SetDirection sets the light direction. The vector is normalized; a zero
	// vector leaves the direction unchanged.
	//
	// Parameters:
	//   - x, y, z: direction components
	SetDirection(x, y, z float32)

	// Color returns the linear RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// SetColor sets the linear RGB color.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// Radiance returns color multiplied by intensity, the value the shader consumes.
	//
	// Returns:
	//   - mgl32.Vec3: the scaled color
	Radiance() mgl32.Vec3

	// CastsShadows reports whether the light renders a shadow map.
	//
	// Returns:
	//   - bool: true if shadows are enabled
	CastsShadows() bool

	// ShadowMapSize returns the shadow map size in texels.
	//
	// Returns:
	//   - width, height: shadow map dimensions
	ShadowMapSize() (width, height int)

	// ShadowViewport returns the orthographic shadow volume.
	//
	// Returns:
	//   - ShadowViewport: the shadow volume
	ShadowViewport() ShadowViewport

	// SetShadowViewport changes the orthographic shadow volume.
	//
	// Parameters:
	//   - vp: the new shadow volume
	SetShadowViewport(vp ShadowViewport)

	// ShadowData computes the GPU shadow parameters for a shadow volume centered on center.
	//
	// Parameters:
	//   - center: world-space center of the shadow volume
	//   - bias: depth comparison bias
	//
	// Returns:
	//   - GPUShadowData: light view-projection, texel size and biases
	ShadowData(center mgl32.Vec3, bias float32) GPUShadowData
}

var _ DirectionalLight = &directionalLight{}

// NewDirectionalLight creates a white directional light pointing straight down
// with intensity 1 and no shadows, then applies the options.
//
// Parameters:
//   - opts: functional options to configure the light
//
// Returns:
//   - DirectionalLight: the new light
func NewDirectionalLight(opts ...LightBuilderOption) DirectionalLight {
	l := &directionalLight{
		mu:             &sync.Mutex{},
		direction:      mgl32.Vec3{0, -1, 0},
		color:          mgl32.Vec3{1, 1, 1},
		intensity:      1,
		shadowWidth:    DefaultShadowMapSize,
		shadowHeight:   DefaultShadowMapSize,
		shadowViewport: DefaultShadowViewport,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDirectionalShadowLight creates a directional light with shadows enabled.
// It is NewDirectionalLight with WithCastsShadows(true) applied first.
//
// Parameters:
//   - opts: functional options to configure the light
//
// Returns:
//   - DirectionalLight: the new shadow-casting light
func NewDirectionalShadowLight(opts ...LightBuilderOption) DirectionalLight {
	return NewDirectionalLight(append([]LightBuilderOption{WithCastsShadows(true)}, opts...)...)
}

func (l *directionalLight) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *directionalLight) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = common.SafeNormalize(mgl32.Vec3{x, y, z}, l.direction)
}

func (l *directionalLight) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *directionalLight) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = mgl32.Vec3{r, g, b}
}

func (l *directionalLight) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *directionalLight) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *directionalLight) Radiance() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color.Mul(l.intensity)
}

func (l *directionalLight) CastsShadows() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.castsShadows
}

func (l *directionalLight) ShadowMapSize() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shadowWidth, l.shadowHeight
}

func (l *directionalLight) ShadowViewport() ShadowViewport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shadowViewport
}

func (l *directionalLight) SetShadowViewport(vp ShadowViewport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shadowViewport = vp
}

func (l *directionalLight) ShadowData(center mgl32.Vec3, bias float32) GPUShadowData {
	l.mu.Lock()
	defer l.mu.Unlock()
	var s GPUShadowData
	s.ComputeDirectionalLightVP(l.direction, center, l.shadowViewport)
	s.ComputeNormalBias(l.shadowViewport, DefaultShadowNormalBiasScale, max(l.shadowWidth, l.shadowHeight))
	s.TexelSize = [2]float32{1 / float32(l.shadowWidth), 1 / float32(l.shadowHeight)}
	s.Bias = bias
	return s
}
