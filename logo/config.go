package logo

import (
	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// Config holds every fixed parameter of the logo viewer.
type Config struct {
	// ModelPath is the glTF asset to display.
	ModelPath string

	Title         string
	Width, Height int

	FovDegrees float32
	Near, Far  float32

	// OrbitRadius is the camera distance from the origin.
	OrbitRadius float32
	// OrbitPolar is the fixed polar offset of the orbit in radians.
	OrbitPolar float32

	LightDirection mgl32.Vec3
	LightColor     mgl32.Vec3
	LightIntensity float32

	ShadowBias    float32
	ShadowMapSize int
	// ShadowWidth and ShadowHeight are the extents of the orthographic shadow volume.
	ShadowWidth, ShadowHeight float32
	ShadowNear, ShadowFar     float32

	EnvMapSize        int
	IrradianceMapSize int
	RadianceLevels    int
	// IBLWorkers bounds the cubemap worker pool; 0 uses the builder default.
	IBLWorkers int

	AmbientLight float32
	ClearColor   [4]float32

	ControlPolicy camera.ControlPolicy

	// FrameCap limits the render rate in frames per second; 0 is uncapped.
	FrameCap float64
	// Profile enables the once-per-second statistics log.
	Profile bool
}

// DefaultConfig returns the viewer configuration.
//
// Returns:
//   - Config: the defaults
func DefaultConfig() Config {
	return Config{
		ModelPath: "models/libGDX-logo.gltf",
		Title:     "oxy logo",
		Width:     1280,
		Height:    720,

		FovDegrees: 60,
		Near:       0.01,
		Far:        1000,

		OrbitRadius: 7,
		OrbitPolar:  0.3,

		LightDirection: mgl32.Vec3{1, -3, 1},
		LightColor:     mgl32.Vec3{1, 1, 1},
		LightIntensity: 10,

		ShadowBias:    0.001,
		ShadowMapSize: 2048,
		ShadowWidth:   5,
		ShadowHeight:  5,
		ShadowNear:    5,
		ShadowFar:     40,

		EnvMapSize:        1024,
		IrradianceMapSize: 256,
		RadianceLevels:    10,

		AmbientLight: 0.2,
		ClearColor:   [4]float32{0, 0, 0, 1},

		ControlPolicy: camera.PolicyBlend,
	}
}
