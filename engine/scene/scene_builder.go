package scene

import (
	"github.com/Carmen-Shannon/oxy-logo/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// ManagerBuilderOption is a functional option for configuring a Manager.
// Use the With* functions to create options.
type ManagerBuilderOption func(m *manager)

// WithCamera sets the initial camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithCamera(cam camera.Camera) ManagerBuilderOption {
	return func(m *manager) {
		m.camera = cam
	}
}

// WithCullingDisabled disables frustum culling. By default draws whose world
// bounds fall outside the camera frustum are skipped.
//
// Parameters:
//   - disabled: true to submit every draw
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) ManagerBuilderOption {
	return func(m *manager) {
		m.cullingDisabled = disabled
	}
}

// WithShadowCenter pins the center of the shadow volume. By default the
// volume follows the center of the scene bounds.
//
// Parameters:
//   - center: the world-space center
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithShadowCenter(center mgl32.Vec3) ManagerBuilderOption {
	return func(m *manager) {
		m.shadowCenter = &center
	}
}
