package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// InputControllerOption is a functional option for configuring an InputController.
type InputControllerOption func(*inputControllerImpl)

// WithPolicy sets how user input combines with an externally driven pose.
//
// Parameters:
//   - policy: the control policy (default PolicyBlend)
//
// Returns:
//   - InputControllerOption: functional option to set the policy
func WithPolicy(policy ControlPolicy) InputControllerOption {
	return func(ic *inputControllerImpl) {
		ic.policy = policy
	}
}

// WithTarget sets the orbit pivot.
//
// Parameters:
//   - target: pivot in world space (default origin)
//
// Returns:
//   - InputControllerOption: functional option to set the target
func WithTarget(target mgl32.Vec3) InputControllerOption {
	return func(ic *inputControllerImpl) {
		ic.target = target
	}
}

// WithRotateAngle sets the rotation for a drag across the full viewport, in degrees.
//
// Parameters:
//   - degrees: rotation per viewport width or height (default 360)
//
// Returns:
//   - InputControllerOption: functional option to set the rotate angle
func WithRotateAngle(degrees float32) InputControllerOption {
	return func(ic *inputControllerImpl) {
		ic.rotateAngle = mgl32.DegToRad(degrees)
	}
}

// WithTranslateUnits sets the distance moved for a drag across the full viewport.
// Held W/S keys move this many units per second.
//
// Parameters:
//   - units: world units (default 10)
//
// Returns:
//   - InputControllerOption: functional option to set the translate units
func WithTranslateUnits(units float32) InputControllerOption {
	return func(ic *inputControllerImpl) {
		ic.translateUnits = units
	}
}

// WithScrollFactor sets the dolly fraction of translate units per wheel step.
//
// Parameters:
//   - factor: multiplier applied to the wheel delta (default 0.1)
//
// Returns:
//   - InputControllerOption: functional option to set the scroll factor
func WithScrollFactor(factor float32) InputControllerOption {
	return func(ic *inputControllerImpl) {
		ic.scrollFactor = factor
	}
}

// WithMinDistance sets how close dollying may bring the camera to the target.
//
// Parameters:
//   - distance: minimum distance in world units (default 0.1)
//
// Returns:
//   - InputControllerOption: functional option to set the minimum distance
func WithMinDistance(distance float32) InputControllerOption {
	return func(ic *inputControllerImpl) {
		ic.minDistance = distance
	}
}
