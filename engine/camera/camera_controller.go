package camera

import (
	"github.com/Carmen-Shannon/oxy-logo/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// ControlPolicy decides how user input combines with a camera pose that is
// also set by code every frame (for example a scripted orbit).
type ControlPolicy int

const (
	// PolicyBlend accumulates user offsets and re-applies them on top of the
	// externally set pose on every Update.
	PolicyBlend ControlPolicy = iota

	// PolicyTransient applies input gathered since the previous Update once
	// and then forgets it. An external pose set each frame wins on the next frame.
	PolicyTransient

	// PolicyOverride hands the camera to the user on the first interaction.
	// Callers check Overriding and stop setting the pose themselves.
	PolicyOverride
)

// String returns the policy name.
func (p ControlPolicy) String() string {
	switch p {
	case PolicyBlend:
		return "blend"
	case PolicyTransient:
		return "transient"
	case PolicyOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Offsets is the user-controlled displacement applied to the camera.
type Offsets struct {
	// Yaw is the rotation around the world up axis through the target, in radians.
	Yaw float32
	// Pitch is the rotation around the camera right axis through the target, in radians.
	Pitch float32
	// Dolly moves the camera along its view direction; positive moves closer.
	Dolly float32
	// Pan moves the camera along its right (x) and up (y) axes.
	Pan mgl32.Vec2
}

// IsZero reports whether the offsets leave the camera unchanged.
func (o Offsets) IsZero() bool {
	return o == Offsets{}
}

// InputController turns mouse and keyboard input into orbit, pan and dolly
// motion of a Camera around a target point.
//
// Mouse: left drag orbits, right drag pans, middle drag and the wheel dolly.
// Keys: W/S dolly and A/D orbit while held, R resets the accumulated offsets.
// Input events only record deltas; Update applies them to the camera.
type InputController interface {
	input.Processor

	// Update applies pending input to the camera according to the policy
	// and recomputes the camera matrices. Call once per frame.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame, scales held-key motion
	Update(deltaTime float32)

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera
	Camera() Camera

	// Policy returns the active control policy.
	//
	// Returns:
	//   - ControlPolicy: the policy
	Policy() ControlPolicy

	// SetPolicy changes the control policy and clears accumulated state.
	//
	// Parameters:
	//   - policy: the new policy
	SetPolicy(policy ControlPolicy)

	// Target returns the orbit pivot.
	//
	// Returns:
	//   - mgl32.Vec3: the pivot in world space
	Target() mgl32.Vec3

	// SetTarget sets the orbit pivot.
	//
	// Parameters:
	//   - target: the pivot in world space
	SetTarget(target mgl32.Vec3)

	// Engaged reports whether the user has interacted since creation or the last Reset.
	//
	// Returns:
	//   - bool: true after the first handled input
	Engaged() bool

	// Overriding reports whether the controller owns the camera pose
	// (PolicyOverride and Engaged).
	//
	// Returns:
	//   - bool: true if callers should not set the pose
	Overriding() bool

	// Offsets returns the offsets that will be applied by the next Update.
	// Under PolicyBlend this includes everything accumulated so far.
	//
	// Returns:
	//   - Offsets: the effective offsets
	Offsets() Offsets

	// Reset discards pending and accumulated input and clears Engaged.
	Reset()
}
