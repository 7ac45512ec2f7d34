package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

// maxPitch keeps accumulated pitch short of the poles, where the orbit flips.
const maxPitch = math.Pi/2 - 0.05

var worldUp = mgl32.Vec3{0, 1, 0}

// inputControllerImpl is the implementation of InputController.
type inputControllerImpl struct {
	mu *sync.Mutex

	camera Camera
	policy ControlPolicy
	target mgl32.Vec3

	// Tuning
	rotateAngle    float32 // radians per full-viewport drag
	translateUnits float32 // world units per full-viewport drag
	scrollFactor   float32
	minDistance    float32

	// Pointer state
	buttons      [3]bool
	lastX, lastY int32

	// Held keys, applied each Update
	held map[uint32]bool

	pending     Offsets
	accumulated Offsets
	engaged     bool
}

// Compile-time interface compliance check
var _ InputController = &inputControllerImpl{}

// NewInputController creates a controller bound to the given camera.
// Defaults: PolicyBlend, target at the origin, 360 degrees and 10 units per
// full-viewport drag, wheel factor 0.1.
//
// Parameters:
//   - cam: the camera to control
//   - options: functional options to configure the controller
//
// Returns:
//   - InputController: the newly created controller
func NewInputController(cam Camera, options ...InputControllerOption) InputController {
	ic := &inputControllerImpl{
		mu:             &sync.Mutex{},
		camera:         cam,
		policy:         PolicyBlend,
		rotateAngle:    2 * math.Pi,
		translateUnits: 10,
		scrollFactor:   0.1,
		minDistance:    0.1,
		held:           make(map[uint32]bool),
	}
	for _, option := range options {
		option(ic)
	}
	return ic
}

// --- input.Processor ---

func (ic *inputControllerImpl) KeyDown(keyCode uint32) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	switch keyCode {
	case common.KeyW, common.KeyS, common.KeyA, common.KeyD:
		ic.held[keyCode] = true
		ic.engaged = true
		return true
	case common.KeyR:
		ic.reset()
		return true
	}
	return false
}

func (ic *inputControllerImpl) KeyUp(keyCode uint32) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.held[keyCode] {
		return false
	}
	delete(ic.held, keyCode)
	return true
}

func (ic *inputControllerImpl) TouchDown(x, y int32, button common.MouseButton) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if button < 0 || int(button) >= len(ic.buttons) {
		return false
	}
	ic.buttons[button] = true
	ic.lastX, ic.lastY = x, y
	return true
}

func (ic *inputControllerImpl) TouchUp(x, y int32, button common.MouseButton) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if button < 0 || int(button) >= len(ic.buttons) || !ic.buttons[button] {
		return false
	}
	ic.buttons[button] = false
	return true
}

func (ic *inputControllerImpl) MouseMoved(x, y int32) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.buttons[common.MouseButtonLeft] && !ic.buttons[common.MouseButtonRight] && !ic.buttons[common.MouseButtonMiddle] {
		return false
	}

	w, h := ic.camera.Viewport()
	dx := float32(x-ic.lastX) / float32(max(w, 1))
	dy := float32(ic.lastY-y) / float32(max(h, 1))
	ic.lastX, ic.lastY = x, y

	switch {
	case ic.buttons[common.MouseButtonLeft]:
		ic.pending.Yaw -= dx * ic.rotateAngle
		ic.pending.Pitch += dy * ic.rotateAngle
	case ic.buttons[common.MouseButtonRight]:
		ic.pending.Pan[0] -= dx * ic.translateUnits
		ic.pending.Pan[1] -= dy * ic.translateUnits
	case ic.buttons[common.MouseButtonMiddle]:
		ic.pending.Dolly += dy * ic.translateUnits
	}
	ic.engaged = true
	return true
}

func (ic *inputControllerImpl) Scrolled(delta float32) bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.pending.Dolly += delta * ic.scrollFactor * ic.translateUnits
	ic.engaged = true
	return true
}

// --- InputController ---

func (ic *inputControllerImpl) Update(deltaTime float32) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	if ic.held[common.KeyA] {
		ic.pending.Yaw += deltaTime * ic.rotateAngle / 4
	}
	if ic.held[common.KeyD] {
		ic.pending.Yaw -= deltaTime * ic.rotateAngle / 4
	}
	if ic.held[common.KeyW] {
		ic.pending.Dolly += deltaTime * ic.translateUnits
	}
	if ic.held[common.KeyS] {
		ic.pending.Dolly -= deltaTime * ic.translateUnits
	}

	var apply Offsets
	switch ic.policy {
	case PolicyBlend:
		ic.accumulated = ic.effective()
		apply = ic.accumulated
	case PolicyTransient:
		apply = ic.pending
	case PolicyOverride:
		if ic.engaged {
			apply = ic.pending
		}
	}
	ic.pending = Offsets{}

	ic.apply(apply)
	ic.camera.Update()
}

func (ic *inputControllerImpl) Camera() Camera {
	return ic.camera
}

func (ic *inputControllerImpl) Policy() ControlPolicy {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.policy
}

func (ic *inputControllerImpl) SetPolicy(policy ControlPolicy) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.policy = policy
	ic.reset()
}

func (ic *inputControllerImpl) Target() mgl32.Vec3 {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.target
}

func (ic *inputControllerImpl) SetTarget(target mgl32.Vec3) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.target = target
}

func (ic *inputControllerImpl) Engaged() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.engaged
}

func (ic *inputControllerImpl) Overriding() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return ic.policy == PolicyOverride && ic.engaged
}

func (ic *inputControllerImpl) Offsets() Offsets {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if ic.policy == PolicyBlend {
		return ic.effective()
	}
	return ic.pending
}

func (ic *inputControllerImpl) Reset() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.reset()
}

// --- internal helpers ---

// reset clears all input state. Caller must hold the mutex.
func (ic *inputControllerImpl) reset() {
	ic.pending = Offsets{}
	ic.accumulated = Offsets{}
	ic.engaged = false
	ic.buttons = [3]bool{}
	clear(ic.held)
}

// effective returns accumulated plus pending offsets with pitch clamped.
// Caller must hold the mutex.
func (ic *inputControllerImpl) effective() Offsets {
	o := Offsets{
		Yaw:   ic.accumulated.Yaw + ic.pending.Yaw,
		Pitch: common.Clamp(ic.accumulated.Pitch+ic.pending.Pitch, -maxPitch, maxPitch),
		Dolly: ic.accumulated.Dolly + ic.pending.Dolly,
		Pan:   ic.accumulated.Pan.Add(ic.pending.Pan),
	}
	return o
}

// apply moves the camera by o: orbit yaw, orbit pitch, dolly, then pan.
// Caller must hold the mutex.
func (ic *inputControllerImpl) apply(o Offsets) {
	if o.IsZero() {
		return
	}
	cam := ic.camera

	if o.Yaw != 0 {
		cam.RotateAround(ic.target, worldUp, o.Yaw)
	}
	if o.Pitch != 0 {
		right := cam.Direction().Cross(cam.Up())
		right[1] = 0
		if right.Len() > 1e-6 {
			cam.RotateAround(ic.target, right.Normalize(), o.Pitch)
		}
	}
	if o.Dolly != 0 {
		dist := cam.Position().Sub(ic.target).Len()
		step := o.Dolly
		if limit := dist - ic.minDistance; step > limit {
			step = max(limit, 0)
		}
		cam.Translate(cam.Direction().Mul(step))
	}
	if o.Pan != (mgl32.Vec2{}) {
		right := common.SafeNormalize(cam.Direction().Cross(cam.Up()), mgl32.Vec3{1, 0, 0})
		v := right.Mul(o.Pan[0]).Add(cam.Up().Mul(o.Pan[1]))
		cam.Translate(v)
		if ic.policy == PolicyOverride {
			ic.target = ic.target.Add(v)
		}
	}
}
