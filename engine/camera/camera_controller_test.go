package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/go-gl/mathgl/mgl32"
)

var scriptedPose = mgl32.Vec3{0, 0, 7}

// setScriptedPose mimics a frame driver that rewrites the pose every frame.
func setScriptedPose(c Camera) {
	c.SetPosition(scriptedPose)
	c.SetUp(mgl32.Vec3{0, 1, 0})
	c.LookAt(mgl32.Vec3{})
	c.Update()
}

func dragLeft(ic InputController, fromX, toX int32) {
	ic.TouchDown(fromX, 100, common.MouseButtonLeft)
	ic.MouseMoved(toX, 100)
	ic.TouchUp(toX, 100, common.MouseButtonLeft)
}

func newTestController(policy ControlPolicy) (Camera, InputController) {
	cam := NewCamera(WithViewport(400, 400))
	setScriptedPose(cam)
	return cam, NewInputController(cam, WithPolicy(policy))
}

func TestBlendPolicyPersistsOffsets(t *testing.T) {
	cam, ic := newTestController(PolicyBlend)
	dragLeft(ic, 100, 200) // quarter viewport

	ic.Update(0)
	first := cam.Position()
	if vecNear(first, scriptedPose, 1e-4) {
		t.Fatal("drag had no effect")
	}

	setScriptedPose(cam)
	ic.Update(0)
	if !vecNear(cam.Position(), first, 1e-4) {
		t.Fatalf("blend offsets not re-applied: got %v want %v", cam.Position(), first)
	}
	if got := cam.Position().Len(); got < 6.999 || got > 7.001 {
		t.Fatalf("orbit changed the radius: %v", got)
	}
}

func TestTransientPolicyDiscardsOffsets(t *testing.T) {
	cam, ic := newTestController(PolicyTransient)
	dragLeft(ic, 100, 200)

	ic.Update(0)
	if vecNear(cam.Position(), scriptedPose, 1e-4) {
		t.Fatal("drag had no effect on the first update")
	}

	setScriptedPose(cam)
	ic.Update(0)
	if !vecNear(cam.Position(), scriptedPose, 1e-4) {
		t.Fatalf("transient input leaked into the next frame: %v", cam.Position())
	}
}

func TestOverridePolicyEngages(t *testing.T) {
	cam, ic := newTestController(PolicyOverride)
	if ic.Overriding() {
		t.Fatal("controller must not override before any input")
	}
	ic.Scrolled(1)
	if !ic.Overriding() {
		t.Fatal("controller should override after input")
	}
	ic.Update(0)
	if d := cam.Position().Len(); d >= 7 {
		t.Fatalf("scroll up should dolly closer, distance %v", d)
	}

	ic.Reset()
	if ic.Overriding() || ic.Engaged() {
		t.Fatal("reset should release the camera")
	}
}

func TestDollyStopsAtMinDistance(t *testing.T) {
	cam, ic := newTestController(PolicyTransient)
	ic.Scrolled(1000)
	ic.Update(0)
	if d := cam.Position().Len(); d < 0.0999 {
		t.Fatalf("dolly passed the minimum distance: %v", d)
	}
}

func TestPanMovesAlongRightAxis(t *testing.T) {
	cam, ic := newTestController(PolicyTransient)
	ic.TouchDown(200, 200, common.MouseButtonRight)
	ic.MouseMoved(100, 200)
	ic.Update(0)
	// Dragging left moves the camera right (+X when looking down -Z).
	if p := cam.Position(); p[0] <= 0 || p[2] != 7 {
		t.Fatalf("pan result %v", p)
	}
}

func TestHeldKeysScaleWithTime(t *testing.T) {
	cam, ic := newTestController(PolicyTransient)
	if !ic.KeyDown(common.KeyW) {
		t.Fatal("W should be handled")
	}
	ic.Update(0.1)
	if d := cam.Position().Len(); d > 6.001 || d < 5.999 {
		t.Fatalf("W for 0.1s should dolly 1 unit, distance %v", d)
	}
	ic.KeyUp(common.KeyW)
	setScriptedPose(cam)
	ic.Update(0.1)
	if !vecNear(cam.Position(), scriptedPose, 1e-4) {
		t.Fatal("released key kept moving the camera")
	}
}

func TestMouseMoveWithoutButtonIsIgnored(t *testing.T) {
	_, ic := newTestController(PolicyBlend)
	if ic.MouseMoved(10, 10) {
		t.Fatal("hover must not be consumed")
	}
	if ic.Engaged() {
		t.Fatal("hover must not engage the controller")
	}
	if ic.KeyDown(common.KeySpace) {
		t.Fatal("unbound keys must not be consumed")
	}
}

func TestPolicyString(t *testing.T) {
	if PolicyBlend.String() != "blend" || PolicyOverride.String() != "override" || ControlPolicy(9).String() != "unknown" {
		t.Fatal("unexpected policy names")
	}
}
