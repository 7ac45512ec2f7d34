package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-logo/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeWindow runs a fixed number of loop iterations and can inject resize events.
type fakeWindow struct {
	width, height int
	frames        int
	resizes       map[int][2]int

	running  bool
	iter     int
	onUpdate func()
	onResize func(int, int)
}

var _ window.Window = &fakeWindow{}

func newFakeWindow(frames int) *fakeWindow {
	return &fakeWindow{width: 1280, height: 720, frames: frames, running: true, resizes: map[int][2]int{}}
}

func (w *fakeWindow) SetUpdateCallback(cb func()) { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(func(delta float32)) {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32)) {}
func (w *fakeWindow) SetMouseDownCallback(func(button common.MouseButton, x, y int32)) {}
func (w *fakeWindow) SetMouseUpCallback(func(button common.MouseButton, x, y int32)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32)) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool { return w.running }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) RequestClose() { w.running = false }
func (w *fakeWindow) Width() int { return w.width }
func (w *fakeWindow) Height() int { return w.height }

func (w *fakeWindow) ProcessMessages() {
	for w.running && w.iter < w.frames {
		w.iter++
		if size, ok := w.resizes[w.iter]; ok && w.onResize != nil {
			w.onResize(size[0], size[1])
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

// recordingApp logs its lifecycle calls.
type recordingApp struct {
	calls     []string
	createErr error
	panicAt   int
	renders   int
	sizes     [][2]int
	dts       []float32
}

func (a *recordingApp) Create(width, height int) error {
	a.calls = append(a.calls, "Create")
	a.sizes = append(a.sizes, [2]int{width, height})
	return a.createErr
}

func (a *recordingApp) Resize(width, height int) {
	a.calls = append(a.calls, "Resize")
	a.sizes = append(a.sizes, [2]int{width, height})
}

func (a *recordingApp) Render(dt float32) {
	a.renders++
	a.calls = append(a.calls, "Render")
	a.dts = append(a.dts, dt)
	if a.renders == a.panicAt {
		panic("boom")
	}
}

func (a *recordingApp) Dispose() {
	a.calls = append(a.calls, "Dispose")
}

func equalCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRunLifecycle(t *testing.T) {
	win := newFakeWindow(3)
	win.resizes[2] = [2]int{800, 600}
	win.resizes[3] = [2]int{0, 0}
	r := renderertest.NewFake(1280, 720)
	app := &recordingApp{}

	if err := NewEngine(WithWindow(win), WithRenderer(r)).Run(app); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"Create", "Render", "Resize", "Render", "Render", "Dispose"}
	if !equalCalls(app.calls, want) {
		t.Fatalf("calls = %v, want %v", app.calls, want)
	}
	if app.sizes[0] != [2]int{1280, 720} || app.sizes[1] != [2]int{800, 600} {
		t.Errorf("sizes = %v", app.sizes)
	}
	if w, h := r.Size(); w != 800 || h != 600 {
		t.Errorf("renderer size = %dx%d, want 800x600", w, h)
	}
	if r.CallCount("Resize") != 1 || r.CallCount("Release") != 1 {
		t.Errorf("renderer calls = %v", r.Calls)
	}
	for _, dt := range app.dts {
		if dt < 0 {
			t.Errorf("negative dt %v", dt)
		}
	}
}

func TestRunRecoversPanic(t *testing.T) {
	win := newFakeWindow(10)
	r := renderertest.NewFake(1, 1)
	app := &recordingApp{panicAt: 2}

	if err := NewEngine(WithWindow(win), WithRenderer(r)).Run(app); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"Create", "Render", "Render", "Dispose"}
	if !equalCalls(app.calls, want) {
		t.Fatalf("calls = %v, want %v", app.calls, want)
	}
	if win.running {
		t.Error("window still running after panic")
	}
	if r.CallCount("Release") != 1 {
		t.Errorf("renderer released %d times", r.CallCount("Release"))
	}
}

func TestRunCreateError(t *testing.T) {
	errBoot := errors.New("bootstrap failed")
	app := &recordingApp{createErr: errBoot}
	err := NewEngine(WithWindow(newFakeWindow(5))).Run(app)
	if !errors.Is(err, errBoot) {
		t.Fatalf("Run = %v, want wrapped bootstrap error", err)
	}
	want := []string{"Create", "Dispose"}
	if !equalCalls(app.calls, want) {
		t.Fatalf("calls = %v, want %v", app.calls, want)
	}
}

func TestRunWithoutWindow(t *testing.T) {
	if err := NewEngine().Run(&recordingApp{}); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("Run = %v, want ErrNoWindow", err)
	}
}

func TestFrameLimit(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{fps: 0, want: 0},
		{fps: -30, want: 0},
		{fps: 50, want: 20 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := frameDuration(tt.fps); got != tt.want {
			t.Errorf("frameDuration(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}

	win := newFakeWindow(3)
	app := &recordingApp{}
	start := time.Now()
	if err := NewEngine(WithWindow(win), WithRenderFrameLimit(100)).Run(app); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("3 capped frames took %v, want at least 30ms", elapsed)
	}
}
