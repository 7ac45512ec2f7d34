// Package renderertest provides an in-memory renderer.Renderer for tests that run without a GPU.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
)

// Handle is a fake GPU resource that counts its releases.
type Handle struct {
	mu       sync.Mutex
	Kind     string
	Label    string
	releases int
}

// Release records a release.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releases++
}

// Releases returns how many times Release was called.
func (h *Handle) Releases() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.releases
}

// Fake records every call made through the renderer.Renderer interface.
type Fake struct {
	mu sync.Mutex

	// Calls lists method names in call order.
	Calls []string
	// Handles lists every handle created, in creation order.
	Handles []*Handle
	// Frames holds a copy of every submitted frame.
	Frames []renderer.Frame
	// LastClear is the most recent Clear request.
	LastClear renderer.ClearFlags

	// FailCreate, when set, is returned by every Create call.
	FailCreate error
	// FailRender, when set, is returned by Render.
	FailRender error

	width, height int
	released      bool
}

var _ renderer.Renderer = &Fake{}

// NewFake creates a Fake with the given surface size.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - *Fake: the fake renderer
func NewFake(width, height int) *Fake {
	return &Fake{width: width, height: height}
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *Fake) create(kind, label string) (renderer.Handle, error) {
	f.record("Create" + kind)
	if f.FailCreate != nil {
		return nil, f.FailCreate
	}
	if f.released {
		return nil, renderer.ErrReleased
	}
	h := &Handle{Kind: kind, Label: label}
	f.Handles = append(f.Handles, h)
	return h, nil
}

func (f *Fake) Resize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Resize")
	if width > 0 && height > 0 {
		f.width, f.height = width, height
	}
}

func (f *Fake) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *Fake) SetPresentMode(mode renderer.PresentMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetPresentMode")
}

func (f *Fake) Clear(flags renderer.ClearFlags, color [4]float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Clear")
	f.LastClear = flags
}

func (f *Fake) CreateMesh(label string, vertices []renderer.GPUVertex, indices []uint32) (renderer.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(vertices) == 0 || len(indices) == 0 {
		f.record("CreateMesh")
		return nil, fmt.Errorf("mesh %s: empty vertex or index data", label)
	}
	return f.create("Mesh", label)
}

func (f *Fake) CreateTexture(label string, data *common.TextureStagingData) (renderer.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.create("Texture", label)
}

func (f *Fake) CreateCubemap(label string, data *common.CubemapStagingData) (renderer.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.create("Cubemap", label)
}

func (f *Fake) Render(frame *renderer.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Render")
	if f.released {
		return renderer.ErrReleased
	}
	if f.FailRender != nil {
		return f.FailRender
	}
	cp := *frame
	cp.Draws = append([]renderer.Draw(nil), frame.Draws...)
	f.Frames = append(f.Frames, cp)
	return nil
}

func (f *Fake) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Release")
	f.released = true
}

// CallCount returns how many times the named method was called.
//
// Parameters:
//   - name: the method name, e.g. "Render"
//
// Returns:
//   - int: the number of calls
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Live returns the handles of the given kind that have not been released.
//
// Parameters:
//   - kind: "Mesh", "Texture" or "Cubemap"
//
// Returns:
//   - []*Handle: the unreleased handles
func (f *Fake) Live(kind string) []*Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Handle
	for _, h := range f.Handles {
		if h.Kind == kind && h.Releases() == 0 {
			out = append(out, h)
		}
	}
	return out
}

// LastFrame returns the most recent submitted frame, or nil.
//
// Returns:
//   - *renderer.Frame: the frame
func (f *Fake) LastFrame() *renderer.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Frames) == 0 {
		return nil
	}
	return &f.Frames[len(f.Frames)-1]
}
