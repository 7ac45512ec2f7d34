package renderer

import (
	"testing"
	"unsafe"
)

func TestGPUTypeLayouts(t *testing.T) {
	cases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"GPUVertex", unsafe.Sizeof(GPUVertex{}), 48},
		{"GPUFrameUniforms", unsafe.Sizeof(GPUFrameUniforms{}), 272},
		{"GPUObjectUniforms", unsafe.Sizeof(GPUObjectUniforms{}), 176},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s size = %d, want %d", c.name, c.got, c.want)
		}
		if c.got%16 != 0 {
			t.Errorf("%s size %d is not 16-byte aligned", c.name, c.got)
		}
	}
	if objectUniformsSize > objectSlotSize {
		t.Fatalf("object uniforms (%d) exceed the dynamic slot (%d)", objectUniformsSize, objectSlotSize)
	}
}

func TestMarshalLength(t *testing.T) {
	var f GPUFrameUniforms
	if len(f.Marshal()) != int(frameUniformsSize) {
		t.Fatalf("frame marshal length = %d", len(f.Marshal()))
	}
	var o GPUObjectUniforms
	o.Params[1] = 0.5
	b := o.Marshal()
	if len(b) != int(objectUniformsSize) {
		t.Fatalf("object marshal length = %d", len(b))
	}
}

func TestPresentModeMapping(t *testing.T) {
	if PresentModeVSync.String() != "vsync" || PresentModeUncapped.String() != "uncapped" {
		t.Fatal("unexpected present mode names")
	}
}

func TestPendingClear(t *testing.T) {
	var p pendingClear
	p.add(ClearColor, [4]float32{1, 0, 0, 1})
	p.add(ClearDepth, [4]float32{0, 0, 1, 1})

	got := p.take()
	if got.flags != ClearColor|ClearDepth || got.color != [4]float32{0, 0, 1, 1} {
		t.Fatalf("take = %+v, want both flags and the last color", got)
	}

	// A frame that renders nothing, such as one skipped while minimized, still
	// consumes the request, so nothing leaks into the following frame.
	if next := p.take(); next.flags != 0 {
		t.Fatalf("flags carried into the next frame: %v", next.flags)
	}
	if p.color != [4]float32{0, 0, 1, 1} {
		t.Fatalf("clear color reset to %v", p.color)
	}
}
