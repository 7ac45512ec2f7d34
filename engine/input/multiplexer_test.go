package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-logo/common"
)

type recorder struct {
	Adapter
	name    string
	consume bool
	log     *[]string
}

func (r *recorder) KeyDown(keyCode uint32) bool {
	*r.log = append(*r.log, r.name)
	return r.consume
}

func (r *recorder) Scrolled(delta float32) bool {
	*r.log = append(*r.log, r.name)
	return r.consume
}

func TestMultiplexerStopsAtFirstConsumer(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", consume: true, log: &log}
	c := &recorder{name: "c", log: &log}
	m := NewMultiplexer(a, b)
	m.AddProcessor(c)

	if !m.KeyDown(common.KeyW) {
		t.Fatal("event should be reported as handled")
	}
	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Fatalf("dispatch order = %v, want [a b]", log)
	}
}

func TestMultiplexerUnhandled(t *testing.T) {
	var log []string
	m := NewMultiplexer(&recorder{name: "a", log: &log})
	if m.Scrolled(1) {
		t.Fatal("no processor consumed the event")
	}
	if m.TouchDown(0, 0, common.MouseButtonLeft) {
		t.Fatal("adapter methods must not consume events")
	}
}

func TestMultiplexerInsertRemove(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	m := NewMultiplexer(a)
	m.InsertProcessor(-5, b)
	if got := m.Processors(); len(got) != 2 || got[0] != b {
		t.Fatalf("insert at clamped index 0 failed: %v", got)
	}
	m.RemoveProcessor(b)
	if got := m.Processors(); len(got) != 1 || got[0] != a {
		t.Fatalf("remove failed: %v", got)
	}
	m.Clear()
	if len(m.Processors()) != 0 {
		t.Fatal("clear left processors behind")
	}
}

type fakeSource struct {
	scroll  func(float32)
	keyDown func(uint32)
	keyUp   func(uint32)
	down    func(common.MouseButton, int32, int32)
	up      func(common.MouseButton, int32, int32)
	move    func(int32, int32)
}

func (f *fakeSource) SetScrollCallback(cb func(float32)) { f.scroll = cb }
func (f *fakeSource) SetKeyDownCallback(cb func(uint32)) { f.keyDown = cb }
func (f *fakeSource) SetKeyUpCallback(cb func(uint32)) { f.keyUp = cb }
func (f *fakeSource) SetMouseDownCallback(cb func(common.MouseButton, int32, int32)) {
	f.down = cb
}
func (f *fakeSource) SetMouseUpCallback(cb func(common.MouseButton, int32, int32)) {
	f.up = cb
}
func (f *fakeSource) SetMouseMoveCallback(cb func(int32, int32)) { f.move = cb }

func TestMultiplexerBind(t *testing.T) {
	var log []string
	src := &fakeSource{}
	m := NewMultiplexer(&recorder{name: "a", consume: true, log: &log})
	m.Bind(src)

	if src.scroll == nil || src.keyDown == nil || src.keyUp == nil || src.down == nil || src.up == nil || src.move == nil {
		t.Fatal("Bind must register every callback")
	}
	src.keyDown(common.KeyA)
	src.scroll(-1)
	if len(log) != 2 {
		t.Fatalf("bound callbacks did not reach the processor: %v", log)
	}
}
