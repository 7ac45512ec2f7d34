package input

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/common"
)

// Multiplexer is a Processor that forwards each event to its processors in
// insertion order and stops at the first one that consumes it.
type Multiplexer interface {
	Processor

	// AddProcessor appends a processor to the end of the chain.
	//
	// Parameters:
	//   - p: the processor to append
	AddProcessor(p Processor)

	// InsertProcessor inserts a processor at the given position, clamped to the chain bounds.
	//
	// Parameters:
	//   - index: the position to insert at (0 = first)
	//   - p: the processor to insert
	InsertProcessor(index int, p Processor)

	// RemoveProcessor removes the first occurrence of p from the chain.
	//
	// Parameters:
	//   - p: the processor to remove
	RemoveProcessor(p Processor)

	// Processors returns a copy of the chain.
	//
	// Returns:
	//   - []Processor: the processors in dispatch order
	Processors() []Processor

	// Clear removes every processor.
	Clear()

	// Bind registers the multiplexer as the receiver of every input callback of src.
	//
	// Parameters:
	//   - src: the event source, typically a window.Window
	Bind(src EventSource)
}

type multiplexer struct {
	mu         *sync.Mutex
	processors []Processor
}

var _ Multiplexer = &multiplexer{}

// NewMultiplexer creates a Multiplexer seeded with the given processors.
//
// Parameters:
//   - processors: initial processors, in dispatch order
//
// Returns:
//   - Multiplexer: the new multiplexer
func NewMultiplexer(processors ...Processor) Multiplexer {
	return &multiplexer{
		mu:         &sync.Mutex{},
		processors: slices.Clone(processors),
	}
}

func (m *multiplexer) AddProcessor(p Processor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processors = append(m.processors, p)
}

func (m *multiplexer) InsertProcessor(index int, p Processor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index = common.Clamp(index, 0, len(m.processors))
	m.processors = slices.Insert(m.processors, index, p)
}

func (m *multiplexer) RemoveProcessor(p Processor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.processors, p); i >= 0 {
		m.processors = slices.Delete(m.processors, i, i+1)
	}
}

func (m *multiplexer) Processors() []Processor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.processors)
}

func (m *multiplexer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processors = nil
}

func (m *multiplexer) Bind(src EventSource) {
	src.SetKeyDownCallback(func(keyCode uint32) { m.KeyDown(keyCode) })
	src.SetKeyUpCallback(func(keyCode uint32) { m.KeyUp(keyCode) })
	src.SetMouseDownCallback(func(button common.MouseButton, x, y int32) { m.TouchDown(x, y, button) })
	src.SetMouseUpCallback(func(button common.MouseButton, x, y int32) { m.TouchUp(x, y, button) })
	src.SetMouseMoveCallback(func(x, y int32) { m.MouseMoved(x, y) })
	src.SetScrollCallback(func(delta float32) { m.Scrolled(delta) })
}

// dispatch offers an event to each processor until one consumes it.
// The chain is copied first so processors may modify the multiplexer while handling.
func (m *multiplexer) dispatch(fn func(Processor) bool) bool {
	for _, p := range m.Processors() {
		if fn(p) {
			return true
		}
	}
	return false
}

func (m *multiplexer) KeyDown(keyCode uint32) bool {
	return m.dispatch(func(p Processor) bool { return p.KeyDown(keyCode) })
}

func (m *multiplexer) KeyUp(keyCode uint32) bool {
	return m.dispatch(func(p Processor) bool { return p.KeyUp(keyCode) })
}

func (m *multiplexer) TouchDown(x, y int32, button common.MouseButton) bool {
	return m.dispatch(func(p Processor) bool { return p.TouchDown(x, y, button) })
}

func (m *multiplexer) TouchUp(x, y int32, button common.MouseButton) bool {
	return m.dispatch(func(p Processor) bool { return p.TouchUp(x, y, button) })
}

func (m *multiplexer) MouseMoved(x, y int32) bool {
	return m.dispatch(func(p Processor) bool { return p.MouseMoved(x, y) })
}

func (m *multiplexer) Scrolled(delta float32) bool {
	return m.dispatch(func(p Processor) bool { return p.Scrolled(delta) })
}
