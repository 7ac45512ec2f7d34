package texture

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-logo/engine/renderer"
)

// ErrDisposed is returned when a disposed handle is used.
var ErrDisposed = errors.New("texture: handle is disposed")

// resource is the reference-counted pixel data behind one or more handles.
// The pixel data and the GPU texture are freed when the last handle is disposed.
type resource[D any] struct {
	mu     *sync.Mutex
	label  string
	data   *D
	refs   int
	gpu    renderer.Handle
	upload func(r renderer.Renderer, label string, data *D) (renderer.Handle, error)
}

func newResource[D any](label string, data *D, upload func(renderer.Renderer, string, *D) (renderer.Handle, error)) *resource[D] {
	return &resource[D]{
		mu:     &sync.Mutex{},
		label:  label,
		data:   data,
		refs:   1,
		upload: upload,
	}
}

// retain adds a holder. Fails once the last holder has released.
func (r *resource[D]) retain() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == 0 {
		return ErrDisposed
	}
	r.refs++
	return nil
}

// release drops a holder and frees everything when it was the last.
func (r *resource[D]) release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == 0 {
		return
	}
	r.refs--
	if r.refs > 0 {
		return
	}
	if r.gpu != nil {
		r.gpu.Release()
		r.gpu = nil
	}
	r.data = nil
}

func (r *resource[D]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs
}

func (r *resource[D]) pixels() *D {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

func (r *resource[D]) gpuHandle() renderer.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gpu
}

// ensureUploaded creates the GPU texture on first use and returns it.
func (r *resource[D]) ensureUploaded(rd renderer.Renderer) (renderer.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == 0 {
		return nil, ErrDisposed
	}
	if r.gpu != nil {
		return r.gpu, nil
	}
	h, err := r.upload(rd, r.label, r.data)
	if err != nil {
		return nil, err
	}
	r.gpu = h
	return h, nil
}

// handle is one holder's reference to a resource. Dispose releases the
// reference at most once no matter how often it is called.
type handle[D any] struct {
	res      *resource[D]
	disposed atomic.Bool
}

func (h *handle[D]) Disposed() bool {
	return h.disposed.Load()
}

func (h *handle[D]) Dispose() error {
	if h.disposed.Swap(true) {
		return nil
	}
	h.res.release()
	return nil
}

func (h *handle[D]) Refs() int {
	return h.res.count()
}

func (h *handle[D]) Label() string {
	return h.res.label
}

func (h *handle[D]) GPU() renderer.Handle {
	if h.disposed.Load() {
		return nil
	}
	return h.res.gpuHandle()
}

func (h *handle[D]) Upload(r renderer.Renderer) (renderer.Handle, error) {
	if h.disposed.Load() {
		return nil, ErrDisposed
	}
	return h.res.ensureUploaded(r)
}

func (h *handle[D]) data() *D {
	if h.disposed.Load() {
		return nil
	}
	return h.res.pixels()
}

// share adds a holder to the resource and returns it for a new handle.
func (h *handle[D]) share() (*resource[D], error) {
	if h.disposed.Load() {
		return nil, ErrDisposed
	}
	if err := h.res.retain(); err != nil {
		return nil, err
	}
	return h.res, nil
}
