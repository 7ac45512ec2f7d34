package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
)

// skybox is the implementation of the Skybox interface.
type skybox struct {
	mu *sync.Mutex

	cubemap  texture.Cubemap
	disposed bool
}

// Skybox draws an environment cubemap behind all scene geometry.
type Skybox interface {
	// Cubemap returns the skybox's own handle on the environment cubemap, nil once disposed.
	Cubemap() texture.Cubemap

	// Disposed reports whether Dispose has been called.
	Disposed() bool

	// Dispose releases the skybox's cubemap handle. Calling it again is a no-op.
	//
	// Returns:
	//   - error: the cubemap dispose error, if any
	Dispose() error
}

var _ Skybox = &skybox{}

// NewSkybox creates a Skybox holding a shared handle on env.
// The caller keeps ownership of env and must dispose it separately.
//
// Parameters:
//   - env: the environment cubemap
//
// Returns:
//   - Skybox: the skybox
//   - error: an error if env is nil or already disposed
func NewSkybox(env texture.Cubemap) (Skybox, error) {
	if env == nil {
		return nil, errors.New("scene: skybox requires an environment cubemap")
	}
	shared, err := env.Share()
	if err != nil {
		return nil, fmt.Errorf("scene: failed to share skybox cubemap: %w", err)
	}
	return &skybox{mu: &sync.Mutex{}, cubemap: shared}, nil
}

func (s *skybox) Cubemap() texture.Cubemap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cubemap
}

func (s *skybox) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *skybox) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	s.disposed = true
	c := s.cubemap
	s.cubemap = nil
	return c.Dispose()
}
