// Package loader imports model files into model.Asset values and caches them by path.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-logo/engine/model"
)

// ErrUnsupportedFormat is returned for files no backend accepts.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetCache map[string]model.Asset
	backend    loaderBackend
	logLoads   bool
}

// Loader defines the public-facing interface for loading and caching 3D assets.
// It abstracts the file format behind a backend and keeps every loaded asset until
// it is unloaded. The loader never disposes assets; their owner does.
type Loader interface {
	// Load imports an asset file and caches the result under its cleaned path.
	// If the asset is already cached, the cached value is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Asset: the loaded and cached asset
	//   - error: ErrUnsupportedFormat, a missing file or a decoding error
	Load(path string) (model.Asset, error)

	// LoadReader imports a self-contained asset stream and caches it by name.
	// The backend is chosen from the name's extension.
	//
	// Parameters:
	//   - name: the cache key, e.g. "logo.glb"
	//   - r: the reader providing the encoded asset
	//
	// Returns:
	//   - model.Asset: the loaded asset
	//   - error: ErrUnsupportedFormat or a decoding error
	LoadReader(name string, r io.Reader) (model.Asset, error)

	// Get retrieves a cached asset by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Asset: the cached asset or nil
	Get(name string) model.Asset

	// Assets returns a copy of the asset cache.
	//
	// Returns:
	//   - map[string]model.Asset: all cached assets keyed by name
	Assets() map[string]model.Asset

	// Unload drops an asset from the cache without disposing it.
	//
	// Parameters:
	//   - name: the cache key
	//
	// Returns:
	//   - bool: true if the asset was cached
	Unload(name string) bool

	// Clear drops every cached asset without disposing them.
	Clear()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		assetCache: make(map[string]model.Asset),
		logLoads:   true,
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Asset, error) {
	key := filepath.Clean(path)
	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if _, err := os.Stat(key); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	start := time.Now()
	a, err := backend.Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(key, a, start), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Asset, error) {
	key := filepath.Clean(name)
	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	start := time.Now()
	a, err := backend.LoadReader(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(key, a, start), nil
}

func (l *loader) Get(name string) model.Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[filepath.Clean(name)]
}

func (l *loader) Assets() map[string]model.Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.assetCache)
}

func (l *loader) Unload(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := filepath.Clean(name)
	if _, ok := l.assetCache[key]; !ok {
		return false
	}
	delete(l.assetCache, key)
	return true
}

func (l *loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.assetCache)
}

// store caches a freshly loaded asset and returns the cached one. A concurrent load of
// the same key keeps the first result.
func (l *loader) store(key string, a model.Asset, start time.Time) model.Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.assetCache[key]; ok {
		return cached
	}
	l.assetCache[key] = a
	if l.logLoads {
		log.Printf("[Loader] loaded %s: %d meshes, %d materials, %d animations in %s",
			key, len(a.Meshes()), len(a.Materials()), len(a.Animations()), time.Since(start).Round(time.Millisecond))
	}
	return a
}

// resolveBackend selects the loader backend from the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if l.backend != nil {
		for _, e := range l.backend.Extensions() {
			if e == ext {
				return l.backend, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
