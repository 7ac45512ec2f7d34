package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-logo/engine/model"
)

// loaderBackend defines the generic interface for loading assets from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Extensions lists the lower-case file extensions the backend accepts.
	Extensions() []string

	// Load performs a full asset import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - model.Asset: the imported asset
	//   - error: error if loading fails
	Load(path string) (model.Asset, error)

	// LoadReader imports an asset from a self-contained stream.
	//
	// Parameters:
	//   - name: the asset name
	//   - r: the reader providing the encoded asset
	//
	// Returns:
	//   - model.Asset: the imported asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Asset, error)
}
