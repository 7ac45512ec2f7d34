package loader

import (
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-logo/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithAsset is an option builder that pre-populates the asset cache.
//
// Parameters:
//   - key: the cache key (a path is cleaned the same way Load cleans it)
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset model.Asset) LoaderBuilderOption {
	return func(l *loader) {
		l.assetCache[filepath.Clean(key)] = asset
	}
}

// WithLogging is an option builder that toggles the per-load log line.
//
// Parameters:
//   - enabled: true to log each completed load
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logging option to a loader
func WithLogging(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.logLoads = enabled
	}
}
