package loader

import (
	"github.com/charmbracelet/log"

	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/gltf"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers is an option builder that sets how many documents LoadAll parses at once.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithAsset is an option builder that pre-populates the asset cache.
//
// Parameters:
//   - key: the cache key for the asset
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset *Asset) LoaderBuilderOption {
	return func(l *loader) {
		l.assetCache[key] = asset
	}
}

// WithParseOptions is an option builder that forwards options to every gltf parse.
func WithParseOptions(options ...gltf.ParseOption) LoaderBuilderOption {
	return func(l *loader) {
		l.parseOptions = append(l.parseOptions, options...)
	}
}

// WithContainerOptions is an option builder that forwards options to the container decoder.
func WithContainerOptions(options ...format.Option) LoaderBuilderOption {
	return func(l *loader) {
		l.parseOptions = append(l.parseOptions, gltf.WithContainerOptions(options...))
	}
}

// WithOpenerOptions is an option builder that configures the resource opener of every loaded asset.
func WithOpenerOptions(options ...gltf.OpenerOption) LoaderBuilderOption {
	return func(l *loader) {
		l.openerOptions = append(l.openerOptions, options...)
	}
}

// WithReloadHook is an option builder that registers a callback for assets reloaded by Watch.
//
// Parameters:
//   - fn: called with the fresh asset after each successful reload
//
// Returns:
//   - LoaderBuilderOption: a function that applies the hook option to a loader
func WithReloadHook(fn func(*Asset)) LoaderBuilderOption {
	return func(l *loader) {
		l.reloadHook = fn
	}
}

// WithLogger is an option builder that replaces the shared logger.
func WithLogger(logger *log.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}
