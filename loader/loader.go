// Package loader caches parsed glTF assets, loads batches of them in parallel
// and reloads them when their files change.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/charmbracelet/log"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/gltf"
)

// ErrUnsupportedFormat is returned by Load for files that are neither .gltf nor .glb.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetCache map[string]*Asset

	backend loaderBackend
	pool    worker.DynamicWorkerPool
	workers int

	parseOptions  []gltf.ParseOption
	openerOptions []gltf.OpenerOption
	reloadHook    func(*Asset)
	logger        *log.Logger
}

// Loader defines the public-facing interface for loading and caching glTF assets.
// Assets are cached by file path, or by the caller's name for LoadReader.
type Loader interface {
	// Load reads and parses a .gltf or .glb file and caches the result.
	// If the asset is already cached the cached version is returned.
	//
	// Parameters:
	//   - path: the file path of the asset
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: ErrUnsupportedFormat for other extensions, or the read/parse error
	Load(path string) (*Asset, error)

	// LoadReader parses an asset from a stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key and display name
	//   - dir: the directory external uris are resolved against
	//   - r: the reader providing .gltf or .glb data
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if parsing fails
	LoadReader(name, dir string, r io.Reader) (*Asset, error)

	// LoadAll loads several files concurrently on the loader's worker pool.
	// The result slice lines up with paths; entries that failed are nil and
	// their errors are joined into the returned error.
	//
	// Parameters:
	//   - paths: the files to load
	//
	// Returns:
	//   - []*Asset: one asset per path, nil where loading failed
	//   - error: the joined errors of all failed paths
	LoadAll(paths []string) ([]*Asset, error)

	// Get retrieves a cached asset by key. Returns nil if not found.
	//
	// Parameters:
	//   - key: the cache key to look up
	//
	// Returns:
	//   - *Asset: the cached asset or nil
	Get(key string) *Asset

	// Assets returns a copy of the asset cache.
	//
	// Returns:
	//   - map[string]*Asset: all cached assets keyed by name
	Assets() map[string]*Asset

	// Evict drops an asset from the cache.
	//
	// Parameters:
	//   - key: the cache key
	//
	// Returns:
	//   - bool: whether an asset was cached under key
	Evict(key string) bool

	// Watch reloads cached assets stored in dir whenever their files change,
	// and evicts them when their files are removed. It blocks until ctx is done.
	//
	// Parameters:
	//   - ctx: stops the watcher when cancelled
	//   - dir: the directory to watch
	//
	// Returns:
	//   - error: error if the watcher cannot be started
	Watch(ctx context.Context, dir string) error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader backed by the glTF backend
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		assetCache: make(map[string]*Asset),
		workers:    max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(l)
	}

	if l.logger == nil {
		l.logger = common.Logger()
	} else {
		// Explicit parse options still win over the loader's logger.
		l.parseOptions = append([]gltf.ParseOption{gltf.WithLogger(l.logger)}, l.parseOptions...)
	}
	l.backend = newGLTFLoaderBackend(l.parseOptions, l.openerOptions)
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (*Asset, error) {
	l.mu.RLock()
	if cached, ok := l.assetCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	asset, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Debug("loaded asset", "path", path, "id", asset.ID)

	return l.store(path, asset), nil
}

func (l *loader) LoadReader(name, dir string, r io.Reader) (*Asset, error) {
	l.mu.RLock()
	if cached, ok := l.assetCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	asset, err := l.backend.LoadReader(name, dir, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	return l.store(name, asset), nil
}

func (l *loader) LoadAll(paths []string) ([]*Asset, error) {
	assets := make([]*Asset, len(paths))
	errs := make([]error, len(paths))

	// The pool only runs the tasks; results come back through the slices above
	// and the WaitGroup is the barrier.
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				assets[i], errs[i] = l.Load(path)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return assets, errors.Join(errs...)
}

func (l *loader) Get(key string) *Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[key]
}

func (l *loader) Assets() map[string]*Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.assetCache)
}

func (l *loader) Evict(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.assetCache[key]
	delete(l.assetCache, key)
	return ok
}

// store caches asset under key unless another load got there first, in which
// case the earlier asset is kept and returned.
func (l *loader) store(key string, asset *Asset) *Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.assetCache[key]; ok {
		return existing
	}
	l.assetCache[key] = asset
	return asset
}

// replace swaps in a reloaded asset unconditionally.
func (l *loader) replace(key string, asset *Asset) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assetCache[key] = asset
}

// resolveBackend selects a loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	if !isModelFile(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return l.backend, nil
}

func isModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	default:
		return false
	}
}
