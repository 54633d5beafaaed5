package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/gltf"
)

// loaderBackend defines the interface for turning files or streams into Assets.
// Concrete implementations (e.g., gltfLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Load reads and parses the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Asset: the parsed asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadReader parses an asset from a stream.
	//
	// Parameters:
	//   - name: the display name of the asset
	//   - dir: the directory external uris are resolved against
	//   - r: the reader providing .gltf or .glb data
	//
	// Returns:
	//   - *Asset: the parsed asset
	//   - error: error if loading fails
	LoadReader(name, dir string, r io.Reader) (*Asset, error)
}

// gltfLoaderBackendImpl is the loaderBackend for glTF and GLB files.
type gltfLoaderBackendImpl struct {
	parseOptions  []gltf.ParseOption
	openerOptions []gltf.OpenerOption
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - parseOptions: options forwarded to gltf.Decode
//   - openerOptions: options for each asset's resource opener
//
// Returns:
//   - loaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(parseOptions []gltf.ParseOption, openerOptions []gltf.OpenerOption) loaderBackend {
	return &gltfLoaderBackendImpl{
		parseOptions:  parseOptions,
		openerOptions: openerOptions,
	}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	asset, err := b.LoadReader(name, filepath.Dir(path), f)
	if err != nil {
		return nil, err
	}
	asset.Path = path
	return asset, nil
}

func (b *gltfLoaderBackendImpl) LoadReader(name, dir string, r io.Reader) (*Asset, error) {
	m, c, err := gltf.Decode(r, b.parseOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return NewAsset(name, dir, c, m, b.openerOptions...), nil
}
