package loader

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/gltf"
)

// Asset is a parsed glTF document together with everything needed to read
// its binary data.
type Asset struct {
	// ID is unique per load; a hot reload produces a new ID.
	ID       uuid.UUID
	Name     string
	Dir      string
	LoadedAt time.Time

	// Path is the file the asset was read from, empty for readers.
	Path string

	Container format.Container
	Model     *gltf.Model

	mu      sync.Mutex
	opener  gltf.Opener
	buffers map[gltf.Ref[gltf.Buffer]][]byte
}

// NewAsset wraps an already parsed model.
//
// Parameters:
//   - name: display name of the asset
//   - dir: directory external uris are resolved against
//   - c: the container the model was parsed from
//   - m: the parsed model
//   - options: options for the resource opener
//
// Returns:
//   - *Asset: the asset
func NewAsset(name, dir string, c format.Container, m *gltf.Model, options ...gltf.OpenerOption) *Asset {
	return &Asset{
		ID:        uuid.New(),
		Name:      name,
		Dir:       dir,
		LoadedAt:  time.Now(),
		Container: c,
		Model:     m,
		opener:    gltf.NewOpener(dir, c, options...),
	}
}

// resources returns the opener, creating a default one for assets built by hand.
func (a *Asset) resources() gltf.Opener {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.opener == nil {
		a.opener = gltf.NewOpener(a.Dir, a.Container)
	}
	return a.opener
}

// OpenBuffer returns the full contents of a buffer. The bytes are read once
// and shared by every later call; callers must not modify them.
//
// Parameters:
//   - ref: the buffer
//
// Returns:
//   - []byte: the buffer contents
//   - error: error if the buffer is out of range or cannot be opened
func (a *Asset) OpenBuffer(ref gltf.Ref[gltf.Buffer]) ([]byte, error) {
	if ref.Index() < 0 || ref.Index() >= len(a.Model.Buffers) {
		return nil, &gltf.Error{Kind: gltf.ErrOutOfRange, Path: fmt.Sprintf("/buffers/%d", ref.Index()), Msg: "no such buffer"}
	}
	opener := a.resources()

	a.mu.Lock()
	data, ok := a.buffers[ref]
	a.mu.Unlock()
	if ok {
		return data, nil
	}

	res, err := opener.OpenBuffer(a.Model.Buffer(ref), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to open buffer %d of %s: %w", ref.Index(), a.Name, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.buffers == nil {
		a.buffers = make(map[gltf.Ref[gltf.Buffer]][]byte)
	}
	if cached, ok := a.buffers[ref]; ok {
		return cached, nil
	}
	a.buffers[ref] = res.Data
	return res.Data, nil
}

// OpenImage returns the encoded bytes of an image.
//
// Parameters:
//   - ref: the image
//
// Returns:
//   - gltf.Resource: the encoded image and its MIME type when known
//   - error: error if the image is out of range or cannot be opened
func (a *Asset) OpenImage(ref gltf.Ref[gltf.Image]) (gltf.Resource, error) {
	if ref.Index() < 0 || ref.Index() >= len(a.Model.Images) {
		return gltf.Resource{}, &gltf.Error{Kind: gltf.ErrOutOfRange, Path: fmt.Sprintf("/images/%d", ref.Index()), Msg: "no such image"}
	}
	res, err := a.resources().OpenImage(a.Model, a.Model.Image(ref))
	if err != nil {
		return gltf.Resource{}, fmt.Errorf("failed to open image %d of %s: %w", ref.Index(), a.Name, err)
	}
	return res, nil
}
