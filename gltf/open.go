package gltf

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

// Origin tells where the bytes of a Resource came from.
type Origin int

const (
	OriginDataURI Origin = iota
	OriginBinaryChunk
	OriginExternalFile
)

func (o Origin) String() string {
	switch o {
	case OriginDataURI:
		return "data-uri"
	case OriginBinaryChunk:
		return "binary-chunk"
	case OriginExternalFile:
		return "external-file"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Resource holds the bytes backing a buffer or an image.
// For DataURI and BinaryChunk origins Data aliases memory owned by the
// Model or the Container and must not be modified.
type Resource struct {
	Data   []byte
	Origin Origin

	// MIME is set for data uris and for images that declare a mimeType.
	MIME *uri.MIMEType
}

// ReadRangeFunc reads length bytes at offset from the file at path.
// A negative length reads to the end of the file.
type ReadRangeFunc func(path string, offset, length int64) ([]byte, error)

// Opener resolves buffers and images to their bytes.
type Opener interface {
	// OpenURI returns a range of the data behind u.
	//
	// Parameters:
	//   - u: a data uri or an external path relative to the working directory
	//   - offset: first byte of the range
	//   - length: size of the range, negative for "to the end"
	//
	// Returns:
	//   - Resource: the requested bytes
	//   - error: ErrOutOfRange for a bad range, ErrIO for file failures
	OpenURI(u uri.URI, offset, length int64) (Resource, error)

	// OpenBuffer returns a range of a buffer. A buffer without uri is the GLB binary chunk.
	//
	// Parameters:
	//   - b: the buffer
	//   - offset: first byte of the range
	//   - length: size of the range, negative for "to the end"
	//
	// Returns:
	//   - Resource: the requested bytes
	//   - error: ErrMissingBinaryChunk, ErrOutOfRange or ErrIO
	OpenBuffer(b *Buffer, offset, length int64) (Resource, error)

	// OpenImage returns the encoded bytes of an image.
	//
	// Parameters:
	//   - m: the model owning img
	//   - img: the image
	//
	// Returns:
	//   - Resource: the encoded image, with MIME set when known
	//   - error: error if the backing data cannot be opened
	OpenImage(m *Model, img *Image) (Resource, error)

	// Dir returns the working directory external paths are resolved against.
	Dir() string
}

// OpenerOption configures an Opener.
type OpenerOption func(*openerImpl)

// WithFileReader replaces the filesystem reader used for external uris.
func WithFileReader(fn ReadRangeFunc) OpenerOption {
	return func(o *openerImpl) {
		o.readRange = fn
	}
}

type openerImpl struct {
	wd        string
	container format.Container
	readRange ReadRangeFunc
}

var _ Opener = &openerImpl{}

// NewOpener creates an Opener for resources of the asset decoded into c.
//
// Parameters:
//   - wd: directory of the asset, used to resolve external uris
//   - c: the decoded container, source of the GLB binary chunk
//   - options: opener options
//
// Returns:
//   - Opener: the opener
func NewOpener(wd string, c format.Container, options ...OpenerOption) Opener {
	o := &openerImpl{wd: wd, container: c, readRange: ReadFileRange}
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *openerImpl) Dir() string {
	return o.wd
}

func (o *openerImpl) OpenURI(u uri.URI, offset, length int64) (Resource, error) {
	switch v := u.(type) {
	case uri.Data:
		data, err := sliceRange(v.Bytes, offset, length)
		if err != nil {
			return Resource{}, err
		}
		mime := v.MIME
		return Resource{Data: data, Origin: OriginDataURI, MIME: &mime}, nil
	case uri.External:
		path := filepath.Join(o.wd, filepath.FromSlash(v.Path))
		data, err := o.readRange(path, offset, length)
		if err != nil {
			return Resource{}, &Error{Kind: ErrIO, Msg: fmt.Sprintf("read %s", path), Err: err}
		}
		return Resource{Data: data, Origin: OriginExternalFile}, nil
	default:
		return Resource{}, newError(ErrSchema, "", "unsupported uri %T", u)
	}
}

func (o *openerImpl) OpenBuffer(b *Buffer, offset, length int64) (Resource, error) {
	if b.URI != nil {
		return o.OpenURI(b.URI, offset, length)
	}
	if !o.container.HasBinary() {
		return Resource{}, newError(ErrMissingBinaryChunk, "", "buffer has no uri and the container has no binary chunk")
	}
	data, err := sliceRange(o.container.Binary, offset, length)
	if err != nil {
		return Resource{}, err
	}
	return Resource{Data: data, Origin: OriginBinaryChunk}, nil
}

func (o *openerImpl) OpenImage(m *Model, img *Image) (Resource, error) {
	var res Resource
	var err error
	switch src := img.Source.(type) {
	case ImageURI:
		res, err = o.OpenURI(src.URI, 0, -1)
	case ImageBufferView:
		view := m.BufferView(src.View)
		if view.ByteOffset > math.MaxInt64 || view.ByteLength > math.MaxInt64 {
			return Resource{}, newError(ErrOutOfRange, "", "buffer view range %d+%d", view.ByteOffset, view.ByteLength)
		}
		res, err = o.OpenBuffer(m.Buffer(view.Buffer), int64(view.ByteOffset), int64(view.ByteLength))
	default:
		return Resource{}, newError(ErrSchema, "", "unsupported image source %T", img.Source)
	}
	if err != nil {
		return Resource{}, err
	}
	if img.MIMEType != nil {
		mime := img.MIMEType.MIMEType()
		res.MIME = &mime
	}
	return res, nil
}

// sliceRange returns data[offset:offset+length] without copying, or the tail
// from offset when length is negative.
func sliceRange(data []byte, offset, length int64) ([]byte, error) {
	size := int64(len(data))
	if offset < 0 || offset > size {
		return nil, newError(ErrOutOfRange, "", "offset %d outside %d bytes", offset, size)
	}
	if length < 0 {
		return data[offset:], nil
	}
	if length > size-offset {
		return nil, newError(ErrOutOfRange, "", "range %d+%d outside %d bytes", offset, length, size)
	}
	return data[offset : offset+length], nil
}

// ReadFileRange is the default ReadRangeFunc. It fails on a missing file or a
// short read.
func ReadFileRange(path string, offset, length int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if offset != 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
	}
	if length < 0 {
		return io.ReadAll(f)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}
