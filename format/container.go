// Package format decodes the outer glTF container: either a bare JSON document
// or the GLB binary envelope carrying a JSON chunk and an optional BIN chunk.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
package format

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// GLB magic number and chunk type constants.
const (
	GLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	GLBVersion   = 2
	GLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	GLBChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII

	// glbHeaderSize covers the 12-byte file header plus the first chunk header.
	glbHeaderSize = 20
	// chunkHeaderSize is the size of a chunk length/type pair.
	chunkHeaderSize = 8
	// chunkPrealloc caps the buffer reserved before a chunk's bytes arrive.
	chunkPrealloc = 1 << 16
)

// Errors returned by Decode. Every container error wraps ErrContainer.
var (
	ErrContainer         = errors.New("gltf container")
	ErrInvalidMagic      = fmt.Errorf("%w: invalid GLB magic number", ErrContainer)
	ErrInvalidVersion    = fmt.Errorf("%w: invalid GLB version: must be 2", ErrContainer)
	ErrExpectedJSONChunk = fmt.Errorf("%w: expected JSON chunk", ErrContainer)
	ErrExpectedBinChunk  = fmt.Errorf("%w: expected BIN chunk", ErrContainer)
	ErrTruncated         = fmt.Errorf("%w: truncated GLB stream", ErrContainer)
	ErrLengthMismatch    = fmt.Errorf("%w: GLB header length does not match stream", ErrContainer)
	ErrTooLarge          = fmt.Errorf("%w: stream exceeds size limit", ErrContainer)

	ErrJSONSyntax = errors.New("gltf json syntax")
)

// glbHeader is the GLB file header followed by the JSON chunk header, read in one go.
type glbHeader struct {
	Magic         uint32
	Version       uint32
	Length        uint32
	JSONChunkLen  uint32
	JSONChunkType uint32
}

// glbChunkHeader is the header of a GLB chunk (8 bytes).
type glbChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// Container is the decoded outer layer of a glTF asset.
type Container struct {
	// Document is the verbatim, syntax-checked JSON document.
	Document json.RawMessage

	// Binary is the payload of the GLB BIN chunk, nil when there is none.
	// A present but empty chunk is a non-nil empty slice.
	Binary []byte
}

// HasBinary reports whether the container carried a BIN chunk.
func (c Container) HasBinary() bool {
	return c.Binary != nil
}

// IsGLB reports whether data starts with the GLB magic number.
func IsGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == GLBMagic
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte, options ...Option) (Container, error) {
	return Decode(bytes.NewReader(data), options...)
}

// Decode reads a glTF container from r.
// The first byte selects the encoding: 'g' starts a GLB envelope, anything else is JSON text.
//
// Parameters:
//   - r: the stream holding a .gltf or .glb asset
//   - options: decoder options
//
// Returns:
//   - Container: the JSON document and the optional binary chunk
//   - error: error if the container is malformed
func Decode(r io.Reader, options ...Option) (Container, error) {
	cfg := newConfig(options...)

	src := r
	if cfg.maxSize > 0 {
		src = &limitReader{r: r, remaining: cfg.maxSize}
	}
	br := bufio.NewReader(src)

	first, err := br.Peek(1)
	if err != nil && !errors.Is(err, io.EOF) {
		if errors.Is(err, ErrTooLarge) {
			return Container{}, err
		}
		return Container{}, fmt.Errorf("failed to read container: %w", err)
	}

	if len(first) == 1 && first[0] == 'g' {
		return decodeGLB(br, cfg)
	}
	return decodeJSON(br)
}

// decodeJSON treats the whole stream as the JSON document.
func decodeJSON(r io.Reader) (Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return Container{}, err
		}
		return Container{}, fmt.Errorf("failed to read JSON document: %w", err)
	}
	doc, err := checkJSON(data)
	if err != nil {
		return Container{}, err
	}
	return Container{Document: doc}, nil
}

// decodeGLB parses a GLB binary envelope.
func decodeGLB(r *bufio.Reader, cfg *config) (Container, error) {
	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Container{}, readErr("GLB header", err)
	}

	if header.Magic != GLBMagic {
		return Container{}, ErrInvalidMagic
	}
	if header.Version != GLBVersion {
		return Container{}, ErrInvalidVersion
	}
	if header.JSONChunkType != GLBChunkJSON {
		return Container{}, ErrExpectedJSONChunk
	}

	jsonData, err := readChunk(r, header.JSONChunkLen)
	if err != nil {
		return Container{}, readErr("JSON chunk", err)
	}
	doc, err := checkJSON(jsonData)
	if err != nil {
		return Container{}, err
	}

	consumed := uint64(glbHeaderSize) + uint64(header.JSONChunkLen)

	var binData []byte
	var chunkHeader glbChunkHeader
	err = binary.Read(r, binary.LittleEndian, &chunkHeader)
	switch {
	case errors.Is(err, io.EOF):
		// no BIN chunk
	case err != nil:
		return Container{}, readErr("BIN chunk header", err)
	default:
		if chunkHeader.ChunkType != GLBChunkBIN {
			return Container{}, ErrExpectedBinChunk
		}
		if binData, err = readChunk(r, chunkHeader.ChunkLength); err != nil {
			return Container{}, readErr("BIN chunk", err)
		}
		consumed += chunkHeaderSize + uint64(chunkHeader.ChunkLength)
	}

	if cfg.strictLength {
		// Anything still buffered or unread past the chunks also counts against the header length.
		rest, err := io.Copy(io.Discard, r)
		if err != nil {
			return Container{}, readErr("GLB trailer", err)
		}
		if uint64(header.Length) != consumed || rest != 0 {
			return Container{}, fmt.Errorf("%w: header says %d bytes, read %d", ErrLengthMismatch, header.Length, consumed+uint64(rest))
		}
	}

	return Container{Document: doc, Binary: binData}, nil
}

// checkJSON verifies data is a single well-formed JSON value.
func checkJSON(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrJSONSyntax, err)
		}
		return nil, ErrJSONSyntax
	}
	return json.RawMessage(data), nil
}

// readErr maps short reads onto ErrTruncated and keeps other failures wrapped.
// readChunk reads exactly n bytes. The buffer grows with the data actually
// read, so a lying chunk length cannot force a large allocation up front.
func readChunk(r io.Reader, n uint32) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	buf.Grow(int(min(n, chunkPrealloc)))
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readErr(what string, err error) error {
	switch {
	case errors.Is(err, ErrTooLarge):
		return err
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %s", ErrTruncated, what)
	default:
		return fmt.Errorf("failed to read %s: %w", what, err)
	}
}

// limitReader fails with ErrTooLarge once more than remaining bytes are requested.
// Unlike io.LimitReader it distinguishes "limit hit" from a clean end of stream.
type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Probe for one more byte: a clean EOF here means the stream fit exactly.
		var one [1]byte
		n, err := l.r.Read(one[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
