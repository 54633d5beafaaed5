// Package uri resolves the uri strings found on glTF buffers and images.
// A uri is either an embedded base64 data uri or a path to an external file
// relative to the asset.
package uri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix     = "data:"
	base64Encoding = "base64"
)

// Errors returned by Parse. Both wrap ErrURI.
var (
	ErrURI            = errors.New("gltf uri")
	ErrInvalidMIME    = fmt.Errorf("%w: uri mime type", ErrURI)
	ErrInvalidPayload = fmt.Errorf("%w: invalid base64 payload", ErrURI)
)

// MIMEType enumerates the media types accepted in data uris.
type MIMEType int

const (
	ApplicationOctetStream MIMEType = iota
	ImageJPEG
	ImagePNG
)

func (m MIMEType) String() string {
	switch m {
	case ApplicationOctetStream:
		return "application/octet-stream"
	case ImageJPEG:
		return "image/jpeg"
	case ImagePNG:
		return "image/png"
	default:
		return fmt.Sprintf("MIMEType(%d)", int(m))
	}
}

// ParseMIMEType maps a media type string onto the closed MIMEType set.
func ParseMIMEType(s string) (MIMEType, error) {
	switch s {
	case "application/octet-stream":
		return ApplicationOctetStream, nil
	case "image/jpeg":
		return ImageJPEG, nil
	case "image/png":
		return ImagePNG, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidMIME, s)
	}
}

// URI is either External or Data.
type URI interface {
	isURI()
}

// External names a file relative to the asset's directory.
type External struct {
	Path string
}

// Data carries the decoded payload of a base64 data uri.
type Data struct {
	Bytes []byte
	MIME  MIMEType
}

func (External) isURI() {}
func (Data) isURI()     {}

func (e External) String() string {
	return e.Path
}

// String renders d in the canonical data:<mime>;base64,<payload> form.
func (d Data) String() string {
	return dataPrefix + d.MIME.String() + ";" + base64Encoding + "," + base64.StdEncoding.EncodeToString(d.Bytes)
}

// Parse classifies raw as a data uri or an external path.
//
// A string is a data uri only when it starts with "data:", has a ';' after the
// prefix, a ',' after that ';', and exactly "base64" between the two. Anything
// else, including a malformed data uri, is returned as External{raw}. The only
// failures are an unknown media type or an undecodable payload on an otherwise
// well-formed data uri.
//
// Parameters:
//   - raw: the uri string from the glTF document
//
// Returns:
//   - URI: Data or External
//   - error: error wrapping ErrURI
func Parse(raw string) (URI, error) {
	rest, ok := strings.CutPrefix(raw, dataPrefix)
	if !ok {
		return External{Path: raw}, nil
	}

	mime, afterMIME, ok := strings.Cut(rest, ";")
	if !ok {
		return External{Path: raw}, nil
	}
	encoding, payload, ok := strings.Cut(afterMIME, ",")
	if !ok || encoding != base64Encoding {
		return External{Path: raw}, nil
	}

	mimeType, err := ParseMIMEType(mime)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Data{Bytes: data, MIME: mimeType}, nil
}

// MustParse is Parse that panics on error. Intended for literals in tests and tools.
func MustParse(raw string) URI {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
