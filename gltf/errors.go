package gltf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

// Error kinds. Use errors.Is against these to classify any error returned by
// this package. The container and uri kinds are re-exported from their packages.
var (
	ErrSchema             = errors.New("gltf schema")
	ErrInvalidEnum        = errors.New("gltf invalid enum value")
	ErrOutOfRange         = errors.New("gltf out of range")
	ErrIO                 = errors.New("gltf io")
	ErrMissingBinaryChunk = errors.New("gltf missing binary chunk")
	ErrCycle              = errors.New("gltf node cycle")

	ErrContainer  = format.ErrContainer
	ErrJSONSyntax = format.ErrJSONSyntax
	ErrURI        = uri.ErrURI
)

// Error describes a failure at a specific location of a glTF document.
type Error struct {
	// Kind is one of the package error kinds.
	Kind error

	// Path is the JSON Pointer of the offending value, e.g. "/bufferViews/0/buffer".
	Path string

	// Msg is a short human readable description.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path, msg string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(msg, args...)}
}

// pointer joins JSON Pointer reference tokens, escaping '~' and '/'.
func pointer(base string, tokens ...any) string {
	var b strings.Builder
	b.WriteString(base)
	for _, tok := range tokens {
		b.WriteByte('/')
		switch v := tok.(type) {
		case int:
			b.WriteString(strconv.Itoa(v))
		case string:
			v = strings.ReplaceAll(v, "~", "~0")
			b.WriteString(strings.ReplaceAll(v, "/", "~1"))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
