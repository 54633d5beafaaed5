package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// glb assembles a GLB stream from raw header words, a JSON chunk and optional trailing chunk words/bytes.
func glb(t *testing.T, header [5]uint32, jsonText string, tail ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	buf.WriteString(jsonText)
	for _, part := range tail {
		switch v := part.(type) {
		case []byte:
			buf.Write(v)
		default:
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				t.Fatalf("write tail: %v", err)
			}
		}
	}
	return buf.Bytes()
}

func minimalHeader(jsonText string) [5]uint32 {
	return [5]uint32{GLBMagic, 2, 0, uint32(len(jsonText)), GLBChunkJSON}
}

func TestDecodeJSONText(t *testing.T) {
	c, err := DecodeBytes([]byte(`[]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(c.Document) != "[]" {
		t.Errorf("document = %q, want []", c.Document)
	}
	if c.HasBinary() {
		t.Error("JSON text must not carry a binary chunk")
	}
}

func TestDecodeJSONSyntaxError(t *testing.T) {
	for _, input := range []string{"", "{", `{"asset":}`, "not json"} {
		_, err := DecodeBytes([]byte(input))
		if !errors.Is(err, ErrJSONSyntax) {
			t.Errorf("input %q: err = %v, want ErrJSONSyntax", input, err)
		}
	}
}

func TestDecodeMinimalGLB(t *testing.T) {
	data := glb(t, minimalHeader("{}"), "{}")

	c, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(c.Document) != "{}" {
		t.Errorf("document = %q, want {}", c.Document)
	}
	if c.HasBinary() {
		t.Error("expected no binary chunk")
	}
}

func TestDecodeGLBWithBinaryChunk(t *testing.T) {
	doc := `{"asset":{"version":"2.0"},"buffers":[{"byteLength":4}]}`
	payload := []byte{1, 2, 3, 4}
	header := minimalHeader(doc)
	header[2] = uint32(20 + len(doc) + 8 + len(payload))
	data := glb(t, header, doc, [2]uint32{uint32(len(payload)), GLBChunkBIN}, payload)

	c, err := DecodeBytes(data, WithStrictLength())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(c.Binary, payload) {
		t.Errorf("binary = %v, want %v", c.Binary, payload)
	}

	var direct, embedded any
	if err := json.Unmarshal([]byte(doc), &direct); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(c.Document, &embedded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(direct, embedded) {
		t.Errorf("embedded document %v differs from direct parse %v", embedded, direct)
	}
}

func TestDecodeGLBEmptyBinaryChunkIsPresent(t *testing.T) {
	data := glb(t, minimalHeader("{}"), "{}", [2]uint32{0, GLBChunkBIN})

	c, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !c.HasBinary() || len(c.Binary) != 0 {
		t.Errorf("expected present empty binary chunk, got %v (present=%v)", c.Binary, c.HasBinary())
	}
}

func TestDecodeGLBErrors(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
		want error
	}{
		{
			name: "bad magic",
			data: func(t *testing.T) []byte {
				h := minimalHeader("{}")
				h[0] = 0x46546C66
				return glb(t, h, "{}")
			},
			want: ErrInvalidMagic,
		},
		{
			name: "bad version",
			data: func(t *testing.T) []byte {
				h := minimalHeader("{}")
				h[1] = 1
				return glb(t, h, "{}")
			},
			want: ErrInvalidVersion,
		},
		{
			name: "first chunk not JSON",
			data: func(t *testing.T) []byte {
				h := minimalHeader("{}")
				h[4] = GLBChunkBIN
				return glb(t, h, "{}")
			},
			want: ErrExpectedJSONChunk,
		},
		{
			name: "second chunk not BIN",
			data: func(t *testing.T) []byte {
				return glb(t, minimalHeader("{}"), "{}", [2]uint32{4, GLBChunkJSON}, []byte("{}  "))
			},
			want: ErrExpectedBinChunk,
		},
		{
			name: "truncated header",
			data: func(t *testing.T) []byte {
				return []byte("glTF\x02\x00")
			},
			want: ErrTruncated,
		},
		{
			name: "truncated JSON chunk",
			data: func(t *testing.T) []byte {
				h := minimalHeader("{}")
				h[3] = 64
				return glb(t, h, "{}")
			},
			want: ErrTruncated,
		},
		{
			name: "truncated BIN chunk",
			data: func(t *testing.T) []byte {
				return glb(t, minimalHeader("{}"), "{}", [2]uint32{16, GLBChunkBIN}, []byte{1, 2})
			},
			want: ErrTruncated,
		},
		{
			name: "partial BIN chunk header",
			data: func(t *testing.T) []byte {
				return glb(t, minimalHeader("{}"), "{}", []byte{1, 0, 0})
			},
			want: ErrTruncated,
		},
		{
			name: "JSON chunk not JSON",
			data: func(t *testing.T) []byte {
				return glb(t, minimalHeader("{]"), "{]")
			},
			want: ErrJSONSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes(tt.data(t))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeGLBErrorsWrapContainer(t *testing.T) {
	h := minimalHeader("{}")
	h[1] = 3
	_, err := DecodeBytes(glb(t, h, "{}"))
	if !errors.Is(err, ErrContainer) {
		t.Fatalf("err = %v, want it to wrap ErrContainer", err)
	}
}

func TestDecodeLengthNotCheckedByDefault(t *testing.T) {
	h := minimalHeader("{}")
	h[2] = 9999
	if _, err := DecodeBytes(glb(t, h, "{}")); err != nil {
		t.Fatalf("permissive decode failed: %v", err)
	}

	_, err := DecodeBytes(glb(t, h, "{}"), WithStrictLength())
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("strict decode err = %v, want ErrLengthMismatch", err)
	}
}

func TestDecodeStrictLengthAccepts(t *testing.T) {
	h := minimalHeader("{}")
	h[2] = 22
	if _, err := DecodeBytes(glb(t, h, "{}"), WithStrictLength()); err != nil {
		t.Fatalf("strict decode: %v", err)
	}
}

func TestDecodeMaxSize(t *testing.T) {
	doc := `{"asset":{"version":"2.0"}}`

	if _, err := Decode(strings.NewReader(doc), WithMaxSize(int64(len(doc)))); err != nil {
		t.Fatalf("document of exactly the limit should decode: %v", err)
	}

	_, err := Decode(strings.NewReader(doc), WithMaxSize(8))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}

	data := glb(t, minimalHeader("{}"), "{}", [2]uint32{4, GLBChunkBIN}, []byte{1, 2, 3, 4})
	_, err = DecodeBytes(data, WithMaxSize(24))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("GLB err = %v, want ErrTooLarge", err)
	}
}

func TestDecodeDeclaredChunkLengthDoesNotPreallocate(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"json chunk", glb(t, [5]uint32{GLBMagic, 2, 0, 0x7FFFFFF0, GLBChunkJSON}, "")},
		{"bin chunk", glb(t, minimalHeader("{}"), "{}", [2]uint32{0xFFFFFFFF, GLBChunkBIN}, []byte{1, 2, 3, 4})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := DecodeBytes(tt.input)
			runtime.ReadMemStats(&after)

			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("err = %v, want ErrTruncated", err)
			}
			if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 16<<20 {
				t.Errorf("allocated %d bytes for a %d byte input", allocated, len(tt.input))
			}
		})
	}
}

func TestIsGLB(t *testing.T) {
	if !IsGLB(glb(t, minimalHeader("{}"), "{}")) {
		t.Error("expected GLB stream to be detected")
	}
	if IsGLB([]byte("{}")) || IsGLB([]byte("gl")) {
		t.Error("non-GLB data detected as GLB")
	}
}
