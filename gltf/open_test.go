package gltf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

func TestOpenURIDataRange(t *testing.T) {
	o := NewOpener("", format.Container{})
	u := uri.MustParse("data:application/octet-stream;base64,AAECAwQF")

	tests := []struct {
		name    string
		offset  int64
		length  int64
		want    []byte
		wantErr bool
	}{
		{"whole", 0, -1, []byte{0, 1, 2, 3, 4, 5}, false},
		{"middle", 2, 3, []byte{2, 3, 4}, false},
		{"tail", 4, -1, []byte{4, 5}, false},
		{"empty at end", 6, 0, []byte{}, false},
		{"past end", 4, 3, nil, true},
		{"negative offset", -1, 1, nil, true},
		{"offset past end", 7, -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := o.OpenURI(u, tt.offset, tt.length)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("err = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenURI: %v", err)
			}
			if !bytes.Equal(res.Data, tt.want) || res.Origin != OriginDataURI || *res.MIME != uri.ApplicationOctetStream {
				t.Errorf("resource = %+v", res)
			}
		})
	}
}

func TestOpenURIExternalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bin", "data.bin"), []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := NewOpener(dir, format.Container{})
	if o.Dir() != dir {
		t.Errorf("Dir() = %q", o.Dir())
	}

	res, err := o.OpenURI(uri.External{Path: "bin/data.bin"}, 3, 4)
	if err != nil {
		t.Fatalf("OpenURI: %v", err)
	}
	if string(res.Data) != "3456" || res.Origin != OriginExternalFile || res.MIME != nil {
		t.Errorf("resource = %+v", res)
	}

	res, err = o.OpenURI(uri.External{Path: "bin/data.bin"}, 8, -1)
	if err != nil || string(res.Data) != "89" {
		t.Errorf("tail = %q, %v", res.Data, err)
	}

	if _, err := o.OpenURI(uri.External{Path: "bin/data.bin"}, 8, 5); !errors.Is(err, ErrIO) {
		t.Errorf("short read err = %v, want ErrIO", err)
	}
	_, err = o.OpenURI(uri.External{Path: "missing.bin"}, 0, -1)
	if !errors.Is(err, ErrIO) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want ErrIO wrapping os.ErrNotExist", err)
	}
}

func TestOpenURICustomReader(t *testing.T) {
	var gotPath string
	var gotOffset, gotLength int64
	o := NewOpener("assets", format.Container{}, WithFileReader(func(path string, offset, length int64) ([]byte, error) {
		gotPath, gotOffset, gotLength = path, offset, length
		return []byte("ok"), nil
	}))

	res, err := o.OpenURI(uri.External{Path: "sub/file.bin"}, 10, 2)
	if err != nil || string(res.Data) != "ok" {
		t.Fatalf("OpenURI = %+v, %v", res, err)
	}
	if gotPath != filepath.Join("assets", "sub", "file.bin") || gotOffset != 10 || gotLength != 2 {
		t.Errorf("reader called with %q %d %d", gotPath, gotOffset, gotLength)
	}
}

func TestOpenBufferBinaryChunk(t *testing.T) {
	m := mustParse(t, `{"asset":{"version":"2.0"},"buffers":[{"byteLength":4}]}`)

	_, err := NewOpener("", format.Container{}).OpenBuffer(&m.Buffers[0], 0, -1)
	if !errors.Is(err, ErrMissingBinaryChunk) {
		t.Fatalf("err = %v, want ErrMissingBinaryChunk", err)
	}

	o := NewOpener("", format.Container{Binary: []byte{9, 8, 7, 6}})
	res, err := o.OpenBuffer(&m.Buffers[0], 1, 2)
	if err != nil {
		t.Fatalf("OpenBuffer: %v", err)
	}
	if !bytes.Equal(res.Data, []byte{8, 7}) || res.Origin != OriginBinaryChunk {
		t.Errorf("resource = %+v", res)
	}

	empty := NewOpener("", format.Container{Binary: []byte{}})
	if res, err := empty.OpenBuffer(&m.Buffers[0], 0, -1); err != nil || len(res.Data) != 0 {
		t.Errorf("empty chunk = %+v, %v", res, err)
	}
}

func TestOpenImage(t *testing.T) {
	m := mustParse(t, `{"asset":{"version":"2.0"},
		"buffers":[{"byteLength":6,"uri":"data:application/octet-stream;base64,AAECAwQF"}],
		"bufferViews":[{"buffer":0,"byteOffset":1,"byteLength":3}],
		"images":[
			{"bufferView":0,"mimeType":"image/jpeg"},
			{"uri":"data:image/png;base64,iVBO"},
			{"uri":"data:application/octet-stream;base64,iVBO","mimeType":"image/png"}
		]}`)
	o := NewOpener("", format.Container{})

	tests := []struct {
		name   string
		image  int
		data   []byte
		mime   uri.MIMEType
		origin Origin
	}{
		{"buffer view", 0, []byte{1, 2, 3}, uri.ImageJPEG, OriginDataURI},
		{"data uri", 1, []byte{0x89, 0x50, 0x4e}, uri.ImagePNG, OriginDataURI},
		{"declared mime wins", 2, []byte{0x89, 0x50, 0x4e}, uri.ImagePNG, OriginDataURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := o.OpenImage(m, &m.Images[tt.image])
			if err != nil {
				t.Fatalf("OpenImage: %v", err)
			}
			if !bytes.Equal(res.Data, tt.data) || res.MIME == nil || *res.MIME != tt.mime || res.Origin != tt.origin {
				t.Errorf("resource = %+v", res)
			}
		})
	}
}
