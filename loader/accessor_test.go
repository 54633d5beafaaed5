package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gltf/gltf"
)

const accessorDocument = `{
	"asset": {"version": "2.0"},
	"buffers": [{"byteLength": 120}],
	"bufferViews": [
		{"buffer": 0, "byteOffset": 0, "byteLength": 32, "byteStride": 16},
		{"buffer": 0, "byteOffset": 32, "byteLength": 6},
		{"buffer": 0, "byteOffset": 40, "byteLength": 8},
		{"buffer": 0, "byteOffset": 48, "byteLength": 64},
		{"buffer": 0, "byteOffset": 112, "byteLength": 8},
		{"buffer": 0, "byteOffset": 100, "byteLength": 40}
	],
	"accessors": [
		{"bufferView": 0, "componentType": 5126, "count": 2, "type": "VEC3"},
		{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		{"bufferView": 2, "componentType": 5121, "count": 2, "type": "VEC4"},
		{"bufferView": 3, "componentType": 5126, "count": 1, "type": "MAT4"},
		{"bufferView": 4, "componentType": 5126, "count": 2, "type": "SCALAR"},
		{"componentType": 5126, "count": 3, "type": "VEC2"},
		{"componentType": 5126, "count": 1, "type": "SCALAR",
			"sparse": {"count": 1, "indices": {"bufferView": 1, "componentType": 5123}, "values": {"bufferView": 4}}},
		{"bufferView": 1, "componentType": 5126, "count": 1, "type": "VEC3"},
		{"bufferView": 2, "componentType": 5121, "count": 8, "type": "SCALAR"},
		{"bufferView": 4, "componentType": 5125, "count": 2, "type": "SCALAR"},
		{"bufferView": 5, "componentType": 5126, "count": 1, "type": "SCALAR"},
		{"bufferView": 0, "byteOffset": 4, "componentType": 5126, "count": 2, "type": "VEC2"}
	]
}`

func accessorPayload() []byte {
	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }

	// view 0: two VEC3 positions, each padded to a 16 byte stride
	w([4]float32{1, 2, 3, 0})
	w([4]float32{4, 5, 6, 0})
	// view 1: three u16 indices plus padding
	w([4]uint16{0, 1, 2, 0})
	// view 2: two u8 joint quadruples
	w([8]uint8{0, 1, 2, 3, 4, 5, 6, 7})
	// view 3: one column-major MAT4
	w(mgl32.Translate3D(1, 2, 3))
	// view 4: two scalars
	w([2]float32{0.5, 1.5})
	return buf.Bytes()
}

func loadAccessorAsset(t *testing.T) *Asset {
	t.Helper()
	a, err := newTestLoader().LoadReader("accessors", "", bytes.NewReader(buildGLB(accessorDocument, accessorPayload())))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	return a
}

func TestReadFloatAccessors(t *testing.T) {
	a := loadAccessorAsset(t)

	positions, err := a.ReadVec3(0)
	if err != nil || !reflect.DeepEqual(positions, []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}) {
		t.Errorf("ReadVec3 = %v, %v", positions, err)
	}
	raw, err := a.ReadAccessor(0)
	if err != nil || len(raw) != 24 {
		t.Errorf("ReadAccessor strips the stride: len %d, %v", len(raw), err)
	}
	offset, err := a.ReadVec2(11)
	if err != nil || !reflect.DeepEqual(offset, []mgl32.Vec2{{2, 3}, {5, 6}}) {
		t.Errorf("ReadVec2 with byteOffset = %v, %v", offset, err)
	}

	mats, err := a.ReadMat4(3)
	if err != nil || len(mats) != 1 || mats[0] != mgl32.Translate3D(1, 2, 3) {
		t.Errorf("ReadMat4 = %v, %v", mats, err)
	}
	scalars, err := a.ReadScalars(4)
	if err != nil || !reflect.DeepEqual(scalars, []float32{0.5, 1.5}) {
		t.Errorf("ReadScalars = %v, %v", scalars, err)
	}
	zeros, err := a.ReadVec2(5)
	if err != nil || !reflect.DeepEqual(zeros, make([]mgl32.Vec2, 3)) {
		t.Errorf("ReadVec2 without buffer view = %v, %v", zeros, err)
	}
}

func TestReadIntegerAccessors(t *testing.T) {
	a := loadAccessorAsset(t)

	tests := []struct {
		name string
		ref  gltf.Ref[gltf.Accessor]
		want []uint32
	}{
		{"u16", 1, []uint32{0, 1, 2}},
		{"u8", 8, []uint32{0, 1, 2, 3, 4, 5, 6, 7}},
		{"u32", 9, []uint32{math.Float32bits(0.5), math.Float32bits(1.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.ReadIndices(tt.ref)
			if err != nil || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadIndices = %v, %v; want %v", got, err, tt.want)
			}
		})
	}

	joints, err := a.ReadJoints(2)
	if err != nil || !reflect.DeepEqual(joints, [][4]uint32{{0, 1, 2, 3}, {4, 5, 6, 7}}) {
		t.Errorf("ReadJoints = %v, %v", joints, err)
	}
}

func TestReadAccessorErrors(t *testing.T) {
	a := loadAccessorAsset(t)

	tests := []struct {
		name string
		read func() error
		want error
	}{
		{"sparse", func() error { _, err := a.ReadAccessor(6); return err }, ErrSparseUnsupported},
		{"elements past view", func() error { _, err := a.ReadVec3(7); return err }, gltf.ErrOutOfRange},
		{"view past buffer", func() error { _, err := a.ReadScalars(10); return err }, gltf.ErrOutOfRange},
		{"no such accessor", func() error { _, err := a.ReadAccessor(99); return err }, gltf.ErrOutOfRange},
		{"scalar as vec3", func() error { _, err := a.ReadVec3(4); return err }, ErrAccessorType},
		{"vec3 as indices", func() error { _, err := a.ReadIndices(0); return err }, ErrAccessorType},
		{"float indices", func() error { _, err := a.ReadIndices(4); return err }, ErrAccessorType},
		{"vec3 as joints", func() error { _, err := a.ReadJoints(0); return err }, ErrAccessorType},
		{"u16 as float", func() error { _, err := a.ReadScalars(1); return err }, ErrAccessorType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.read(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpenBufferIsCached(t *testing.T) {
	a := loadAccessorAsset(t)

	first, err := a.OpenBuffer(0)
	if err != nil {
		t.Fatalf("OpenBuffer: %v", err)
	}
	second, _ := a.OpenBuffer(0)
	if &first[0] != &second[0] {
		t.Error("buffer bytes should be shared between calls")
	}
	if _, err := a.OpenBuffer(1); !errors.Is(err, gltf.ErrOutOfRange) {
		t.Errorf("OpenBuffer(1) err = %v", err)
	}
	if _, err := a.OpenImage(0); !errors.Is(err, gltf.ErrOutOfRange) {
		t.Errorf("OpenImage(0) err = %v", err)
	}
}

func TestHandBuiltAssetOpensResources(t *testing.T) {
	doc := `{"asset":{"version":"2.0"},
		"buffers":[{"byteLength":4,"uri":"data:application/octet-stream;base64,AACAPw=="}],
		"bufferViews":[{"buffer":0,"byteLength":4}],
		"accessors":[{"bufferView":0,"componentType":5126,"count":1,"type":"SCALAR"}],
		"images":[{"uri":"data:image/png;base64,iVBO"}]}`
	m, c, err := gltf.Decode(bytes.NewReader([]byte(doc)))
	if err != nil {
		t.Fatal(err)
	}
	a := &Asset{Name: "manual", Container: c, Model: m}

	got, err := a.ReadScalars(0)
	if err != nil || !reflect.DeepEqual(got, []float32{1}) {
		t.Errorf("ReadScalars = %v, %v", got, err)
	}
	img, err := a.OpenImage(0)
	if err != nil || img.Origin != gltf.OriginDataURI || len(img.Data) != 3 {
		t.Errorf("OpenImage = %+v, %v", img, err)
	}
}

func TestReadAccessorHugeStride(t *testing.T) {
	doc := `{"asset":{"version":"2.0"},
		"buffers":[{"byteLength":16,"uri":"data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAAAAAA=="}],
		"bufferViews":[{"buffer":0,"byteLength":16,"byteStride":4}],
		"accessors":[{"bufferView":0,"componentType":5126,"count":3,"type":"SCALAR"}]}`
	m, c, err := gltf.Decode(bytes.NewReader([]byte(doc)))
	if err != nil {
		t.Fatal(err)
	}
	a := &Asset{Name: "stride", Container: c, Model: m}
	if got, err := a.ReadScalars(0); err != nil || len(got) != 3 {
		t.Fatalf("ReadScalars = %v, %v", got, err)
	}

	// Strides whose products wrap around uint64 must not pass the bounds check.
	for _, stride := range []uint64{1 << 63, math.MaxUint64, math.MaxUint64/2 + 2} {
		m.BufferViews[0].ByteStride = &stride
		if _, err := a.ReadAccessor(0); !errors.Is(err, gltf.ErrOutOfRange) {
			t.Errorf("stride %d: err = %v, want ErrOutOfRange", stride, err)
		}
	}
}
