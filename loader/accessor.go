package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gltf/gltf"
)

var (
	ErrSparseUnsupported = errors.New("sparse accessors are not supported")
	ErrAccessorType      = errors.New("accessor has the wrong type")
)

// --- Accessor Data Reading ---

// ReadAccessor returns the elements of an accessor packed tightly, with the
// buffer view's stride removed. An accessor without a buffer view reads as zeros.
//
// Parameters:
//   - ref: the accessor
//
// Returns:
//   - []byte: Count * ElementSize bytes
//   - error: ErrSparseUnsupported, or gltf.ErrOutOfRange when the data does not fit its buffer
func (a *Asset) ReadAccessor(ref gltf.Ref[gltf.Accessor]) ([]byte, error) {
	acc, err := a.accessor(ref)
	if err != nil {
		return nil, err
	}
	if len(acc.Sparse) > 0 && string(acc.Sparse) != "null" {
		return nil, fmt.Errorf("accessor %d: %w", ref.Index(), ErrSparseUnsupported)
	}

	elementSize := uint64(acc.ElementSize())
	if acc.Count > math.MaxInt32 || elementSize == 0 {
		return nil, outOfRange(ref, "count %d of %d-byte elements", acc.Count, elementSize)
	}
	size := acc.Count * elementSize
	if acc.BufferView == nil {
		return make([]byte, size), nil
	}

	bv := a.Model.BufferView(*acc.BufferView)
	data, err := a.OpenBuffer(bv.Buffer)
	if err != nil {
		return nil, err
	}
	if bv.ByteOffset > uint64(len(data)) || bv.ByteLength > uint64(len(data))-bv.ByteOffset {
		return nil, outOfRange(ref, "buffer view %d spans %d+%d of %d bytes", acc.BufferView.Index(), bv.ByteOffset, bv.ByteLength, len(data))
	}
	view := data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	if acc.Count > 0 {
		viewLen := uint64(len(view))
		if acc.ByteOffset > viewLen || elementSize > viewLen-acc.ByteOffset ||
			(viewLen-acc.ByteOffset-elementSize)/stride < acc.Count-1 {
			return nil, outOfRange(ref, "%d elements of %d bytes at offset %d with stride %d do not fit %d bytes",
				acc.Count, elementSize, acc.ByteOffset, stride, viewLen)
		}
	}

	result := make([]byte, size)
	for i := uint64(0); i < acc.Count; i++ {
		src := acc.ByteOffset + i*stride
		dst := i * elementSize
		copy(result[dst:dst+elementSize], view[src:src+elementSize])
	}
	return result, nil
}

// ReadScalars reads a SCALAR FLOAT accessor.
func (a *Asset) ReadScalars(ref gltf.Ref[gltf.Accessor]) ([]float32, error) {
	return readFloats[float32](a, ref, gltf.AccessorScalar)
}

// ReadVec2 reads a VEC2 FLOAT accessor.
func (a *Asset) ReadVec2(ref gltf.Ref[gltf.Accessor]) ([]mgl32.Vec2, error) {
	return readFloats[mgl32.Vec2](a, ref, gltf.AccessorVec2)
}

// ReadVec3 reads a VEC3 FLOAT accessor.
func (a *Asset) ReadVec3(ref gltf.Ref[gltf.Accessor]) ([]mgl32.Vec3, error) {
	return readFloats[mgl32.Vec3](a, ref, gltf.AccessorVec3)
}

// ReadVec4 reads a VEC4 FLOAT accessor.
func (a *Asset) ReadVec4(ref gltf.Ref[gltf.Accessor]) ([]mgl32.Vec4, error) {
	return readFloats[mgl32.Vec4](a, ref, gltf.AccessorVec4)
}

// ReadMat4 reads a MAT4 FLOAT accessor, such as a skin's inverse bind matrices.
// glTF stores matrices column-major, the same layout as mgl32.Mat4.
func (a *Asset) ReadMat4(ref gltf.Ref[gltf.Accessor]) ([]mgl32.Mat4, error) {
	return readFloats[mgl32.Mat4](a, ref, gltf.AccessorMat4)
}

// ReadIndices reads a SCALAR accessor of unsigned bytes, shorts or ints and
// widens every index to uint32.
//
// Parameters:
//   - ref: the index accessor
//
// Returns:
//   - []uint32: the indices
//   - error: ErrAccessorType for other types, or any ReadAccessor error
func (a *Asset) ReadIndices(ref gltf.Ref[gltf.Accessor]) ([]uint32, error) {
	acc, err := a.accessor(ref)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: index accessor %d is %s, want SCALAR", ErrAccessorType, ref.Index(), acc.Type)
	}

	data, err := a.ReadAccessor(ref)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)
	result := make([]uint32, acc.Count)

	switch acc.ComponentType {
	case gltf.ComponentUnsignedByte:
		for i := range result {
			result[i] = uint32(data[i])
		}
	case gltf.ComponentUnsignedShort:
		raw := make([]uint16, acc.Count)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			result[i] = uint32(v)
		}
	case gltf.ComponentUnsignedInt:
		if err := binary.Read(r, binary.LittleEndian, result); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported index component type %s", ErrAccessorType, acc.ComponentType)
	}
	return result, nil
}

// ReadJoints reads a VEC4 accessor of unsigned bytes or shorts, as used by JOINTS_0.
func (a *Asset) ReadJoints(ref gltf.Ref[gltf.Accessor]) ([][4]uint32, error) {
	acc, err := a.accessor(ref)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorVec4 {
		return nil, fmt.Errorf("%w: joints accessor %d is %s, want VEC4", ErrAccessorType, ref.Index(), acc.Type)
	}

	data, err := a.ReadAccessor(ref)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)
	result := make([][4]uint32, acc.Count)

	switch acc.ComponentType {
	case gltf.ComponentUnsignedByte:
		raw := make([][4]uint8, acc.Count)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			result[i] = [4]uint32{uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3])}
		}
	case gltf.ComponentUnsignedShort:
		raw := make([][4]uint16, acc.Count)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			result[i] = [4]uint32{uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3])}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported joints component type %s", ErrAccessorType, acc.ComponentType)
	}
	return result, nil
}

// --- Helper Functions ---

// readFloats decodes a FLOAT accessor of the given shape into T, a float32
// or a fixed size float32 array.
func readFloats[T any](a *Asset, ref gltf.Ref[gltf.Accessor], want gltf.AccessorType) ([]T, error) {
	acc, err := a.accessor(ref)
	if err != nil {
		return nil, err
	}
	if acc.Type != want || acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: accessor %d is %s %s, want %s FLOAT", ErrAccessorType, ref.Index(), acc.Type, acc.ComponentType, want)
	}

	data, err := a.ReadAccessor(ref)
	if err != nil {
		return nil, err
	}
	result := make([]T, acc.Count)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Asset) accessor(ref gltf.Ref[gltf.Accessor]) (*gltf.Accessor, error) {
	if ref.Index() < 0 || ref.Index() >= len(a.Model.Accessors) {
		return nil, outOfRange(ref, "no such accessor")
	}
	return a.Model.Accessor(ref), nil
}

func outOfRange(ref gltf.Ref[gltf.Accessor], msg string, args ...any) error {
	return &gltf.Error{
		Kind: gltf.ErrOutOfRange,
		Path: fmt.Sprintf("/accessors/%d", ref.Index()),
		Msg:  fmt.Sprintf(msg, args...),
	}
}
