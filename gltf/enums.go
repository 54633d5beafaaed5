package gltf

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

// Closed enumerations of the glTF schema and their JSON conversions.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#properties-reference

// BufferViewTarget is the GPU binding hint of a buffer view.
type BufferViewTarget int

const (
	ArrayBuffer        BufferViewTarget = 34962
	ElementArrayBuffer BufferViewTarget = 34963
)

var bufferViewTargetNames = map[BufferViewTarget]string{
	ArrayBuffer:        "ARRAY_BUFFER",
	ElementArrayBuffer: "ELEMENT_ARRAY_BUFFER",
}

func (t BufferViewTarget) String() string { return enumName(bufferViewTargetNames, t) }

// ComponentType is the scalar type of accessor components.
type ComponentType int

const (
	ComponentByte          ComponentType = 5120
	ComponentUnsignedByte  ComponentType = 5121
	ComponentShort         ComponentType = 5122
	ComponentUnsignedShort ComponentType = 5123
	ComponentUnsignedInt   ComponentType = 5125
	ComponentFloat         ComponentType = 5126
)

var componentTypeNames = map[ComponentType]string{
	ComponentByte:          "BYTE",
	ComponentUnsignedByte:  "UNSIGNED_BYTE",
	ComponentShort:         "SHORT",
	ComponentUnsignedShort: "UNSIGNED_SHORT",
	ComponentUnsignedInt:   "UNSIGNED_INT",
	ComponentFloat:         "FLOAT",
}

func (c ComponentType) String() string { return enumName(componentTypeNames, c) }

// Size returns the size in bytes of one component.
func (c ComponentType) Size() int {
	switch c {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// AccessorType is the shape of an accessor element.
type AccessorType int

const (
	AccessorScalar AccessorType = iota
	AccessorVec2
	AccessorVec3
	AccessorVec4
	AccessorMat2
	AccessorMat3
	AccessorMat4
)

var accessorTypeNames = map[AccessorType]string{
	AccessorScalar: "SCALAR",
	AccessorVec2:   "VEC2",
	AccessorVec3:   "VEC3",
	AccessorVec4:   "VEC4",
	AccessorMat2:   "MAT2",
	AccessorMat3:   "MAT3",
	AccessorMat4:   "MAT4",
}

func (a AccessorType) String() string { return enumName(accessorTypeNames, a) }

// Components returns the number of components per element.
func (a AccessorType) Components() int {
	switch a {
	case AccessorScalar:
		return 1
	case AccessorVec2:
		return 2
	case AccessorVec3:
		return 3
	case AccessorVec4, AccessorMat2:
		return 4
	case AccessorMat3:
		return 9
	case AccessorMat4:
		return 16
	default:
		return 0
	}
}

// MagFilter is a texture magnification filter.
type MagFilter int

const (
	MagNearest MagFilter = 9728
	MagLinear  MagFilter = 9729
)

var magFilterNames = map[MagFilter]string{
	MagNearest: "NEAREST",
	MagLinear:  "LINEAR",
}

func (f MagFilter) String() string { return enumName(magFilterNames, f) }

// MinFilter is a texture minification filter.
type MinFilter int

const (
	MinNearest              MinFilter = 9728
	MinLinear               MinFilter = 9729
	MinNearestMipmapNearest MinFilter = 9984
	MinLinearMipmapNearest  MinFilter = 9985
	MinNearestMipmapLinear  MinFilter = 9986
	MinLinearMipmapLinear   MinFilter = 9987
)

var minFilterNames = map[MinFilter]string{
	MinNearest:              "NEAREST",
	MinLinear:               "LINEAR",
	MinNearestMipmapNearest: "NEAREST_MIPMAP_NEAREST",
	MinLinearMipmapNearest:  "LINEAR_MIPMAP_NEAREST",
	MinNearestMipmapLinear:  "NEAREST_MIPMAP_LINEAR",
	MinLinearMipmapLinear:   "LINEAR_MIPMAP_LINEAR",
}

func (f MinFilter) String() string { return enumName(minFilterNames, f) }

// WrapMode is a texture coordinate wrapping mode.
type WrapMode int

const (
	ClampToEdge    WrapMode = 33071
	MirroredRepeat WrapMode = 33648
	Repeat         WrapMode = 10497
)

var wrapModeNames = map[WrapMode]string{
	ClampToEdge:    "CLAMP_TO_EDGE",
	MirroredRepeat: "MIRRORED_REPEAT",
	Repeat:         "REPEAT",
}

func (w WrapMode) String() string { return enumName(wrapModeNames, w) }

// ImageMIME is the media type of an image.
type ImageMIME int

const (
	ImageJPEG ImageMIME = iota
	ImagePNG
)

var imageMIMENames = map[ImageMIME]string{
	ImageJPEG: "image/jpeg",
	ImagePNG:  "image/png",
}

func (m ImageMIME) String() string { return enumName(imageMIMENames, m) }

// MIMEType returns the matching uri media type.
func (m ImageMIME) MIMEType() uri.MIMEType {
	if m == ImagePNG {
		return uri.ImagePNG
	}
	return uri.ImageJPEG
}

// AlphaMode controls how a material's alpha is interpreted.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

var alphaModeNames = map[AlphaMode]string{
	AlphaOpaque: "OPAQUE",
	AlphaMask:   "MASK",
	AlphaBlend:  "BLEND",
}

func (a AlphaMode) String() string { return enumName(alphaModeNames, a) }

// Attribute is a vertex attribute semantic.
type Attribute int

const (
	AttributePosition Attribute = iota
	AttributeNormal
	AttributeTangent
	AttributeTexCoord0
	AttributeTexCoord1
	AttributeColor0
	AttributeJoints0
	AttributeWeights0
)

var attributeNames = map[Attribute]string{
	AttributePosition:  "POSITION",
	AttributeNormal:    "NORMAL",
	AttributeTangent:   "TANGENT",
	AttributeTexCoord0: "TEXCOORD_0",
	AttributeTexCoord1: "TEXCOORD_1",
	AttributeColor0:    "COLOR_0",
	AttributeJoints0:   "JOINTS_0",
	AttributeWeights0:  "WEIGHTS_0",
}

func (a Attribute) String() string { return enumName(attributeNames, a) }

// MorphTargetAttribute is an attribute a morph target may displace.
type MorphTargetAttribute int

const (
	MorphPosition MorphTargetAttribute = iota
	MorphNormal
	MorphTangent
)

var morphTargetAttributeNames = map[MorphTargetAttribute]string{
	MorphPosition: "POSITION",
	MorphNormal:   "NORMAL",
	MorphTangent:  "TANGENT",
}

func (a MorphTargetAttribute) String() string { return enumName(morphTargetAttributeNames, a) }

// PrimitiveMode is the topology of a primitive.
type PrimitiveMode int

const (
	ModePoints PrimitiveMode = iota
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangles
	ModeTriangleStrip
	ModeTriangleFan
)

var primitiveModeNames = map[PrimitiveMode]string{
	ModePoints:        "POINTS",
	ModeLines:         "LINES",
	ModeLineLoop:      "LINE_LOOP",
	ModeLineStrip:     "LINE_STRIP",
	ModeTriangles:     "TRIANGLES",
	ModeTriangleStrip: "TRIANGLE_STRIP",
	ModeTriangleFan:   "TRIANGLE_FAN",
}

func (m PrimitiveMode) String() string { return enumName(primitiveModeNames, m) }

// Interpolation is the keyframe interpolation of an animation sampler.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
	InterpolationCatmullRomSpline
)

var interpolationNames = map[Interpolation]string{
	InterpolationLinear:           "LINEAR",
	InterpolationStep:             "STEP",
	InterpolationCubicSpline:      "CUBICSPLINE",
	InterpolationCatmullRomSpline: "CATMULLROMSPLINE",
}

func (i Interpolation) String() string { return enumName(interpolationNames, i) }

// ChannelPath is the node property an animation channel drives.
type ChannelPath int

const (
	PathTranslation ChannelPath = iota
	PathRotation
	PathScale
	PathWeights
)

var channelPathNames = map[ChannelPath]string{
	PathTranslation: "translation",
	PathRotation:    "rotation",
	PathScale:       "scale",
	PathWeights:     "weights",
}

func (p ChannelPath) String() string { return enumName(channelPathNames, p) }

// ParseBufferViewTarget maps a bufferView.target code.
func ParseBufferViewTarget(v int) (BufferViewTarget, error) {
	return fromCode(bufferViewTargetNames, v, "bufferView target")
}

// ParseComponentType maps an accessor.componentType code.
func ParseComponentType(v int) (ComponentType, error) {
	return fromCode(componentTypeNames, v, "componentType")
}

// ParseAccessorType maps an accessor.type string.
func ParseAccessorType(s string) (AccessorType, error) {
	return fromName(accessorTypeNames, s, "accessor type")
}

// ParseMagFilter maps a sampler.magFilter code.
func ParseMagFilter(v int) (MagFilter, error) {
	return fromCode(magFilterNames, v, "magFilter")
}

// ParseMinFilter maps a sampler.minFilter code.
func ParseMinFilter(v int) (MinFilter, error) {
	return fromCode(minFilterNames, v, "minFilter")
}

// ParseWrapMode maps a sampler.wrapS or sampler.wrapT code.
func ParseWrapMode(v int) (WrapMode, error) {
	return fromCode(wrapModeNames, v, "sampler wrap")
}

// ParseImageMIME maps an image.mimeType string.
func ParseImageMIME(s string) (ImageMIME, error) {
	return fromName(imageMIMENames, s, "image mimeType")
}

// ParseAlphaMode maps a material.alphaMode string.
func ParseAlphaMode(s string) (AlphaMode, error) {
	return fromName(alphaModeNames, s, "alphaMode")
}

// ParseAttribute maps a primitive attribute semantic.
func ParseAttribute(s string) (Attribute, error) {
	return fromName(attributeNames, s, "attribute")
}

// ParseMorphTargetAttribute maps a morph target attribute semantic.
func ParseMorphTargetAttribute(s string) (MorphTargetAttribute, error) {
	return fromName(morphTargetAttributeNames, s, "morph target attribute")
}

// ParsePrimitiveMode maps a primitive.mode code.
func ParsePrimitiveMode(v int) (PrimitiveMode, error) {
	return fromCode(primitiveModeNames, v, "primitive mode")
}

// ParseInterpolation maps an animation sampler interpolation string.
// Unless distinct is set, STEP and CATMULLROMSPLINE collapse onto LINEAR.
func ParseInterpolation(s string, distinct bool) (Interpolation, error) {
	i, err := fromName(interpolationNames, s, "interpolation")
	if err != nil {
		return 0, err
	}
	if !distinct && (i == InterpolationStep || i == InterpolationCatmullRomSpline) {
		return InterpolationLinear, nil
	}
	return i, nil
}

// ParseChannelPath maps an animation channel target path.
func ParseChannelPath(s string) (ChannelPath, error) {
	return fromName(channelPathNames, s, "channel target path")
}

func enumName[E ~int](names map[E]string, e E) string {
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("%T(%d)", e, int(e))
}

func fromCode[E ~int](names map[E]string, v int, what string) (E, error) {
	if _, ok := names[E(v)]; !ok {
		return 0, fmt.Errorf("%w: %s %d", ErrInvalidEnum, what, v)
	}
	return E(v), nil
}

func fromName[E ~int](names map[E]string, s string, what string) (E, error) {
	for e, name := range names {
		if name == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrInvalidEnum, what, s)
}
