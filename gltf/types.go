// Package gltf parses glTF 2.0 documents into an immutable, fully resolved
// Model. Cross references between the document's arrays are validated once
// and exposed as typed Refs into the Model's sequences.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package gltf

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/goccy/go-json"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

// Model is the root of a parsed glTF document.
// The sequences are never mutated after Parse returns, so a Model is safe for
// concurrent reads.
type Model struct {
	Asset Asset

	Accessors   []Accessor
	Animations  []Animation
	Buffers     []Buffer
	BufferViews []BufferView
	Cameras     []Camera
	Images      []Image
	Materials   []Material
	Meshes      []Mesh
	Nodes       []Node
	Samplers    []Sampler
	Scenes      []Scene
	Skins       []Skin
	Textures    []Texture

	// Scene is the default scene, nil when the document names none.
	Scene *Ref[Scene]

	ExtensionsUsed     []string
	ExtensionsRequired []string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Asset is the document's metadata block.
type Asset struct {
	Copyright  *string
	Generator  *string
	Version    string
	MinVersion *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Buffer is a block of binary data.
type Buffer struct {
	// URI is nil only for the buffer stored in the GLB binary chunk.
	URI        uri.URI
	ByteLength uint64
	Name       *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// BufferView is a byte range of a Buffer.
type BufferView struct {
	Buffer     Ref[Buffer]
	ByteOffset uint64
	ByteLength uint64
	ByteStride *uint64
	Target     *BufferViewTarget
	Name       *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Accessor describes how to read typed elements out of a BufferView.
type Accessor struct {
	// BufferView is nil for accessors whose data is all zeros or sparse only.
	BufferView    *Ref[BufferView]
	ByteOffset    uint64
	ComponentType ComponentType
	Normalized    bool
	Count         uint64
	Type          AccessorType
	Max           []Number
	Min           []Number

	// Sparse is passed through undecoded.
	Sparse json.RawMessage
	Name   *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// ElementSize returns the packed size in bytes of one element.
func (a *Accessor) ElementSize() int {
	return a.ComponentType.Size() * a.Type.Components()
}

// Camera is a projection attached to nodes.
type Camera struct {
	Projection Projection
	Name       *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Projection is either Orthographic or Perspective.
type Projection interface {
	isProjection()
}

// Orthographic is an orthographic projection.
type Orthographic struct {
	XMag  Number
	YMag  Number
	ZFar  Number
	ZNear Number

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Perspective is a perspective projection. A nil ZFar means an infinite projection.
type Perspective struct {
	AspectRatio *Number
	YFov        Number
	ZFar        *Number
	ZNear       Number

	Extensions json.RawMessage
	Extras     json.RawMessage
}

func (Orthographic) isProjection() {}
func (Perspective) isProjection()  {}

// Image is texture image data, addressed by uri or stored in a buffer view.
type Image struct {
	Source ImageSource

	// MIMEType is always set for buffer view sources.
	MIMEType *ImageMIME
	Name     *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// ImageSource is either ImageURI or ImageBufferView.
type ImageSource interface {
	isImageSource()
}

// ImageURI is an image addressed by uri.
type ImageURI struct {
	URI uri.URI
}

// ImageBufferView is an image embedded in a buffer view.
type ImageBufferView struct {
	View Ref[BufferView]
}

func (ImageURI) isImageSource()        {}
func (ImageBufferView) isImageSource() {}

// Sampler holds texture filtering and wrapping.
type Sampler struct {
	MagFilter *MagFilter
	MinFilter *MinFilter
	WrapS     WrapMode
	WrapT     WrapMode
	Name      *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// DefaultSampler is used by textures that reference no sampler.
var DefaultSampler = Sampler{WrapS: Repeat, WrapT: Repeat}

// Texture pairs an image with a sampler.
type Texture struct {
	Sampler *Ref[Sampler]
	Source  *Ref[Image]
	Name    *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// TextureInfo references a texture from a material.
type TextureInfo struct {
	Index    Ref[Texture]
	TexCoord uint64

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// NormalTextureInfo is a normal map reference.
type NormalTextureInfo struct {
	TextureInfo
	Scale *float32
}

// ScaleOrDefault returns the normal scale, 1 when unset.
func (n *NormalTextureInfo) ScaleOrDefault() float32 {
	return common.ValueOr(n.Scale, 1)
}

// OcclusionTextureInfo is an occlusion map reference.
type OcclusionTextureInfo struct {
	TextureInfo
	Strength *float32
}

// StrengthOrDefault returns the occlusion strength, 1 when unset.
func (o *OcclusionTextureInfo) StrengthOrDefault() float32 {
	return common.ValueOr(o.Strength, 1)
}

// PBRMetallicRoughness is the metallic-roughness material model.
type PBRMetallicRoughness struct {
	BaseColorFactor          *mgl32.Vec4
	BaseColorTexture         *TextureInfo
	MetallicFactor           *float32
	RoughnessFactor          *float32
	MetallicRoughnessTexture *TextureInfo

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Material describes the surface appearance of a primitive.
type Material struct {
	Name                 *string
	PBRMetallicRoughness PBRMetallicRoughness
	NormalTexture        *NormalTextureInfo
	OcclusionTexture     *OcclusionTextureInfo
	EmissiveTexture      *TextureInfo
	EmissiveFactor       *mgl32.Vec3
	AlphaMode            AlphaMode
	AlphaCutoff          *float32
	DoubleSided          bool

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// BaseColor returns the base color factor, opaque white when unset.
func (m *Material) BaseColor() mgl32.Vec4 {
	return common.ValueOr(m.PBRMetallicRoughness.BaseColorFactor, mgl32.Vec4{1, 1, 1, 1})
}

// Metallic returns the metallic factor, 1 when unset.
func (m *Material) Metallic() float32 {
	return common.ValueOr(m.PBRMetallicRoughness.MetallicFactor, 1)
}

// Roughness returns the roughness factor, 1 when unset.
func (m *Material) Roughness() float32 {
	return common.ValueOr(m.PBRMetallicRoughness.RoughnessFactor, 1)
}

// Emissive returns the emissive factor, black when unset.
func (m *Material) Emissive() mgl32.Vec3 {
	return common.ValueOr(m.EmissiveFactor, mgl32.Vec3{})
}

// Cutoff returns the alpha cutoff, 0.5 when unset.
func (m *Material) Cutoff() float32 {
	return common.ValueOr(m.AlphaCutoff, 0.5)
}

// MorphTarget maps displaced attributes to accessors.
type MorphTarget map[MorphTargetAttribute]Ref[Accessor]

// Primitive is geometry drawn with a single material.
type Primitive struct {
	Attributes map[Attribute]Ref[Accessor]
	Indices    *Ref[Accessor]
	Material   *Ref[Material]
	Mode       PrimitiveMode
	Targets    []MorphTarget

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// FlattenedTargets merges all morph targets into one mapping. When targets
// displace the same attribute the first one wins.
func (p *Primitive) FlattenedTargets() MorphTarget {
	flat := make(MorphTarget)
	for _, target := range p.Targets {
		for attr, ref := range target {
			if _, ok := flat[attr]; !ok {
				flat[attr] = ref
			}
		}
	}
	return flat
}

// Mesh is a set of primitives.
type Mesh struct {
	Primitives []Primitive
	Weights    []float32
	Name       *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Node is an element of the scene hierarchy.
type Node struct {
	Camera    *Ref[Camera]
	Children  []Ref[Node]
	Skin      *Ref[Skin]
	Transform Transform
	Mesh      *Ref[Mesh]
	Weights   []float32
	Name      *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Transform is either MatrixTransform or TRS.
type Transform interface {
	isTransform()
}

// MatrixTransform is a column-major local transform matrix.
type MatrixTransform struct {
	Matrix mgl32.Mat4
}

// TRS is a translation, rotation, scale decomposition. Absent parts are identity.
type TRS struct {
	Translation *mgl32.Vec3
	Rotation    *mgl32.Quat
	Scale       *mgl32.Vec3
}

func (MatrixTransform) isTransform() {}
func (TRS) isTransform()             {}

// Skin binds a mesh to a joint hierarchy.
type Skin struct {
	InverseBindMatrices *Ref[Accessor]
	Skeleton            *Ref[Node]
	Joints              []Ref[Node]
	Name                *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// AnimationSampler pairs keyframe times with output values.
type AnimationSampler struct {
	Input         Ref[Accessor]
	Interpolation Interpolation
	Output        Ref[Accessor]

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// ChannelTarget is the node property driven by a channel.
type ChannelTarget struct {
	Node *Ref[Node]
	Path ChannelPath
}

// Channel connects an animation sampler to a target.
// Sampler indexes the owning Animation's Samplers.
type Channel struct {
	Sampler Ref[AnimationSampler]
	Target  ChannelTarget

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Animation is a set of channels and their samplers.
type Animation struct {
	Channels []Channel
	Samplers []AnimationSampler
	Name     *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Sampler returns the sampler driving c.
func (a *Animation) Sampler(c *Channel) *AnimationSampler {
	return c.Sampler.Get(a.Samplers)
}

// Scene is a set of root nodes. Nodes is nil when the document omits it.
type Scene struct {
	Nodes []Ref[Node]
	Name  *string

	Extensions json.RawMessage
	Extras     json.RawMessage
}

// Lookup helpers. Refs taken from m are always in range.

func (m *Model) Accessor(r Ref[Accessor]) *Accessor       { return r.Get(m.Accessors) }
func (m *Model) Animation(r Ref[Animation]) *Animation    { return r.Get(m.Animations) }
func (m *Model) Buffer(r Ref[Buffer]) *Buffer             { return r.Get(m.Buffers) }
func (m *Model) BufferView(r Ref[BufferView]) *BufferView { return r.Get(m.BufferViews) }
func (m *Model) Camera(r Ref[Camera]) *Camera             { return r.Get(m.Cameras) }
func (m *Model) Image(r Ref[Image]) *Image                { return r.Get(m.Images) }
func (m *Model) Material(r Ref[Material]) *Material       { return r.Get(m.Materials) }
func (m *Model) Mesh(r Ref[Mesh]) *Mesh                   { return r.Get(m.Meshes) }
func (m *Model) Node(r Ref[Node]) *Node                   { return r.Get(m.Nodes) }
func (m *Model) Sampler(r Ref[Sampler]) *Sampler          { return r.Get(m.Samplers) }
func (m *Model) SceneAt(r Ref[Scene]) *Scene              { return r.Get(m.Scenes) }
func (m *Model) Skin(r Ref[Skin]) *Skin                   { return r.Get(m.Skins) }
func (m *Model) Texture(r Ref[Texture]) *Texture          { return r.Get(m.Textures) }

// DefaultScene returns the default scene or nil.
func (m *Model) DefaultScene() *Scene {
	if m.Scene == nil {
		return nil
	}
	return m.SceneAt(*m.Scene)
}

// TextureSampler returns the sampler of t, DefaultSampler when it has none.
func (m *Model) TextureSampler(t *Texture) Sampler {
	if t.Sampler == nil {
		return DefaultSampler
	}
	return *m.Sampler(*t.Sampler)
}
