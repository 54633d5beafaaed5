package gltf

import (
	"github.com/goccy/go-json"
)

// wire*.go types mirror the glTF JSON schema one to one. Optional and
// mandatory fields alike are pointers so the parser can tell "absent" from
// "zero". Arrays of objects are kept raw and decoded element by element,
// which lets errors carry the exact JSON Pointer of the failing element.

type wireExt struct {
	Extensions json.RawMessage `json:"extensions"`
	Extras     json.RawMessage `json:"extras"`
}

// wireDocument is the root object.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type wireDocument struct {
	Asset json.RawMessage `json:"asset"`
	Scene *int            `json:"scene"`

	Accessors   []json.RawMessage `json:"accessors"`
	Animations  []json.RawMessage `json:"animations"`
	Buffers     []json.RawMessage `json:"buffers"`
	BufferViews []json.RawMessage `json:"bufferViews"`
	Cameras     []json.RawMessage `json:"cameras"`
	Images      []json.RawMessage `json:"images"`
	Materials   []json.RawMessage `json:"materials"`
	Meshes      []json.RawMessage `json:"meshes"`
	Nodes       []json.RawMessage `json:"nodes"`
	Samplers    []json.RawMessage `json:"samplers"`
	Scenes      []json.RawMessage `json:"scenes"`
	Skins       []json.RawMessage `json:"skins"`
	Textures    []json.RawMessage `json:"textures"`

	ExtensionsUsed     []string `json:"extensionsUsed"`
	ExtensionsRequired []string `json:"extensionsRequired"`

	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-asset
type wireAsset struct {
	Copyright  *string `json:"copyright"`
	Generator  *string `json:"generator"`
	Version    *string `json:"version"`
	MinVersion *string `json:"minVersion"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-buffer
type wireBuffer struct {
	URI        *string `json:"uri"`
	ByteLength *uint64 `json:"byteLength"`
	Name       *string `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-bufferview
type wireBufferView struct {
	Buffer     *int    `json:"buffer"`
	ByteOffset *uint64 `json:"byteOffset"`
	ByteLength *uint64 `json:"byteLength"`
	ByteStride *uint64 `json:"byteStride"`
	Target     *int    `json:"target"`
	Name       *string `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type wireAccessor struct {
	BufferView    *int              `json:"bufferView"`
	ByteOffset    *uint64           `json:"byteOffset"`
	ComponentType *int              `json:"componentType"`
	Normalized    *bool             `json:"normalized"`
	Count         *uint64           `json:"count"`
	Type          *string           `json:"type"`
	Max           []json.RawMessage `json:"max"`
	Min           []json.RawMessage `json:"min"`
	Sparse        json.RawMessage   `json:"sparse"`
	Name          *string           `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-camera
type wireCamera struct {
	Type         *string         `json:"type"`
	Orthographic json.RawMessage `json:"orthographic"`
	Perspective  json.RawMessage `json:"perspective"`
	Name         *string         `json:"name"`
	wireExt
}

type wireOrthographic struct {
	XMag  json.RawMessage `json:"xmag"`
	YMag  json.RawMessage `json:"ymag"`
	ZFar  json.RawMessage `json:"zfar"`
	ZNear json.RawMessage `json:"znear"`
	wireExt
}

type wirePerspective struct {
	AspectRatio json.RawMessage `json:"aspectRatio"`
	YFov        json.RawMessage `json:"yfov"`
	ZFar        json.RawMessage `json:"zfar"`
	ZNear       json.RawMessage `json:"znear"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-sampler
type wireSampler struct {
	MagFilter *int    `json:"magFilter"`
	MinFilter *int    `json:"minFilter"`
	WrapS     *int    `json:"wrapS"`
	WrapT     *int    `json:"wrapT"`
	Name      *string `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-image
type wireImage struct {
	URI        *string `json:"uri"`
	MimeType   *string `json:"mimeType"`
	BufferView *int    `json:"bufferView"`
	Name       *string `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-texture
type wireTexture struct {
	Sampler *int    `json:"sampler"`
	Source  *int    `json:"source"`
	Name    *string `json:"name"`
	wireExt
}

// wireTextureInfo covers textureInfo and its normal and occlusion variants.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-textureinfo
type wireTextureInfo struct {
	Index    *int     `json:"index"`
	TexCoord *uint64  `json:"texCoord"`
	Scale    *float32 `json:"scale"`
	Strength *float32 `json:"strength"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material
type wireMaterial struct {
	Name                 *string          `json:"name"`
	PBRMetallicRoughness *wirePBR         `json:"pbrMetallicRoughness"`
	NormalTexture        *wireTextureInfo `json:"normalTexture"`
	OcclusionTexture     *wireTextureInfo `json:"occlusionTexture"`
	EmissiveTexture      *wireTextureInfo `json:"emissiveTexture"`
	EmissiveFactor       []float32        `json:"emissiveFactor"`
	AlphaMode            *string          `json:"alphaMode"`
	AlphaCutoff          *float32         `json:"alphaCutoff"`
	DoubleSided          *bool            `json:"doubleSided"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material-pbrmetallicroughness
type wirePBR struct {
	BaseColorFactor          []float32        `json:"baseColorFactor"`
	BaseColorTexture         *wireTextureInfo `json:"baseColorTexture"`
	MetallicFactor           *float32         `json:"metallicFactor"`
	RoughnessFactor          *float32         `json:"roughnessFactor"`
	MetallicRoughnessTexture *wireTextureInfo `json:"metallicRoughnessTexture"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh
type wireMesh struct {
	Primitives []json.RawMessage `json:"primitives"`
	Weights    []float32         `json:"weights"`
	Name       *string           `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh-primitive
type wirePrimitive struct {
	Attributes map[string]int   `json:"attributes"`
	Indices    *int             `json:"indices"`
	Material   *int             `json:"material"`
	Mode       *int             `json:"mode"`
	Targets    []map[string]int `json:"targets"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type wireNode struct {
	Camera      *int      `json:"camera"`
	Children    []int     `json:"children"`
	Skin        *int      `json:"skin"`
	Matrix      []float32 `json:"matrix"`
	Mesh        *int      `json:"mesh"`
	Rotation    []float32 `json:"rotation"`
	Scale       []float32 `json:"scale"`
	Translation []float32 `json:"translation"`
	Weights     []float32 `json:"weights"`
	Name        *string   `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-skin
type wireSkin struct {
	InverseBindMatrices *int    `json:"inverseBindMatrices"`
	Skeleton            *int    `json:"skeleton"`
	Joints              []int   `json:"joints"`
	Name                *string `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation
type wireAnimation struct {
	Channels []json.RawMessage `json:"channels"`
	Samplers []json.RawMessage `json:"samplers"`
	Name     *string           `json:"name"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-sampler
type wireAnimationSampler struct {
	Input         *int    `json:"input"`
	Interpolation *string `json:"interpolation"`
	Output        *int    `json:"output"`
	wireExt
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-animation-channel
type wireChannel struct {
	Sampler *int               `json:"sampler"`
	Target  *wireChannelTarget `json:"target"`
	wireExt
}

type wireChannelTarget struct {
	Node *int    `json:"node"`
	Path *string `json:"path"`
}

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-scene
type wireScene struct {
	Nodes []int   `json:"nodes"`
	Name  *string `json:"name"`
	wireExt
}
