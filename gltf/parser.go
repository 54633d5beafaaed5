package gltf

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/goccy/go-json"

	"github.com/Carmen-Shannon/oxy-gltf/format"
	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

// parser holds the state of a single Parse call.
// Sequences are filled strictly in dependency order so every index is
// resolved against a sequence that is already complete.
type parser struct {
	cfg *parseConfig
	log *log.Logger
	doc wireDocument
	m   *Model

	// Decoded nodes and skins, kept for the back-patch pass.
	wireNodes []wireNode
	wireSkins []wireSkin
}

// Decode reads a container from r and parses it.
//
// Parameters:
//   - r: stream holding a .gltf or .glb asset
//   - options: parse options, including WithContainerOptions for the container layer
//
// Returns:
//   - *Model: the parsed model
//   - format.Container: the decoded container, needed later to open GLB-embedded resources
//   - error: container or parse error
func Decode(r io.Reader, options ...ParseOption) (*Model, format.Container, error) {
	cfg := newParseConfig(options...)
	c, err := format.Decode(r, cfg.containerOptions...)
	if err != nil {
		return nil, format.Container{}, err
	}
	m, err := parse(c, cfg)
	if err != nil {
		return nil, c, err
	}
	return m, c, nil
}

// Parse builds a Model from a decoded container. The first error aborts the
// parse; no partial Model is ever returned.
//
// Parameters:
//   - c: the decoded container
//   - options: parse options
//
// Returns:
//   - *Model: the resolved, immutable model
//   - error: an *Error describing the first failure
func Parse(c format.Container, options ...ParseOption) (*Model, error) {
	return parse(c, newParseConfig(options...))
}

func parse(c format.Container, cfg *parseConfig) (*Model, error) {
	p := &parser{cfg: cfg, log: cfg.logger, m: &Model{}}

	// Past this check every decoding failure is a shape mismatch.
	if !json.Valid(c.Document) {
		return nil, &Error{Kind: ErrJSONSyntax, Msg: "document is not valid JSON"}
	}
	if err := json.Unmarshal(c.Document, &p.doc); err != nil {
		return nil, schemaError("", err)
	}

	stages := []struct {
		name string
		run  func() error
	}{
		{"buffers", p.parseBuffers},
		{"bufferViews", p.parseBufferViews},
		{"accessors", p.parseAccessors},
		{"cameras", p.parseCameras},
		{"samplers", p.parseSamplers},
		{"images", p.parseImages},
		{"textures", p.parseTextures},
		{"materials", p.parseMaterials},
		{"meshes", p.parseMeshes},
		{"skins", p.parseSkins},
		{"nodes", p.parseNodes},
		{"node children", p.patchChildren},
		{"skin joints", p.patchJoints},
		{"animations", p.parseAnimations},
		{"scenes", p.parseScenes},
		{"asset", p.parseRoot},
	}
	for _, stage := range stages {
		if err := stage.run(); err != nil {
			p.log.Debug("parse failed", "stage", stage.name, "err", err)
			return nil, err
		}
		p.log.Debug("parsed", "stage", stage.name)
	}
	return p.m, nil
}

func (p *parser) parseBuffers() error {
	p.m.Buffers = make([]Buffer, len(p.doc.Buffers))
	for i, raw := range p.doc.Buffers {
		path := pointer("/buffers", i)
		var w wireBuffer
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		byteLength, err := required(w.ByteLength, path, "byteLength")
		if err != nil {
			return err
		}
		b := Buffer{ByteLength: byteLength, Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
		if w.URI != nil {
			if b.URI, err = parseURI(*w.URI, pointer(path, "uri")); err != nil {
				return err
			}
		}
		p.m.Buffers[i] = b
	}
	return nil
}

// Vertex attribute strides allowed by glTF.
const (
	minByteStride = 4
	maxByteStride = 252
)

func (p *parser) parseBufferViews() error {
	p.m.BufferViews = make([]BufferView, len(p.doc.BufferViews))
	for i, raw := range p.doc.BufferViews {
		path := pointer("/bufferViews", i)
		var w wireBufferView
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		bufIdx, err := required(w.Buffer, path, "buffer")
		if err != nil {
			return err
		}
		buf, err := resolve[Buffer](bufIdx, len(p.m.Buffers), pointer(path, "buffer"))
		if err != nil {
			return err
		}
		byteLength, err := required(w.ByteLength, path, "byteLength")
		if err != nil {
			return err
		}
		if w.ByteStride != nil && (*w.ByteStride < minByteStride || *w.ByteStride > maxByteStride) {
			return newError(ErrOutOfRange, pointer(path, "byteStride"), "stride %d outside %d..%d", *w.ByteStride, minByteStride, maxByteStride)
		}
		bv := BufferView{
			Buffer:     buf,
			ByteOffset: deref(w.ByteOffset),
			ByteLength: byteLength,
			ByteStride: w.ByteStride,
			Name:       w.Name,
			Extensions: w.Extensions,
			Extras:     w.Extras,
		}
		if w.Target != nil {
			target, err := ParseBufferViewTarget(*w.Target)
			if err != nil {
				return enumError(pointer(path, "target"), err)
			}
			bv.Target = &target
		}
		p.m.BufferViews[i] = bv
	}
	return nil
}

func (p *parser) parseAccessors() error {
	p.m.Accessors = make([]Accessor, len(p.doc.Accessors))
	for i, raw := range p.doc.Accessors {
		path := pointer("/accessors", i)
		var w wireAccessor
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		view, err := resolveOpt[BufferView](w.BufferView, len(p.m.BufferViews), pointer(path, "bufferView"))
		if err != nil {
			return err
		}
		rawComponent, err := required(w.ComponentType, path, "componentType")
		if err != nil {
			return err
		}
		componentType, err := ParseComponentType(rawComponent)
		if err != nil {
			return enumError(pointer(path, "componentType"), err)
		}
		count, err := required(w.Count, path, "count")
		if err != nil {
			return err
		}
		rawType, err := required(w.Type, path, "type")
		if err != nil {
			return err
		}
		accessorType, err := ParseAccessorType(rawType)
		if err != nil {
			return enumError(pointer(path, "type"), err)
		}
		maxValues, err := parseNumbers(w.Max, pointer(path, "max"))
		if err != nil {
			return err
		}
		minValues, err := parseNumbers(w.Min, pointer(path, "min"))
		if err != nil {
			return err
		}
		p.m.Accessors[i] = Accessor{
			BufferView:    view,
			ByteOffset:    deref(w.ByteOffset),
			ComponentType: componentType,
			Normalized:    deref(w.Normalized),
			Count:         count,
			Type:          accessorType,
			Max:           maxValues,
			Min:           minValues,
			Sparse:        w.Sparse,
			Name:          w.Name,
			Extensions:    w.Extensions,
			Extras:        w.Extras,
		}
	}
	return nil
}

func (p *parser) parseCameras() error {
	p.m.Cameras = make([]Camera, len(p.doc.Cameras))
	for i, raw := range p.doc.Cameras {
		path := pointer("/cameras", i)
		var w wireCamera
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		kind, err := required(w.Type, path, "type")
		if err != nil {
			return err
		}
		cam := Camera{Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
		switch kind {
		case "perspective":
			cam.Projection, err = parsePerspective(w.Perspective, pointer(path, "perspective"))
		case "orthographic":
			cam.Projection, err = parseOrthographic(w.Orthographic, pointer(path, "orthographic"))
		default:
			err = newError(ErrInvalidEnum, pointer(path, "type"), "camera type %q", kind)
		}
		if err != nil {
			return err
		}
		p.m.Cameras[i] = cam
	}
	return nil
}

func parsePerspective(raw json.RawMessage, path string) (Projection, error) {
	if isAbsent(raw) {
		return nil, newError(ErrSchema, path, "missing perspective projection")
	}
	var w wirePerspective
	if err := decodeElement(raw, &w, path); err != nil {
		return nil, err
	}
	proj := Perspective{Extensions: w.Extensions, Extras: w.Extras}
	var err error
	if proj.AspectRatio, err = optionalNumber(w.AspectRatio, path, "aspectRatio"); err != nil {
		return nil, err
	}
	if proj.YFov, err = requiredNumber(w.YFov, path, "yfov"); err != nil {
		return nil, err
	}
	if proj.ZFar, err = optionalNumber(w.ZFar, path, "zfar"); err != nil {
		return nil, err
	}
	if proj.ZNear, err = requiredNumber(w.ZNear, path, "znear"); err != nil {
		return nil, err
	}
	return proj, nil
}

func parseOrthographic(raw json.RawMessage, path string) (Projection, error) {
	if isAbsent(raw) {
		return nil, newError(ErrSchema, path, "missing orthographic projection")
	}
	var w wireOrthographic
	if err := decodeElement(raw, &w, path); err != nil {
		return nil, err
	}
	proj := Orthographic{Extensions: w.Extensions, Extras: w.Extras}
	var err error
	if proj.XMag, err = requiredNumber(w.XMag, path, "xmag"); err != nil {
		return nil, err
	}
	if proj.YMag, err = requiredNumber(w.YMag, path, "ymag"); err != nil {
		return nil, err
	}
	if proj.ZFar, err = requiredNumber(w.ZFar, path, "zfar"); err != nil {
		return nil, err
	}
	if proj.ZNear, err = requiredNumber(w.ZNear, path, "znear"); err != nil {
		return nil, err
	}
	return proj, nil
}

func (p *parser) parseSamplers() error {
	p.m.Samplers = make([]Sampler, len(p.doc.Samplers))
	for i, raw := range p.doc.Samplers {
		path := pointer("/samplers", i)
		var w wireSampler
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		s := Sampler{WrapS: Repeat, WrapT: Repeat, Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
		if w.MagFilter != nil {
			f, err := ParseMagFilter(*w.MagFilter)
			if err != nil {
				return enumError(pointer(path, "magFilter"), err)
			}
			s.MagFilter = &f
		}
		if w.MinFilter != nil {
			f, err := ParseMinFilter(*w.MinFilter)
			if err != nil {
				return enumError(pointer(path, "minFilter"), err)
			}
			s.MinFilter = &f
		}
		if w.WrapS != nil {
			wrap, err := ParseWrapMode(*w.WrapS)
			if err != nil {
				return enumError(pointer(path, "wrapS"), err)
			}
			s.WrapS = wrap
		}
		if w.WrapT != nil {
			wrap, err := ParseWrapMode(*w.WrapT)
			if err != nil {
				return enumError(pointer(path, "wrapT"), err)
			}
			s.WrapT = wrap
		}
		p.m.Samplers[i] = s
	}
	return nil
}

func (p *parser) parseImages() error {
	p.m.Images = make([]Image, len(p.doc.Images))
	for i, raw := range p.doc.Images {
		path := pointer("/images", i)
		var w wireImage
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		img := Image{Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}

		// The view is bounds-checked even when a uri takes precedence over it.
		view, err := resolveOpt[BufferView](w.BufferView, len(p.m.BufferViews), pointer(path, "bufferView"))
		if err != nil {
			return err
		}
		if w.MimeType != nil {
			mime, err := ParseImageMIME(*w.MimeType)
			if err != nil {
				return enumError(pointer(path, "mimeType"), err)
			}
			img.MIMEType = &mime
		}

		switch {
		case w.URI != nil:
			u, err := parseURI(*w.URI, pointer(path, "uri"))
			if err != nil {
				return err
			}
			img.Source = ImageURI{URI: u}
		case view != nil:
			if img.MIMEType == nil {
				return newError(ErrSchema, pointer(path, "mimeType"), "mimeType is required for images stored in a buffer view")
			}
			img.Source = ImageBufferView{View: *view}
		default:
			return newError(ErrSchema, path, "image needs a uri or a bufferView")
		}
		p.m.Images[i] = img
	}
	return nil
}

func (p *parser) parseTextures() error {
	p.m.Textures = make([]Texture, len(p.doc.Textures))
	for i, raw := range p.doc.Textures {
		path := pointer("/textures", i)
		var w wireTexture
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		sampler, err := resolveOpt[Sampler](w.Sampler, len(p.m.Samplers), pointer(path, "sampler"))
		if err != nil {
			return err
		}
		source, err := resolveOpt[Image](w.Source, len(p.m.Images), pointer(path, "source"))
		if err != nil {
			return err
		}
		p.m.Textures[i] = Texture{Sampler: sampler, Source: source, Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
	}
	return nil
}

func (p *parser) parseMaterials() error {
	p.m.Materials = make([]Material, len(p.doc.Materials))
	for i, raw := range p.doc.Materials {
		path := pointer("/materials", i)
		var w wireMaterial
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		mat := Material{
			Name:        w.Name,
			AlphaCutoff: w.AlphaCutoff,
			DoubleSided: deref(w.DoubleSided),
			Extensions:  w.Extensions,
			Extras:      w.Extras,
		}
		var err error

		if pbr := w.PBRMetallicRoughness; pbr != nil {
			pbrPath := pointer(path, "pbrMetallicRoughness")
			mat.PBRMetallicRoughness = PBRMetallicRoughness{
				MetallicFactor:  pbr.MetallicFactor,
				RoughnessFactor: pbr.RoughnessFactor,
				Extensions:      pbr.Extensions,
				Extras:          pbr.Extras,
			}
			if mat.PBRMetallicRoughness.BaseColorFactor, err = vec4(pbr.BaseColorFactor, pointer(pbrPath, "baseColorFactor")); err != nil {
				return err
			}
			if mat.PBRMetallicRoughness.BaseColorTexture, err = p.textureInfo(pbr.BaseColorTexture, pointer(pbrPath, "baseColorTexture")); err != nil {
				return err
			}
			if mat.PBRMetallicRoughness.MetallicRoughnessTexture, err = p.textureInfo(pbr.MetallicRoughnessTexture, pointer(pbrPath, "metallicRoughnessTexture")); err != nil {
				return err
			}
		}

		if w.NormalTexture != nil {
			info, err := p.textureInfo(w.NormalTexture, pointer(path, "normalTexture"))
			if err != nil {
				return err
			}
			mat.NormalTexture = &NormalTextureInfo{TextureInfo: *info, Scale: w.NormalTexture.Scale}
		}
		if w.OcclusionTexture != nil {
			info, err := p.textureInfo(w.OcclusionTexture, pointer(path, "occlusionTexture"))
			if err != nil {
				return err
			}
			mat.OcclusionTexture = &OcclusionTextureInfo{TextureInfo: *info, Strength: w.OcclusionTexture.Strength}
		}
		if mat.EmissiveTexture, err = p.textureInfo(w.EmissiveTexture, pointer(path, "emissiveTexture")); err != nil {
			return err
		}
		if mat.EmissiveFactor, err = vec3(w.EmissiveFactor, pointer(path, "emissiveFactor")); err != nil {
			return err
		}
		if w.AlphaMode != nil {
			if mat.AlphaMode, err = ParseAlphaMode(*w.AlphaMode); err != nil {
				return enumError(pointer(path, "alphaMode"), err)
			}
		}
		p.m.Materials[i] = mat
	}
	return nil
}

// textureInfo resolves a texture reference; nil in, nil out.
func (p *parser) textureInfo(w *wireTextureInfo, path string) (*TextureInfo, error) {
	if w == nil {
		return nil, nil
	}
	idx, err := required(w.Index, path, "index")
	if err != nil {
		return nil, err
	}
	tex, err := resolve[Texture](idx, len(p.m.Textures), pointer(path, "index"))
	if err != nil {
		return nil, err
	}
	return &TextureInfo{
		Index:      tex,
		TexCoord:   deref(w.TexCoord),
		Extensions: w.Extensions,
		Extras:     w.Extras,
	}, nil
}

func (p *parser) parseMeshes() error {
	p.m.Meshes = make([]Mesh, len(p.doc.Meshes))
	for i, raw := range p.doc.Meshes {
		path := pointer("/meshes", i)
		var w wireMesh
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		if w.Primitives == nil {
			return newError(ErrSchema, pointer(path, "primitives"), "missing required field %q", "primitives")
		}
		mesh := Mesh{
			Primitives: make([]Primitive, len(w.Primitives)),
			Weights:    w.Weights,
			Name:       w.Name,
			Extensions: w.Extensions,
			Extras:     w.Extras,
		}
		for j, rawPrim := range w.Primitives {
			prim, err := p.parsePrimitive(rawPrim, pointer(path, "primitives", j))
			if err != nil {
				return err
			}
			mesh.Primitives[j] = prim
		}
		p.m.Meshes[i] = mesh
	}
	return nil
}

func (p *parser) parsePrimitive(raw json.RawMessage, path string) (Primitive, error) {
	var w wirePrimitive
	if err := decodeElement(raw, &w, path); err != nil {
		return Primitive{}, err
	}
	if w.Attributes == nil {
		return Primitive{}, newError(ErrSchema, pointer(path, "attributes"), "missing required field %q", "attributes")
	}

	prim := Primitive{
		Attributes: make(map[Attribute]Ref[Accessor], len(w.Attributes)),
		Mode:       ModeTriangles,
		Extensions: w.Extensions,
		Extras:     w.Extras,
	}
	// Sorted so the reported error does not depend on map order.
	for _, name := range slices.Sorted(maps.Keys(w.Attributes)) {
		attrPath := pointer(path, "attributes", name)
		attr, err := ParseAttribute(name)
		if err != nil {
			return Primitive{}, enumError(attrPath, err)
		}
		ref, err := resolve[Accessor](w.Attributes[name], len(p.m.Accessors), attrPath)
		if err != nil {
			return Primitive{}, err
		}
		prim.Attributes[attr] = ref
	}

	var err error
	if prim.Indices, err = resolveOpt[Accessor](w.Indices, len(p.m.Accessors), pointer(path, "indices")); err != nil {
		return Primitive{}, err
	}
	if prim.Material, err = resolveOpt[Material](w.Material, len(p.m.Materials), pointer(path, "material")); err != nil {
		return Primitive{}, err
	}
	if w.Mode != nil {
		if prim.Mode, err = ParsePrimitiveMode(*w.Mode); err != nil {
			return Primitive{}, enumError(pointer(path, "mode"), err)
		}
	}

	if w.Targets != nil {
		prim.Targets = make([]MorphTarget, len(w.Targets))
		for t, target := range w.Targets {
			mt := make(MorphTarget, len(target))
			for _, name := range slices.Sorted(maps.Keys(target)) {
				targetPath := pointer(path, "targets", t, name)
				attr, err := ParseMorphTargetAttribute(name)
				if err != nil {
					return Primitive{}, enumError(targetPath, err)
				}
				ref, err := resolve[Accessor](target[name], len(p.m.Accessors), targetPath)
				if err != nil {
					return Primitive{}, err
				}
				mt[attr] = ref
			}
			prim.Targets[t] = mt
		}
	}
	return prim, nil
}

// parseSkins builds skins without their node references; patchJoints fills those in.
func (p *parser) parseSkins() error {
	p.m.Skins = make([]Skin, len(p.doc.Skins))
	p.wireSkins = make([]wireSkin, len(p.doc.Skins))
	for i, raw := range p.doc.Skins {
		path := pointer("/skins", i)
		w := &p.wireSkins[i]
		if err := decodeElement(raw, w, path); err != nil {
			return err
		}
		if w.Joints == nil {
			return newError(ErrSchema, pointer(path, "joints"), "missing required field %q", "joints")
		}
		ibm, err := resolveOpt[Accessor](w.InverseBindMatrices, len(p.m.Accessors), pointer(path, "inverseBindMatrices"))
		if err != nil {
			return err
		}
		p.m.Skins[i] = Skin{InverseBindMatrices: ibm, Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
	}
	return nil
}

// parseNodes builds nodes without children; patchChildren fills those in.
func (p *parser) parseNodes() error {
	p.m.Nodes = make([]Node, len(p.doc.Nodes))
	p.wireNodes = make([]wireNode, len(p.doc.Nodes))
	for i, raw := range p.doc.Nodes {
		path := pointer("/nodes", i)
		w := &p.wireNodes[i]
		if err := decodeElement(raw, w, path); err != nil {
			return err
		}
		node := Node{Weights: w.Weights, Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
		var err error
		if node.Camera, err = resolveOpt[Camera](w.Camera, len(p.m.Cameras), pointer(path, "camera")); err != nil {
			return err
		}
		if node.Skin, err = resolveOpt[Skin](w.Skin, len(p.m.Skins), pointer(path, "skin")); err != nil {
			return err
		}
		if node.Mesh, err = resolveOpt[Mesh](w.Mesh, len(p.m.Meshes), pointer(path, "mesh")); err != nil {
			return err
		}
		if node.Transform, err = parseTransform(w, path); err != nil {
			return err
		}
		p.m.Nodes[i] = node
	}
	return nil
}

// parseTransform picks the matrix when present, TRS otherwise.
func parseTransform(w *wireNode, path string) (Transform, error) {
	if w.Matrix != nil {
		if len(w.Matrix) != 16 {
			return nil, newError(ErrSchema, pointer(path, "matrix"), "expected 16 numbers, got %d", len(w.Matrix))
		}
		var m mgl32.Mat4
		copy(m[:], w.Matrix)
		return MatrixTransform{Matrix: m}, nil
	}
	var trs TRS
	var err error
	if trs.Translation, err = vec3(w.Translation, pointer(path, "translation")); err != nil {
		return nil, err
	}
	if trs.Rotation, err = quat(w.Rotation, pointer(path, "rotation")); err != nil {
		return nil, err
	}
	if trs.Scale, err = vec3(w.Scale, pointer(path, "scale")); err != nil {
		return nil, err
	}
	return trs, nil
}

func (p *parser) patchChildren() error {
	for i := range p.wireNodes {
		children, err := resolveAll[Node](p.wireNodes[i].Children, len(p.m.Nodes), pointer("/nodes", i, "children"))
		if err != nil {
			return err
		}
		p.m.Nodes[i].Children = children
	}
	return nil
}

func (p *parser) patchJoints() error {
	for i := range p.wireSkins {
		w := &p.wireSkins[i]
		path := pointer("/skins", i)
		skeleton, err := resolveOpt[Node](w.Skeleton, len(p.m.Nodes), pointer(path, "skeleton"))
		if err != nil {
			return err
		}
		joints, err := resolveAll[Node](w.Joints, len(p.m.Nodes), pointer(path, "joints"))
		if err != nil {
			return err
		}
		p.m.Skins[i].Skeleton = skeleton
		p.m.Skins[i].Joints = joints
	}
	return nil
}

func (p *parser) parseAnimations() error {
	p.m.Animations = make([]Animation, len(p.doc.Animations))
	for i, raw := range p.doc.Animations {
		path := pointer("/animations", i)
		var w wireAnimation
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		if w.Samplers == nil {
			return newError(ErrSchema, pointer(path, "samplers"), "missing required field %q", "samplers")
		}
		if w.Channels == nil {
			return newError(ErrSchema, pointer(path, "channels"), "missing required field %q", "channels")
		}
		anim := Animation{
			Samplers:   make([]AnimationSampler, len(w.Samplers)),
			Channels:   make([]Channel, len(w.Channels)),
			Name:       w.Name,
			Extensions: w.Extensions,
			Extras:     w.Extras,
		}
		for j, rawSampler := range w.Samplers {
			s, err := p.parseAnimationSampler(rawSampler, pointer(path, "samplers", j))
			if err != nil {
				return err
			}
			anim.Samplers[j] = s
		}
		for j, rawChannel := range w.Channels {
			c, err := p.parseChannel(rawChannel, len(anim.Samplers), pointer(path, "channels", j))
			if err != nil {
				return err
			}
			anim.Channels[j] = c
		}
		p.m.Animations[i] = anim
	}
	return nil
}

func (p *parser) parseAnimationSampler(raw json.RawMessage, path string) (AnimationSampler, error) {
	var w wireAnimationSampler
	if err := decodeElement(raw, &w, path); err != nil {
		return AnimationSampler{}, err
	}
	inIdx, err := required(w.Input, path, "input")
	if err != nil {
		return AnimationSampler{}, err
	}
	input, err := resolve[Accessor](inIdx, len(p.m.Accessors), pointer(path, "input"))
	if err != nil {
		return AnimationSampler{}, err
	}
	outIdx, err := required(w.Output, path, "output")
	if err != nil {
		return AnimationSampler{}, err
	}
	output, err := resolve[Accessor](outIdx, len(p.m.Accessors), pointer(path, "output"))
	if err != nil {
		return AnimationSampler{}, err
	}
	s := AnimationSampler{Input: input, Output: output, Interpolation: InterpolationLinear, Extensions: w.Extensions, Extras: w.Extras}
	if w.Interpolation != nil {
		if s.Interpolation, err = ParseInterpolation(*w.Interpolation, p.cfg.distinctInterpolation); err != nil {
			return AnimationSampler{}, enumError(pointer(path, "interpolation"), err)
		}
	}
	return s, nil
}

func (p *parser) parseChannel(raw json.RawMessage, samplers int, path string) (Channel, error) {
	var w wireChannel
	if err := decodeElement(raw, &w, path); err != nil {
		return Channel{}, err
	}
	idx, err := required(w.Sampler, path, "sampler")
	if err != nil {
		return Channel{}, err
	}
	sampler, err := resolve[AnimationSampler](idx, samplers, pointer(path, "sampler"))
	if err != nil {
		return Channel{}, err
	}
	target, err := required(w.Target, path, "target")
	if err != nil {
		return Channel{}, err
	}
	targetPath := pointer(path, "target")
	node, err := resolveOpt[Node](target.Node, len(p.m.Nodes), pointer(targetPath, "node"))
	if err != nil {
		return Channel{}, err
	}
	rawPath, err := required(target.Path, targetPath, "path")
	if err != nil {
		return Channel{}, err
	}
	channelPath, err := ParseChannelPath(rawPath)
	if err != nil {
		return Channel{}, enumError(pointer(targetPath, "path"), err)
	}
	return Channel{
		Sampler:    sampler,
		Target:     ChannelTarget{Node: node, Path: channelPath},
		Extensions: w.Extensions,
		Extras:     w.Extras,
	}, nil
}

func (p *parser) parseScenes() error {
	p.m.Scenes = make([]Scene, len(p.doc.Scenes))
	for i, raw := range p.doc.Scenes {
		path := pointer("/scenes", i)
		var w wireScene
		if err := decodeElement(raw, &w, path); err != nil {
			return err
		}
		nodes, err := resolveAll[Node](w.Nodes, len(p.m.Nodes), pointer(path, "nodes"))
		if err != nil {
			return err
		}
		p.m.Scenes[i] = Scene{Nodes: nodes, Name: w.Name, Extensions: w.Extensions, Extras: w.Extras}
	}
	return nil
}

// parseRoot fills the asset block, the default scene and the root level lists.
func (p *parser) parseRoot() error {
	if isAbsent(p.doc.Asset) {
		return newError(ErrSchema, "/asset", "missing required field %q", "asset")
	}
	var w wireAsset
	if err := decodeElement(p.doc.Asset, &w, "/asset"); err != nil {
		return err
	}
	version, err := required(w.Version, "/asset", "version")
	if err != nil {
		return err
	}
	p.m.Asset = Asset{
		Copyright:  w.Copyright,
		Generator:  w.Generator,
		Version:    version,
		MinVersion: w.MinVersion,
		Extensions: w.Extensions,
		Extras:     w.Extras,
	}

	if p.m.Scene, err = resolveOpt[Scene](p.doc.Scene, len(p.m.Scenes), "/scene"); err != nil {
		return err
	}
	p.m.ExtensionsUsed = p.doc.ExtensionsUsed
	p.m.ExtensionsRequired = p.doc.ExtensionsRequired
	p.m.Extensions = p.doc.Extensions
	p.m.Extras = p.doc.Extras
	return nil
}

// decodeElement unmarshals one JSON value, reporting shape errors at path.
func decodeElement(raw json.RawMessage, v any, path string) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return schemaError(path, err)
	}
	return nil
}

// schemaError converts a decoding failure into an *Error, extending path with
// the offending field when the decoder reports one.
func schemaError(path string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			for _, tok := range strings.Split(typeErr.Field, ".") {
				path = pointer(path, tok)
			}
		}
		return &Error{Kind: ErrSchema, Path: path, Msg: fmt.Sprintf("cannot use %s as %v", typeErr.Value, typeErr.Type)}
	}
	return &Error{Kind: ErrSchema, Path: path, Err: err}
}

func enumError(path string, err error) error {
	return &Error{Kind: ErrInvalidEnum, Path: path, Err: err}
}

func parseURI(raw, path string) (uri.URI, error) {
	u, err := uri.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: ErrURI, Path: path, Err: err}
	}
	return u, nil
}

// required dereferences a mandatory field.
func required[T any](v *T, path, field string) (T, error) {
	if v == nil {
		var zero T
		return zero, newError(ErrSchema, pointer(path, field), "missing required field %q", field)
	}
	return *v, nil
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// isAbsent reports whether a raw member was missing or null.
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func parseNumbers(lits []json.RawMessage, path string) ([]Number, error) {
	if lits == nil {
		return nil, nil
	}
	out := make([]Number, len(lits))
	for i, lit := range lits {
		n, err := numberLiteral(lit, pointer(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// numberLiteral parses a raw JSON value that must be a number literal.
// Strings holding digits are rejected.
func numberLiteral(raw json.RawMessage, path string) (Number, error) {
	lit := strings.TrimSpace(string(raw))
	if lit == "" || (lit[0] != '-' && (lit[0] < '0' || lit[0] > '9')) {
		return Number{}, newError(ErrSchema, path, "expected a number, got %s", lit)
	}
	n, err := parseNumber(json.Number(lit))
	if err != nil {
		return Number{}, &Error{Kind: ErrSchema, Path: path, Err: err}
	}
	return n, nil
}

func requiredNumber(raw json.RawMessage, path, field string) (Number, error) {
	if isAbsent(raw) {
		return Number{}, newError(ErrSchema, pointer(path, field), "missing required field %q", field)
	}
	return numberLiteral(raw, pointer(path, field))
}

func optionalNumber(raw json.RawMessage, path, field string) (*Number, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	n, err := numberLiteral(raw, pointer(path, field))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Fixed size vectors. Any other length is a schema error.

func vec3(v []float32, path string) (*mgl32.Vec3, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 3 {
		return nil, newError(ErrSchema, path, "expected 3 numbers, got %d", len(v))
	}
	return &mgl32.Vec3{v[0], v[1], v[2]}, nil
}

func vec4(v []float32, path string) (*mgl32.Vec4, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 4 {
		return nil, newError(ErrSchema, path, "expected 4 numbers, got %d", len(v))
	}
	return &mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
}

// quat converts a glTF [x, y, z, w] rotation.
func quat(v []float32, path string) (*mgl32.Quat, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 4 {
		return nil, newError(ErrSchema, path, "expected 4 numbers, got %d", len(v))
	}
	return &mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}, nil
}
