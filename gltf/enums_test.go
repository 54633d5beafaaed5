package gltf

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/uri"
)

func TestParseComponentType(t *testing.T) {
	tests := []struct {
		code    int
		want    ComponentType
		size    int
		wantErr bool
	}{
		{5120, ComponentByte, 1, false},
		{5121, ComponentUnsignedByte, 1, false},
		{5122, ComponentShort, 2, false},
		{5123, ComponentUnsignedShort, 2, false},
		{5125, ComponentUnsignedInt, 4, false},
		{5126, ComponentFloat, 4, false},
		{5124, 0, 0, true},
		{5127, 0, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseComponentType(tt.code)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidEnum) {
				t.Errorf("ParseComponentType(%d) err = %v, want ErrInvalidEnum", tt.code, err)
			}
			continue
		}
		if err != nil || got != tt.want || got.Size() != tt.size {
			t.Errorf("ParseComponentType(%d) = %v (size %d), %v", tt.code, got, got.Size(), err)
		}
	}
}

func TestParseAccessorTypeComponents(t *testing.T) {
	tests := map[string]int{
		"SCALAR": 1, "VEC2": 2, "VEC3": 3, "VEC4": 4, "MAT2": 4, "MAT3": 9, "MAT4": 16,
	}
	for name, components := range tests {
		got, err := ParseAccessorType(name)
		if err != nil {
			t.Fatalf("ParseAccessorType(%s): %v", name, err)
		}
		if got.String() != name || got.Components() != components {
			t.Errorf("%s: String() = %s, Components() = %d", name, got, got.Components())
		}
	}
	if _, err := ParseAccessorType("vec3"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("lowercase accessor type err = %v", err)
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in       string
		distinct bool
		want     Interpolation
	}{
		{"LINEAR", false, InterpolationLinear},
		{"STEP", false, InterpolationLinear},
		{"CATMULLROMSPLINE", false, InterpolationLinear},
		{"CUBICSPLINE", false, InterpolationCubicSpline},
		{"STEP", true, InterpolationStep},
		{"CATMULLROMSPLINE", true, InterpolationCatmullRomSpline},
		{"CUBICSPLINE", true, InterpolationCubicSpline},
	}
	for _, tt := range tests {
		got, err := ParseInterpolation(tt.in, tt.distinct)
		if err != nil || got != tt.want {
			t.Errorf("ParseInterpolation(%s, %v) = %v, %v; want %v", tt.in, tt.distinct, got, err, tt.want)
		}
	}
	if _, err := ParseInterpolation("linear", false); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("lowercase interpolation err = %v", err)
	}
}

func TestParseCodeEnums(t *testing.T) {
	if f, err := ParseMinFilter(9986); err != nil || f != MinNearestMipmapLinear || f.String() != "NEAREST_MIPMAP_LINEAR" {
		t.Errorf("ParseMinFilter(9986) = %v, %v", f, err)
	}
	if _, err := ParseMagFilter(9984); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("mag filter mipmap code err = %v", err)
	}
	if w, err := ParseWrapMode(33648); err != nil || w != MirroredRepeat {
		t.Errorf("ParseWrapMode(33648) = %v, %v", w, err)
	}
	if tgt, err := ParseBufferViewTarget(34963); err != nil || tgt != ElementArrayBuffer {
		t.Errorf("ParseBufferViewTarget(34963) = %v, %v", tgt, err)
	}
	for code := 0; code <= 6; code++ {
		if m, err := ParsePrimitiveMode(code); err != nil || int(m) != code {
			t.Errorf("ParsePrimitiveMode(%d) = %v, %v", code, m, err)
		}
	}
	if _, err := ParsePrimitiveMode(-1); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("primitive mode -1 err = %v", err)
	}
}

func TestParseNameEnums(t *testing.T) {
	if a, err := ParseAttribute("TEXCOORD_1"); err != nil || a != AttributeTexCoord1 {
		t.Errorf("ParseAttribute(TEXCOORD_1) = %v, %v", a, err)
	}
	if _, err := ParseAttribute("TEXCOORD_2"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("TEXCOORD_2 err = %v", err)
	}
	if _, err := ParseMorphTargetAttribute("TEXCOORD_0"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("morph TEXCOORD_0 err = %v", err)
	}
	if p, err := ParseChannelPath("weights"); err != nil || p != PathWeights {
		t.Errorf("ParseChannelPath(weights) = %v, %v", p, err)
	}
	if a, err := ParseAlphaMode("BLEND"); err != nil || a != AlphaBlend {
		t.Errorf("ParseAlphaMode(BLEND) = %v, %v", a, err)
	}
	m, err := ParseImageMIME("image/jpeg")
	if err != nil || m != ImageJPEG || m.MIMEType() != uri.ImageJPEG {
		t.Errorf("ParseImageMIME(image/jpeg) = %v, %v", m, err)
	}
}

func TestEnumStringFallback(t *testing.T) {
	if got := ComponentType(1).String(); got != "gltf.ComponentType(1)" {
		t.Errorf("unknown component type String() = %q", got)
	}
}
