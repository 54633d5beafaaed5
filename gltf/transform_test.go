package gltf

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLocalMatrix(t *testing.T) {
	translation := mgl32.Vec3{1, 2, 3}
	scale := mgl32.Vec3{2, 2, 2}
	rotation := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	unnormalized := rotation.Scale(3)

	tests := []struct {
		name string
		node Node
		want mgl32.Mat4
	}{
		{"no transform", Node{}, mgl32.Ident4()},
		{"empty trs", Node{Transform: TRS{}}, mgl32.Ident4()},
		{"translation", Node{Transform: TRS{Translation: &translation}}, mgl32.Translate3D(1, 2, 3)},
		{
			"full trs",
			Node{Transform: TRS{Translation: &translation, Rotation: &rotation, Scale: &scale}},
			mgl32.Translate3D(1, 2, 3).Mul4(rotation.Mat4()).Mul4(mgl32.Scale3D(2, 2, 2)),
		},
		{"rotation is normalized", Node{Transform: TRS{Rotation: &unnormalized}}, rotation.Mat4()},
		{"matrix", Node{Transform: MatrixTransform{Matrix: mgl32.Translate3D(5, 6, 7)}}, mgl32.Translate3D(5, 6, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.node.LocalMatrix()
			if !got.ApproxEqualThreshold(tt.want, 1e-5) {
				t.Errorf("LocalMatrix() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorldMatrices(t *testing.T) {
	m := mustParse(t, sceneDocument)

	world, err := m.WorldMatrices(0)
	if err != nil {
		t.Fatalf("WorldMatrices: %v", err)
	}
	if len(world) != 3 {
		t.Fatalf("reached %d nodes, want 3", len(world))
	}

	// node 2 carries its own translation under the root translation.
	got := world[2].Col(3)
	if !got.ApproxEqual(mgl32.Vec4{6, 8, 10, 1}) {
		t.Errorf("node 2 origin = %v", got)
	}
	scaled := world[1].Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !scaled.ApproxEqual(mgl32.Vec4{3, 2, 3, 1}) {
		t.Errorf("node 1 transforms x axis to %v", scaled)
	}

	empty, err := m.WorldMatrices(1)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty scene = %v, %v", empty, err)
	}
}

func TestWorldMatricesDetectsCycles(t *testing.T) {
	m := mustParse(t, `{"asset":{"version":"2.0"},
		"nodes":[{"children":[1]},{"children":[2]},{"children":[1]}],
		"scenes":[{"nodes":[0]}]}`)

	_, err := m.WorldMatrices(0)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	if path, _ := errorPath(err); path != "/nodes/1" {
		t.Errorf("path = %q, want /nodes/1", path)
	}
}

func TestWorldMatricesSharedChild(t *testing.T) {
	m := mustParse(t, `{"asset":{"version":"2.0"},
		"nodes":[{"children":[2],"translation":[1,0,0]},{"children":[2],"translation":[0,1,0]},{}],
		"scenes":[{"nodes":[0,1]}]}`)

	world, err := m.WorldMatrices(0)
	if err != nil {
		t.Fatalf("WorldMatrices: %v", err)
	}
	if got := world[2].Col(3); got != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("shared child takes the first path, got origin %v", got)
	}
}

func TestWorldMatricesLayeredDiamonds(t *testing.T) {
	// Each layer has two nodes, both parents of both nodes in the next layer.
	// A walk that re-enters shared subtrees would visit 2^layers paths.
	const layers = 64
	var nodes []string
	for i := 0; i < layers; i++ {
		children := ""
		if i < layers-1 {
			children = fmt.Sprintf(`"children":[%d,%d],`, 2*i+2, 2*i+3)
		}
		nodes = append(nodes,
			fmt.Sprintf(`{%s"translation":[1,0,0]}`, children),
			fmt.Sprintf(`{%s"translation":[0,1,0]}`, children))
	}
	m := mustParse(t, `{"asset":{"version":"2.0"},"nodes":[`+strings.Join(nodes, ",")+`],"scenes":[{"nodes":[0,1]}]}`)

	world, err := m.WorldMatrices(0)
	if err != nil {
		t.Fatalf("WorldMatrices: %v", err)
	}
	if len(world) != 2*layers {
		t.Fatalf("placed %d nodes, want %d", len(world), 2*layers)
	}
	// The first path always goes through the left node of every layer.
	if got := world[2*layers-1].Col(3); got != (mgl32.Vec4{layers - 1, 1, 0, 1}) {
		t.Errorf("deepest right node origin = %v", got)
	}
}
