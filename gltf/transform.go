package gltf

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LocalMatrix returns the node's transform relative to its parent.
// A TRS transform composes to T * R * S with absent parts as identity.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	switch t := n.Transform.(type) {
	case MatrixTransform:
		return t.Matrix
	case TRS:
		m := mgl32.Ident4()
		if t.Translation != nil {
			m = mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
		}
		if t.Rotation != nil {
			m = m.Mul4(t.Rotation.Normalize().Mat4())
		}
		if t.Scale != nil {
			m = m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
		}
		return m
	default:
		return mgl32.Ident4()
	}
}

// WorldMatrices walks a scene from its roots and returns the world transform
// of every node reached, keyed by node. A node reachable through several
// parents gets the transform of the first path found.
//
// Parameters:
//   - scene: the scene to walk
//
// Returns:
//   - map[Ref[Node]]mgl32.Mat4: world transform per reached node
//   - error: an error wrapping ErrCycle if a node is its own ancestor
func (m *Model) WorldMatrices(scene Ref[Scene]) (map[Ref[Node]]mgl32.Mat4, error) {
	world := make(map[Ref[Node]]mgl32.Mat4)
	onPath := make(map[Ref[Node]]bool)

	var visit func(ref Ref[Node], parent mgl32.Mat4, path string) error
	visit = func(ref Ref[Node], parent mgl32.Mat4, path string) error {
		if onPath[ref] {
			return newError(ErrCycle, path, "node %d is its own ancestor", ref.Index())
		}
		if _, seen := world[ref]; seen {
			// Already placed through an earlier path, along with its subtree.
			return nil
		}
		node := m.Node(ref)
		mat := parent.Mul4(node.LocalMatrix())
		world[ref] = mat

		onPath[ref] = true
		defer delete(onPath, ref)
		for _, child := range node.Children {
			if err := visit(child, mat, pointer("/nodes", child.Index())); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range m.SceneAt(scene).Nodes {
		if err := visit(root, mgl32.Ident4(), pointer("/nodes", root.Index())); err != nil {
			return nil, err
		}
	}
	return world, nil
}
