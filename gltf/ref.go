package gltf

import "fmt"

// Ref is a typed index into one of the Model's sequences. The type parameter
// only tags the target sequence: a Ref[Node] cannot be passed where a
// Ref[Accessor] is expected. Every Ref inside a parsed Model is in bounds.
type Ref[T any] int

// Index returns the position of the referenced element.
func (r Ref[T]) Index() int {
	return int(r)
}

func (r Ref[T]) String() string {
	var zero T
	return fmt.Sprintf("%T#%d", zero, int(r))
}

// Get returns a pointer to the referenced element of s.
// It panics when r is out of range for s, which cannot happen for refs
// taken from the Model that owns s.
func (r Ref[T]) Get(s []T) *T {
	return &s[r]
}

// resolve bounds-checks raw against a sequence of length n.
func resolve[T any](raw int, n int, path string) (Ref[T], error) {
	if raw < 0 || raw >= n {
		var zero T
		return 0, newError(ErrOutOfRange, path, "index %d out of range for %d %T", raw, n, zero)
	}
	return Ref[T](raw), nil
}

// resolveOpt resolves an optional index, nil meaning absent.
func resolveOpt[T any](raw *int, n int, path string) (*Ref[T], error) {
	if raw == nil {
		return nil, nil
	}
	ref, err := resolve[T](*raw, n, path)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// resolveAll resolves a list of indices. The result is nil when raw is nil.
func resolveAll[T any](raw []int, n int, path string) ([]Ref[T], error) {
	if raw == nil {
		return nil, nil
	}
	refs := make([]Ref[T], len(raw))
	for i, idx := range raw {
		ref, err := resolve[T](idx, n, pointer(path, i))
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}
