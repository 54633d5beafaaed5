// Package common contains small helpers shared by the loader, the model layer and the command line tools.
package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ValueOr dereferences p, falling back to def when p is nil.
// Optional glTF fields are modelled as pointers; this resolves them against their documented default.
//
// Parameters:
//   - p: the optional value
//   - def: the value used when p is nil
//
// Returns:
//   - T: *p or def
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
