package gltf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/exp/constraints"
)

// NumberKind tells which representation a Number holds.
type NumberKind int

const (
	NumberInt NumberKind = iota
	NumberUint
	NumberFloat
)

func (k NumberKind) String() string {
	switch k {
	case NumberInt:
		return "int"
	case NumberUint:
		return "uint"
	case NumberFloat:
		return "float"
	default:
		return fmt.Sprintf("NumberKind(%d)", int(k))
	}
}

// Number is a JSON number that remembers whether its literal was a signed
// integer, an unsigned integer or a float. Accessor bounds and camera
// parameters keep this so integer bounds are never rounded through float32.
type Number struct {
	kind NumberKind
	i    int64
	u    uint64
	f    float64
}

// Int returns a signed integer Number.
func Int(v int64) Number { return Number{kind: NumberInt, i: v} }

// Uint returns an unsigned integer Number.
func Uint(v uint64) Number { return Number{kind: NumberUint, u: v} }

// Float returns a floating point Number.
func Float(v float64) Number { return Number{kind: NumberFloat, f: v} }

// Kind returns the stored representation.
func (n Number) Kind() NumberKind { return n.kind }

// AsInteger returns n as a signed integer. Floats and unsigned values above
// math.MaxInt64 have no signed representation.
func (n Number) AsInteger() (int64, bool) {
	switch n.kind {
	case NumberInt:
		return n.i, true
	case NumberUint:
		if n.u > math.MaxInt64 {
			return 0, false
		}
		return int64(n.u), true
	default:
		return 0, false
	}
}

// AsUnsignedInteger returns n as an unsigned integer. Floats and negative
// values have no unsigned representation.
func (n Number) AsUnsignedInteger() (uint64, bool) {
	switch n.kind {
	case NumberUint:
		return n.u, true
	case NumberInt:
		if n.i < 0 {
			return 0, false
		}
		return uint64(n.i), true
	default:
		return 0, false
	}
}

// AsDecimal returns n widened to float64. Every kind converts.
func (n Number) AsDecimal() (float64, bool) {
	switch n.kind {
	case NumberFloat:
		return n.f, true
	case NumberInt:
		return float64(n.i), true
	case NumberUint:
		return float64(n.u), true
	default:
		return 0, false
	}
}

// Float32 is a convenience for the common case of feeding a Number to mgl32.
func (n Number) Float32() float32 {
	f, _ := n.AsDecimal()
	return float32(f)
}

func (n Number) String() string {
	switch n.kind {
	case NumberInt:
		return strconv.FormatInt(n.i, 10)
	case NumberUint:
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}

// MarshalJSON writes the number in its original representation.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.kind == NumberFloat && (math.IsNaN(n.f) || math.IsInf(n.f, 0)) {
		return nil, fmt.Errorf("gltf: cannot marshal %v as JSON", n.f)
	}
	return []byte(n.String()), nil
}

// NumberAs narrows n to T. It reports false when the value does not fit T
// or when an integer T is requested from a float.
//
// Parameters:
//   - n: the number to convert
//
// Returns:
//   - T: the converted value
//   - bool: whether the conversion is exact and in range
func NumberAs[T constraints.Integer | constraints.Float](n Number) (T, bool) {
	var zero T
	half := 0.5
	if T(half) != 0 {
		f, ok := n.AsDecimal()
		if !ok {
			return zero, false
		}
		if v := T(f); !math.IsInf(f, 0) && math.IsInf(float64(v), 0) {
			return zero, false
		}
		return T(f), true
	}

	// T is an integer type. Probe its range through conversion round trips.
	if i, ok := n.AsInteger(); ok {
		v := T(i)
		if int64(v) != i || (i < 0) != (v < 0) {
			return zero, false
		}
		return v, true
	}
	if u, ok := n.AsUnsignedInteger(); ok {
		v := T(u)
		if uint64(v) != u || v < 0 {
			return zero, false
		}
		return v, true
	}
	return zero, false
}

// parseNumber classifies a JSON number literal. A literal with a fraction or
// exponent is a float, a leading minus sign makes it signed, anything else is
// unsigned.
func parseNumber(lit json.Number) (Number, error) {
	s := string(lit)
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Number{}, err
		}
		return Float(f), nil
	}
	if strings.HasPrefix(s, "-") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// Too large for int64 still has a float value.
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return Number{}, err
			}
			return Float(f), nil
		}
		return Int(i), nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return Number{}, err
		}
		return Float(f), nil
	}
	return Uint(u), nil
}
