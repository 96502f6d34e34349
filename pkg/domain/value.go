package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Scalar is a single local state of an automaton: either a non-negative
// integer index, or a named state identifier resolved by the model backend.
type Scalar struct {
	name  string
	index int
	named bool
}

// IntScalar builds a Scalar from a local state index.
func IntScalar(i int) Scalar {
	return Scalar{index: i}
}

// NameScalar builds a Scalar from a named local state.
func NameScalar(s string) Scalar {
	return Scalar{name: s, named: true}
}

// IsName reports whether the scalar is a named (string) local state.
func (s Scalar) IsName() bool { return s.named }

// Int returns the integer index of the scalar. Zero for named states.
func (s Scalar) Int() int { return s.index }

// Name returns the state name. Empty for integer states.
func (s Scalar) Name() string { return s.name }

// String renders the scalar in the wire form expected by the toolchain
// query grammar: bare digits for integers, double quotes around names.
func (s Scalar) String() string {
	if s.named {
		return strconv.Quote(s.name)
	}
	return strconv.Itoa(s.index)
}

// Value is the initial value assigned to an automaton: a single Scalar, or
// an ordered compound of scalars for automata starting from several local
// states at once. The zero Value is invalid; construct through Int, Str,
// Compound or ValueOf.
type Value struct {
	elems    []Scalar
	compound bool
}

// Int builds a scalar integer Value.
func Int(i int) Value {
	return Value{elems: []Scalar{IntScalar(i)}}
}

// Str builds a scalar named Value.
func Str(s string) Value {
	return Value{elems: []Scalar{NameScalar(s)}}
}

// Compound builds an ordered multi-valued assignment. A compound keeps its
// element order and stays compound even with a single element, so that
// serialization is stable under round-trips.
func Compound(elems ...Scalar) Value {
	cp := make([]Scalar, len(elems))
	copy(cp, elems)
	return Value{elems: cp, compound: true}
}

// ValueOf normalizes a dynamically typed value into a Value. Accepted
// shapes: Value, Scalar, int (and the integral numeric types JSON decoding
// produces), string, and ordered sequences or sets of those. Anything else
// is an *InvalidTypeError.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case Scalar:
		return Value{elems: []Scalar{x}}, nil
	case int:
		return Int(x), nil
	case int64:
		return Int(int(x)), nil
	case float64:
		// JSON numbers decode as float64; only integral values are legal.
		if x != math.Trunc(x) {
			return Value{}, &InvalidTypeError{Value: v}
		}
		return Int(int(x)), nil
	case string:
		return Str(x), nil
	case []int:
		elems := make([]Scalar, len(x))
		for i, e := range x {
			elems[i] = IntScalar(e)
		}
		return Compound(elems...), nil
	case []string:
		elems := make([]Scalar, len(x))
		for i, e := range x {
			elems[i] = NameScalar(e)
		}
		return Compound(elems...), nil
	case []any:
		elems := make([]Scalar, 0, len(x))
		for _, e := range x {
			ev, err := ValueOf(e)
			if err != nil {
				return Value{}, &InvalidTypeError{Value: v}
			}
			if ev.compound {
				return Value{}, &InvalidTypeError{Value: v}
			}
			elems = append(elems, ev.elems[0])
		}
		return Compound(elems...), nil
	case map[int]bool:
		// Set inputs have no intrinsic order; sort for stable normalization.
		keys := make([]int, 0, len(x))
		for k, ok := range x {
			if ok {
				keys = append(keys, k)
			}
		}
		sort.Ints(keys)
		elems := make([]Scalar, len(keys))
		for i, k := range keys {
			elems[i] = IntScalar(k)
		}
		return Compound(elems...), nil
	default:
		return Value{}, &InvalidTypeError{Value: v}
	}
}

// IsCompound reports whether the value is a multi-valued assignment.
func (v Value) IsCompound() bool { return v.compound }

// Scalars returns the ordered elements of the value. A scalar value yields
// a single element.
func (v Value) Scalars() []Scalar {
	cp := make([]Scalar, len(v.elems))
	copy(cp, v.elems)
	return cp
}

// Equal reports structural equality: same shape, same elements in the same
// order.
func (v Value) Equal(o Value) bool {
	if v.compound != o.compound || len(v.elems) != len(o.elems) {
		return false
	}
	for i := range v.elems {
		if v.elems[i] != o.elems[i] {
			return false
		}
	}
	return true
}

// String renders the value for diagnostics. The wire encoding of compound
// values is term-per-element and lives in InitialState.Serialize; here a
// compound renders as a braced list.
func (v Value) String() string {
	if !v.compound {
		if len(v.elems) == 0 {
			return "<invalid>"
		}
		return v.elems[0].String()
	}
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Interface returns the plain Go shape of the value (int, string, or a
// slice of those), convenient for JSON output.
func (v Value) Interface() any {
	scalar := func(s Scalar) any {
		if s.IsName() {
			return s.Name()
		}
		return s.Int()
	}
	if !v.compound {
		return scalar(v.elems[0])
	}
	out := make([]any, len(v.elems))
	for i, e := range v.elems {
		out[i] = scalar(e)
	}
	return out
}
