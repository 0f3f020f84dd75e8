// Package value implements the engine's scalar value model: a small tagged
// union with string/int/double/bool/empty/invalid variants, and the
// arithmetic, comparison and coercion rules that every other layer of the
// engine builds on.
package value

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	Invalid Kind = iota
	String
	Int
	Double
	Bool
	Empty
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Double:
		return "double"
	case Bool:
		return "bool"
	case Empty:
		return "empty"
	default:
		return "invalid"
	}
}

// Value is the NaN-aware scalar carried through rows, expressions and
// aggregations. The zero Value is Invalid, so an uninitialized Value never
// silently reads as Empty.
type Value struct {
	kind Kind
	s    string
	i    int64
	d    float64
	b    bool
}

// NewString constructs a String value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewInt constructs an Int value.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewDouble constructs a Double value. Non-finite input (NaN, +/-Inf)
// collapses to Invalid, per §3.
func NewDouble(d float64) Value {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return InvalidValue()
	}
	return Value{kind: Double, d: d}
}

// NewBool constructs a Bool value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// EmptyValue is the legitimate, non-poisoning absent value.
func EmptyValue() Value { return Value{kind: Empty} }

// InvalidValue is the NaN-of-this-system: it poisons arithmetic and
// comparisons that touch it.
func InvalidValue() Value { return Value{kind: Invalid} }

// Kind reports which variant is held.
func (v Value) Kind() Kind { return v.kind }

// IsInvalid reports whether v is the Invalid variant.
func (v Value) IsInvalid() bool { return v.kind == Invalid }

// IsEmpty reports whether v is the Empty variant.
func (v Value) IsEmpty() bool { return v.kind == Empty }

// AsString coerces v to its string form. Every variant coerces; only Invalid
// fails.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case String:
		return v.s, true
	case Int:
		return strconv.FormatInt(v.i, 10), true
	case Double:
		return strconv.FormatFloat(v.d, 'g', -1, 64), true
	case Bool:
		if v.b {
			return "true", true
		}
		return "false", true
	case Empty:
		return "", true
	default:
		return "", false
	}
}

// AsDouble coerces v to a float64.
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Double:
		return v.d, true
	case Bool:
		if v.b {
			return 1, true
		}
		return 0, true
	case Empty:
		return 0, true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt coerces v to an int64, truncating doubles toward zero.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case Int:
		return v.i, true
	case Empty:
		return 0, true
	default:
		f, ok := v.AsDouble()
		if !ok {
			return 0, false
		}
		return int64(f), true
	}
}

// AsBool coerces v to a bool. Numeric zero and empty string are false;
// anything else non-empty is true.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case Bool:
		return v.b, true
	case Int:
		return v.i != 0, true
	case Double:
		return v.d != 0, true
	case Empty:
		return false, true
	case String:
		return v.s != "", true
	default:
		return false, false
	}
}

// isNumeric reports whether v coerces cleanly to a number.
func (v Value) isNumeric() bool {
	switch v.kind {
	case Int, Double, Bool, Empty:
		return true
	case String:
		_, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return err == nil
	default:
		return false
	}
}

func bothNumeric(a, b Value) bool { return a.isNumeric() && b.isNumeric() }

// Add implements `+`. Division semantics aside, all arithmetic ops share the
// same poisoning and coercion behavior, so they are expressed in terms of a
// small double-coerce helper.
func (v Value) Add(o Value) Value { return arith(v, o, func(a, b float64) float64 { return a + b }) }

// Sub implements `-`.
func (v Value) Sub(o Value) Value { return arith(v, o, func(a, b float64) float64 { return a - b }) }

// Mul implements `*`.
func (v Value) Mul(o Value) Value { return arith(v, o, func(a, b float64) float64 { return a * b }) }

// Div implements `/`. Division by zero yields Invalid rather than +/-Inf.
func (v Value) Div(o Value) Value {
	return arith(v, o, func(a, b float64) float64 {
		if b == 0 {
			return math.NaN()
		}
		return a / b
	})
}

// Mod implements `%`.
func (v Value) Mod(o Value) Value {
	return arith(v, o, func(a, b float64) float64 {
		if b == 0 {
			return math.NaN()
		}
		return math.Mod(a, b)
	})
}

// Pow implements `^`.
func (v Value) Pow(o Value) Value { return arith(v, o, math.Pow) }

func arith(a, b Value, f func(float64, float64) float64) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return InvalidValue()
	}
	if !bothNumeric(a, b) {
		return InvalidValue()
	}
	af, _ := a.AsDouble()
	bf, _ := b.AsDouble()
	return NewDouble(f(af, bf))
}

// Concat implements `&`: string-coerce both sides and join them. Any
// Invalid operand poisons the result.
func (v Value) Concat(o Value) Value {
	if v.IsInvalid() || o.IsInvalid() {
		return InvalidValue()
	}
	as, ok1 := v.AsString()
	bs, ok2 := o.AsString()
	if !ok1 || !ok2 {
		return InvalidValue()
	}
	return NewString(as + bs)
}

// Equal implements `=`. Invalid is never equal to anything, including
// itself. Two numerics compare numerically; otherwise comparison falls back
// to string form.
func (v Value) Equal(o Value) bool {
	if v.IsInvalid() || o.IsInvalid() {
		return false
	}
	if bothNumeric(v, o) {
		af, _ := v.AsDouble()
		bf, _ := o.AsDouble()
		return af == bf
	}
	as, _ := v.AsString()
	bs, _ := o.AsString()
	return as == bs
}

// NotEqual implements `<>`.
func (v Value) NotEqual(o Value) bool { return !v.Equal(o) }

// compareNumeric is the shared machinery for the four ordering operators:
// any Invalid operand makes every ordering comparison false.
func (v Value) compareNumeric(o Value) (cmp int, ok bool) {
	if v.IsInvalid() || o.IsInvalid() {
		return 0, false
	}
	if bothNumeric(v, o) {
		af, _ := v.AsDouble()
		bf, _ := o.AsDouble()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, _ := v.AsString()
	bs, _ := o.AsString()
	return strings.Compare(as, bs), true
}

// Less implements `<`.
func (v Value) Less(o Value) bool {
	c, ok := v.compareNumeric(o)
	return ok && c < 0
}

// LessEqual implements `<=`.
func (v Value) LessEqual(o Value) bool {
	c, ok := v.compareNumeric(o)
	return ok && c <= 0
}

// Greater implements `>`.
func (v Value) Greater(o Value) bool {
	c, ok := v.compareNumeric(o)
	return ok && c > 0
}

// GreaterEqual implements `>=`.
func (v Value) GreaterEqual(o Value) bool {
	c, ok := v.compareNumeric(o)
	return ok && c >= 0
}

// Contains implements the case-insensitive `contains` binary operator.
func (v Value) Contains(o Value) Value {
	return containsWith(v, o, strings.Contains, func(s string) string { return strings.ToLower(s) })
}

// ContainsStrict implements the case-sensitive `contains_strict` operator.
func (v Value) ContainsStrict(o Value) Value {
	return containsWith(v, o, strings.Contains, func(s string) string { return s })
}

func containsWith(v, o Value, contains func(s, substr string) bool, fold func(string) string) Value {
	if v.IsInvalid() || o.IsInvalid() {
		return InvalidValue()
	}
	as, ok1 := v.AsString()
	bs, ok2 := o.AsString()
	if !ok1 || !ok2 {
		return InvalidValue()
	}
	return NewBool(contains(fold(as), fold(bs)))
}

// Hash returns a content hash equal to the hash of v's canonical string form,
// so that values which compare string-equal also hash equal.
func (v Value) Hash() uint64 {
	s, ok := v.AsString()
	if !ok {
		s = "\x00invalid"
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// String renders a debug form; it is not used for coercion.
func (v Value) String() string {
	switch v.kind {
	case Empty:
		return "<empty>"
	case Invalid:
		return "<invalid>"
	default:
		s, _ := v.AsString()
		return fmt.Sprintf("%s(%s)", v.kind, s)
	}
}
