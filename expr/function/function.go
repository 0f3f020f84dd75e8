// Package function implements the engine's closed enumeration of built-in
// functions: named operations with a fixed arity policy, a determinism flag,
// and a pure Apply that never errors — arity violations and type mismatches
// both resolve to value.InvalidValue(), per spec §4.3/§7.
package function

import "github.com/gridflow/gridflow/value"

// Arity describes how many arguments a Function accepts. Max == -1 means
// unbounded ("Any"); Min == Max means a fixed arity.
type Arity struct {
	Min int
	Max int // -1 for unbounded
}

// Fixed returns an Arity accepting exactly n arguments.
func Fixed(n int) Arity { return Arity{Min: n, Max: n} }

// Between returns an Arity accepting between a and b arguments, inclusive.
func Between(a, b int) Arity { return Arity{Min: a, Max: b} }

// Any returns an Arity accepting any number of arguments at least min.
func Any(min int) Arity { return Arity{Min: min, Max: -1} }

// Accepts reports whether n arguments satisfy a.
func (a Arity) Accepts(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max == -1 || n <= a.Max
}

// Function is a named operation over Values with a declared Arity.
type Function interface {
	// Name is the canonical, case-preserved function name.
	Name() string
	// Arity describes the accepted argument count.
	Arity() Arity
	// Deterministic is false for functions whose result depends on
	// something other than their arguments (Random, RandomBetween,
	// RandomItem).
	Deterministic() bool
	// Apply evaluates the function. An arity violation yields Invalid,
	// never an error.
	Apply(args []value.Value) value.Value
}

// simpleFn adapts a name/arity/determinism/apply tuple into a Function,
// avoiding a bespoke type per built-in.
type simpleFn struct {
	name          string
	arity         Arity
	deterministic bool
	apply         func([]value.Value) value.Value
}

func (f simpleFn) Name() string          { return f.name }
func (f simpleFn) Arity() Arity          { return f.arity }
func (f simpleFn) Deterministic() bool   { return f.deterministic }
func (f simpleFn) Apply(a []value.Value) value.Value {
	if !f.arity.Accepts(len(a)) {
		return value.InvalidValue()
	}
	return f.apply(a)
}

func newFn(name string, arity Arity, apply func([]value.Value) value.Value) Function {
	return simpleFn{name: name, arity: arity, deterministic: true, apply: apply}
}

func newNonDeterministicFn(name string, arity Arity, apply func([]value.Value) value.Value) Function {
	return simpleFn{name: name, arity: arity, deterministic: false, apply: apply}
}

// Registry is the closed set of built-in functions, keyed by canonical
// (case-preserved) name. Locale function tables (§6) map their own names
// onto entries of this registry.
var Registry = map[string]Function{}

func register(fns ...Function) {
	for _, f := range fns {
		Registry[f.Name()] = f
	}
}

// Lookup finds a built-in function by case-insensitive name, per §4.5
// ("Function names match case-insensitively against the locale's function
// table").
func Lookup(name string) (Function, bool) {
	for n, f := range Registry {
		if equalFold(n, name) {
			return f, true
		}
	}
	return nil, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
