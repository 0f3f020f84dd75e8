package expr

import (
	"strings"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
)

// Infer produces candidate expressions that, applied to row/cols, yield to.
// from is the expression already chosen for a prior inference step (nil for
// the top-level call). level bounds recursion depth; maxComplexity discards
// anything too large to be a useful suggestion. Per §4.4, exact matches at
// the current frontier are always kept; ties are broken by lower
// Complexity(), and every candidate tied for the minimum is returned.
func Infer(from Expression, to value.Value, row column.Row, cols []column.Column, level, maxComplexity int) []Expression {
	seen := map[uint64]bool{}
	return infer(from, to, row, cols, level, maxComplexity, seen)
}

func infer(from Expression, to value.Value, row column.Row, cols []column.Column, level, maxComplexity int, seen map[uint64]bool) []Expression {
	candidates := suggestAll(from, to, row, cols)

	var exact []Expression
	var inexact []Expression
	for _, c := range candidates {
		if c.Complexity() > maxComplexity {
			continue
		}
		got := c.Apply(row, cols, value.EmptyValue())
		if got.Equal(to) {
			exact = append(exact, c)
		} else {
			inexact = append(inexact, c)
		}
	}

	if level > 0 {
		for _, c := range inexact {
			base := c.Apply(row, cols, value.EmptyValue())
			h := base.Hash()
			if seen[h] {
				continue
			}
			seen[h] = true
			exact = append(exact, infer(c, to, row, cols, level-1, maxComplexity, seen)...)
		}
	}

	return minimalComplexity(exact)
}

// minimalComplexity keeps every candidate tied for the lowest Complexity().
func minimalComplexity(cands []Expression) []Expression {
	if len(cands) == 0 {
		return nil
	}
	best := cands[0].Complexity()
	for _, c := range cands[1:] {
		if c.Complexity() < best {
			best = c.Complexity()
		}
	}
	var out []Expression
	for _, c := range cands {
		if c.Complexity() == best {
			out = append(out, c)
		}
	}
	return out
}

// suggestAll dispatches to each expression kind's `suggest` generator.
func suggestAll(from Expression, to value.Value, row column.Row, cols []column.Column) []Expression {
	var out []Expression
	out = append(out, suggestLiteral(to)...)
	out = append(out, suggestSibling(to, row, cols)...)
	if from != nil {
		out = append(out, suggestBinary(from, to, row, cols)...)
		out = append(out, suggestFunction(from, to, row, cols)...)
	}
	return out
}

func suggestLiteral(to value.Value) []Expression {
	return []Expression{Literal{Val: to}}
}

func suggestSibling(to value.Value, row column.Row, cols []column.Column) []Expression {
	var out []Expression
	for i, c := range cols {
		if row.At(i).Equal(to) {
			out = append(out, Sibling{Col: c})
		}
	}
	return out
}

// suggestBinary proposes addition/subtraction or multiplication/division to
// close the numeric gap between from's current value and to.
func suggestBinary(from Expression, to value.Value, row column.Row, cols []column.Column) []Expression {
	base := from.Apply(row, cols, value.EmptyValue())
	baseF, ok1 := base.AsDouble()
	toF, ok2 := to.AsDouble()
	if !ok1 || !ok2 || base.IsInvalid() || to.IsInvalid() {
		return nil
	}
	var out []Expression
	diff := toF - baseF
	out = append(out, Binary{Op: OpAdd, LHS: from, RHS: Literal{Val: value.NewDouble(diff)}})
	out = append(out, Binary{Op: OpSub, LHS: from, RHS: Literal{Val: value.NewDouble(-diff)}})
	if baseF != 0 {
		ratio := toF / baseF
		out = append(out, Binary{Op: OpMul, LHS: from, RHS: Literal{Val: value.NewDouble(ratio)}})
		if ratio != 0 {
			out = append(out, Binary{Op: OpDiv, LHS: from, RHS: Literal{Val: value.NewDouble(1 / ratio)}})
		}
	}
	return out
}

// suggestFunction tries every unary built-in for a direct match, and for
// strings proposes Left/Right/Mid using substring indices found in from's
// current string value.
func suggestFunction(from Expression, to value.Value, row column.Row, cols []column.Column) []Expression {
	base := from.Apply(row, cols, value.EmptyValue())
	var out []Expression

	for _, f := range function.Registry {
		if f.Arity().Accepts(1) {
			out = append(out, Call{Fn: f, Args: []Expression{from}})
		}
	}

	baseStr, ok1 := base.AsString()
	toStr, ok2 := to.AsString()
	if ok1 && ok2 && toStr != "" {
		if idx := strings.Index(baseStr, toStr); idx >= 0 {
			leftFn, _ := function.Lookup("Left")
			rightFn, _ := function.Lookup("Right")
			midFn, _ := function.Lookup("Mid")
			if idx == 0 {
				out = append(out, Call{Fn: leftFn, Args: []Expression{from, Literal{Val: value.NewInt(int64(len(toStr)))}}})
			}
			if idx+len(toStr) == len(baseStr) {
				out = append(out, Call{Fn: rightFn, Args: []Expression{from, Literal{Val: value.NewInt(int64(len(toStr)))}}})
			}
			out = append(out, Call{Fn: midFn, Args: []Expression{
				from,
				Literal{Val: value.NewInt(int64(idx + 1))},
				Literal{Val: value.NewInt(int64(len(toStr)))},
			}})
		}
	}

	return out
}
