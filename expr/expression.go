// Package expr implements the expression tree: literals, the current-cell
// identity reference, sibling column references, binary operators and
// function calls, with evaluation, constant folding, and from/to example
// inference (spec §3/§4.4).
package expr

import (
	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
)

// Expression is the common interface of every node in the tree.
type Expression interface {
	// Apply evaluates the expression against a row, its columns, and the
	// "current cell" value that Identity resolves to.
	Apply(row column.Row, cols []column.Column, input value.Value) value.Value
	// IsConstant holds when every child is constant and, for Binary/
	// Function nodes, the operator/function is deterministic.
	IsConstant() bool
	// Complexity is the tree-size metric used to rank inferred candidates.
	Complexity() int
	// Children returns the direct subexpressions, or nil for leaves.
	Children() []Expression
}

// Prepare returns an equivalent expression with every constant subtree
// replaced by a Literal of its computed value. A non-constant node's
// children are prepared recursively but the node itself is kept.
func Prepare(e Expression) Expression {
	if e.IsConstant() {
		if lit, ok := e.(Literal); ok {
			return lit
		}
		return Literal{Val: e.Apply(nil, nil, value.EmptyValue())}
	}
	switch n := e.(type) {
	case Binary:
		return Binary{Op: n.Op, LHS: Prepare(n.LHS), RHS: Prepare(n.RHS)}
	case Call:
		args := make([]Expression, len(n.Args))
		for i, a := range n.Args {
			args[i] = Prepare(a)
		}
		return Call{Fn: n.Fn, Args: args}
	default:
		return e
	}
}

// Literal is a constant value.
type Literal struct{ Val value.Value }

func (l Literal) Apply(column.Row, []column.Column, value.Value) value.Value { return l.Val }
func (l Literal) IsConstant() bool                                           { return true }
func (l Literal) Complexity() int                                            { return 10 }
func (l Literal) Children() []Expression                                     { return nil }

// Identity resolves to the "current cell" value supplied at apply time.
type Identity struct{}

func (Identity) Apply(_ column.Row, _ []column.Column, input value.Value) value.Value { return input }
func (Identity) IsConstant() bool                                                     { return false }
func (Identity) Complexity() int                                                      { return 1 }
func (Identity) Children() []Expression                                               { return nil }

// Sibling resolves to the value at Col in the current row. A column that
// isn't found yields Invalid; a column that exists but is beyond the row's
// length yields Empty (handled by column.Row.At).
type Sibling struct{ Col column.Column }

func (s Sibling) Apply(row column.Row, cols []column.Column, _ value.Value) value.Value {
	idx := column.IndexOf(cols, s.Col)
	if idx < 0 {
		return value.InvalidValue()
	}
	return row.At(idx)
}
func (Sibling) IsConstant() bool       { return false }
func (Sibling) Complexity() int        { return 1 }
func (Sibling) Children() []Expression { return nil }

// BinaryOp enumerates the binary operators of §3.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpPow
	OpGT
	OpLT
	OpGTE
	OpLTE
	OpEQ
	OpNEQ
	OpContains
	OpContainsStrict
	OpRegex
	OpRegexStrict
)

// Binary is a two-operand expression.
type Binary struct {
	Op       BinaryOp
	LHS, RHS Expression
}

func (b Binary) Apply(row column.Row, cols []column.Column, input value.Value) value.Value {
	l := b.LHS.Apply(row, cols, input)
	r := b.RHS.Apply(row, cols, input)
	return applyBinary(b.Op, l, r)
}

func (b Binary) IsConstant() bool {
	return b.LHS.IsConstant() && b.RHS.IsConstant()
}

func (b Binary) Complexity() int { return 1 + b.LHS.Complexity() + b.RHS.Complexity() }

func (b Binary) Children() []Expression { return []Expression{b.LHS, b.RHS} }

func applyBinary(op BinaryOp, l, r value.Value) value.Value {
	switch op {
	case OpAdd:
		return l.Add(r)
	case OpSub:
		return l.Sub(r)
	case OpMul:
		return l.Mul(r)
	case OpDiv:
		return l.Div(r)
	case OpMod:
		return l.Mod(r)
	case OpConcat:
		return l.Concat(r)
	case OpPow:
		return l.Pow(r)
	case OpGT:
		return value.NewBool(l.Greater(r))
	case OpLT:
		return value.NewBool(l.Less(r))
	case OpGTE:
		return value.NewBool(l.GreaterEqual(r))
	case OpLTE:
		return value.NewBool(l.LessEqual(r))
	case OpEQ:
		return value.NewBool(l.Equal(r))
	case OpNEQ:
		return value.NewBool(l.NotEqual(r))
	case OpContains:
		return l.Contains(r)
	case OpContainsStrict:
		return l.ContainsStrict(r)
	case OpRegex:
		return applyRegex(l, r, false)
	case OpRegexStrict:
		return applyRegex(l, r, true)
	default:
		return value.InvalidValue()
	}
}

// Call is a function application.
type Call struct {
	Fn   function.Function
	Args []Expression
}

func (c Call) Apply(row column.Row, cols []column.Column, input value.Value) value.Value {
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Apply(row, cols, input)
	}
	return c.Fn.Apply(args)
}

func (c Call) IsConstant() bool {
	if !c.Fn.Deterministic() {
		return false
	}
	for _, a := range c.Args {
		if !a.IsConstant() {
			return false
		}
	}
	return true
}

func (c Call) Complexity() int {
	max := 0
	for _, a := range c.Args {
		if comp := a.Complexity(); comp > max {
			max = comp
		}
	}
	return 1 + max
}

func (c Call) Children() []Expression { return c.Args }
