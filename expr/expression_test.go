package expr

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func TestSiblingLookup(t *testing.T) {
	cols := []column.Column{column.New("A"), column.New("B")}
	row := column.Row{value.NewInt(2), value.NewInt(3)}
	e := Sibling{Col: column.New("b")}
	require.Equal(t, value.NewInt(3), e.Apply(row, cols, value.EmptyValue()))
}

func TestSiblingMissingColumnIsInvalid(t *testing.T) {
	cols := []column.Column{column.New("A")}
	row := column.Row{value.NewInt(2)}
	e := Sibling{Col: column.New("Z")}
	require.True(t, e.Apply(row, cols, value.EmptyValue()).IsInvalid())
}

func TestSiblingBeyondRowLengthIsEmpty(t *testing.T) {
	cols := []column.Column{column.New("A"), column.New("B")}
	row := column.Row{value.NewInt(2)}
	e := Sibling{Col: column.New("B")}
	require.True(t, e.Apply(row, cols, value.EmptyValue()).IsEmpty())
}

func TestIdentityResolvesInputValue(t *testing.T) {
	require.Equal(t, value.NewInt(9), Identity{}.Apply(nil, nil, value.NewInt(9)))
}

func TestBinaryAddSiblings(t *testing.T) {
	cols := []column.Column{column.New("A"), column.New("B")}
	row := column.Row{value.NewInt(2), value.NewInt(3)}
	e := Binary{Op: OpAdd, LHS: Sibling{Col: column.New("A")}, RHS: Sibling{Col: column.New("B")}}
	require.Equal(t, 5.0, mustDouble(t, e.Apply(row, cols, value.EmptyValue())))
}

func TestIsConstantAndPrepare(t *testing.T) {
	e := Binary{Op: OpAdd, LHS: Literal{Val: value.NewInt(1)}, RHS: Literal{Val: value.NewInt(2)}}
	require.True(t, e.IsConstant())

	prepared := Prepare(e)
	lit, ok := prepared.(Literal)
	require.True(t, ok)
	require.Equal(t, 3.0, mustDouble(t, lit.Val))
}

func TestPrepareRecursesIntoNonConstantNodes(t *testing.T) {
	cols := []column.Column{column.New("A")}
	e := Binary{
		Op:  OpAdd,
		LHS: Sibling{Col: column.New("A")},
		RHS: Binary{Op: OpMul, LHS: Literal{Val: value.NewInt(2)}, RHS: Literal{Val: value.NewInt(3)}},
	}
	prepared := Prepare(e)
	b, ok := prepared.(Binary)
	require.True(t, ok)
	rhsLit, ok := b.RHS.(Literal)
	require.True(t, ok)
	require.Equal(t, value.NewDouble(6), rhsLit.Val)

	row := column.Row{value.NewInt(4)}
	require.Equal(t, e.Apply(row, cols, value.EmptyValue()), prepared.Apply(row, cols, value.EmptyValue()))
}

func TestComplexity(t *testing.T) {
	require.Equal(t, 10, Literal{Val: value.NewInt(1)}.Complexity())
	require.Equal(t, 1, Sibling{}.Complexity())
	b := Binary{Op: OpAdd, LHS: Literal{Val: value.NewInt(1)}, RHS: Sibling{}}
	require.Equal(t, 1+10+1, b.Complexity())
}

func TestCallDeterminism(t *testing.T) {
	upper, _ := function.Lookup("Upper")
	random, _ := function.Lookup("Random")

	deterministic := Call{Fn: upper, Args: []Expression{Literal{Val: value.NewString("a")}}}
	require.True(t, deterministic.IsConstant())

	nondeterministic := Call{Fn: random, Args: nil}
	require.False(t, nondeterministic.IsConstant())
}

func TestRegexOperators(t *testing.T) {
	require.True(t, mustBool(t, applyBinary(OpRegex, value.NewString("Hello"), value.NewString("^hel"))))
	require.False(t, mustBool(t, applyBinary(OpRegexStrict, value.NewString("Hello"), value.NewString("^hel"))))
}

func mustDouble(t *testing.T, v value.Value) float64 {
	t.Helper()
	d, ok := v.AsDouble()
	require.True(t, ok)
	return d
}

func mustBool(t *testing.T, v value.Value) bool {
	t.Helper()
	b, ok := v.AsBool()
	require.True(t, ok)
	return b
}
