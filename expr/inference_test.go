package expr

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func TestInferSiblingExactMatch(t *testing.T) {
	cols := []column.Column{column.New("A"), column.New("B")}
	row := column.Row{value.NewInt(2), value.NewInt(5)}

	results := Infer(nil, value.NewInt(5), row, cols, 0, 100)
	require.NotEmpty(t, results)
	found := false
	for _, r := range results {
		if s, ok := r.(Sibling); ok && s.Col.Equal(column.New("B")) {
			found = true
		}
	}
	require.True(t, found)
}

func TestInferFromSiblingReachesNumericTarget(t *testing.T) {
	cols := []column.Column{column.New("A")}
	row := column.Row{value.NewInt(2)}
	from := Sibling{Col: column.New("A")}

	results := Infer(from, value.NewInt(7), row, cols, 0, 100)
	found := false
	for _, r := range results {
		if got := r.Apply(row, cols, value.EmptyValue()); got.Equal(value.NewInt(7)) {
			found = true
		}
	}
	require.True(t, found)
}

func TestInferPrefersLowerComplexity(t *testing.T) {
	cols := []column.Column{column.New("A")}
	row := column.Row{value.NewInt(5)}

	results := Infer(nil, value.NewInt(5), row, cols, 0, 100)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.Equal(t, results[0].Complexity(), r.Complexity())
	}
}

func TestInferFunctionUnaryMatch(t *testing.T) {
	cols := []column.Column{column.New("Name")}
	row := column.Row{value.NewString("hello")}
	from := Sibling{Col: column.New("Name")}

	results := Infer(from, value.NewString("HELLO"), row, cols, 0, 100)
	found := false
	for _, r := range results {
		if r.Apply(row, cols, value.EmptyValue()).Equal(value.NewString("HELLO")) {
			found = true
		}
	}
	require.True(t, found)
}
