package aggregation

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func TestAggregationSum(t *testing.T) {
	sum, _ := function.Lookup("Sum")
	cols := []column.Column{column.New("Amount")}
	agg := Aggregation{
		Map:    expr.Sibling{Col: column.New("Amount")},
		Reduce: sum,
		Target: column.New("Total"),
	}

	b := &Bag{}
	for _, row := range []column.Row{{value.NewInt(1)}, {value.NewInt(3)}} {
		b.Add(agg.MapRow(row, cols))
	}
	got := agg.ReduceBag(b)
	d, ok := got.AsDouble()
	require.True(t, ok)
	require.Equal(t, 4.0, d)
}
