// Package aggregation implements the map-expression / reduce-function pair
// used by the raster, stream and SQL backends' aggregate operation (spec
// §3, §4.6).
package aggregation

import (
	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
)

// Aggregation maps every row in a group to a value, then reduces the
// resulting bag to one output value via Reduce, landing in Target.
type Aggregation struct {
	Map    expr.Expression
	Reduce function.Function
	Target column.Column
}

// Bag accumulates per-row mapped values for one group.
type Bag struct {
	vals []value.Value
}

// Add appends row's mapped value to the bag.
func (b *Bag) Add(v value.Value) { b.vals = append(b.vals, v) }

// ReduceBag applies agg.Reduce over the accumulated values.
func (agg Aggregation) ReduceBag(b *Bag) value.Value {
	return agg.Reduce.Apply(b.vals)
}

// MapRow evaluates agg.Map against one row.
func (agg Aggregation) MapRow(row column.Row, cols []column.Column) value.Value {
	return agg.Map.Apply(row, cols, value.EmptyValue())
}
