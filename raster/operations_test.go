package raster

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func sampleRaster() *Raster {
	c := cols("Region", "Year", "Sales")
	rows := []column.Row{
		{value.NewString("East"), value.NewInt(2023), value.NewDouble(10)},
		{value.NewString("East"), value.NewInt(2024), value.NewDouble(20)},
		{value.NewString("West"), value.NewInt(2023), value.NewDouble(5)},
		{value.NewString("West"), value.NewInt(2024), value.NewDouble(15)},
	}
	return New(c, rows)
}

func TestTranspose(t *testing.T) {
	r := New(cols("Key", "A", "B"), []column.Row{
		{value.NewString("Key"), value.NewInt(1), value.NewInt(2)},
	})
	got := Transpose(r)
	require.Equal(t, 2, got.RowCount())
	require.True(t, got.ReadOnly)
	require.Equal(t, "Key", got.Columns[0].Name())
}

func TestSelectColumnsDropsUnknownAndReorders(t *testing.T) {
	r := sampleRaster()
	got := SelectColumns(r, cols("Sales", "Region", "Nope"))
	require.Equal(t, 2, len(got.Columns))
	s, _ := got.Rows[0].At(0).AsDouble()
	require.Equal(t, 10.0, s)
}

func TestCalculateAppendsNewAndRewritesExisting(t *testing.T) {
	r := sampleRaster()
	targets := []CalcTarget{
		{Column: column.New("Doubled"), Expr: expr.Binary{Op: expr.OpMul, LHS: expr.Sibling{Col: column.New("Sales")}, RHS: expr.Literal{Val: value.NewDouble(2)}}},
		{Column: column.New("Region"), Expr: expr.Literal{Val: value.NewString("ALL")}},
	}
	got := Calculate(r, targets)
	require.Equal(t, 4, len(got.Columns))
	d, _ := got.Rows[0].At(3).AsDouble()
	require.Equal(t, 20.0, d)
	region, _ := got.Rows[0].At(0).AsString()
	require.Equal(t, "ALL", region)
}

func TestLimitBoundsToRowCount(t *testing.T) {
	r := sampleRaster()
	require.Equal(t, 4, Limit(r, 100).RowCount())
	require.Equal(t, 2, Limit(r, 2).RowCount())
	require.Equal(t, 0, Limit(r, 0).RowCount())
}

func TestOffsetDropsLeadingRows(t *testing.T) {
	r := sampleRaster()
	got := Offset(r, 1)
	require.Equal(t, 3, got.RowCount())
	region, _ := got.Rows[0].At(0).AsString()
	require.Equal(t, "East", region)
}

func TestRandomReturnsSubsetOfRequestedSize(t *testing.T) {
	r := sampleRaster()
	got := Random(r, 2)
	require.Equal(t, 2, got.RowCount())
}

func TestDistinctIsIdempotent(t *testing.T) {
	r := New(cols("A"), []column.Row{
		{value.NewInt(1)}, {value.NewInt(1)}, {value.NewInt(2)},
	})
	once := Distinct(r)
	twice := Distinct(once)
	require.Equal(t, 2, once.RowCount())
	require.True(t, once.Equal(twice))
}

func TestUniquePreservesFirstOccurrenceOrder(t *testing.T) {
	r := sampleRaster()
	got := Unique(r, expr.Sibling{Col: column.New("Region")})
	require.Equal(t, 2, len(got))
	s0, _ := got[0].AsString()
	require.Equal(t, "East", s0)
}

func sumAgg(target string) aggregation.Aggregation {
	fn, _ := function.Lookup("Sum")
	return aggregation.Aggregation{
		Map:    expr.Sibling{Col: column.New("Sales")},
		Reduce: fn,
		Target: column.New(target),
	}
}

func TestAggregateGroupsAndReduces(t *testing.T) {
	r := sampleRaster()
	got := Aggregate(r, []GroupSpec{{Column: column.New("Region"), Expr: expr.Sibling{Col: column.New("Region")}}}, []aggregation.Aggregation{sumAgg("Total")})
	require.Equal(t, 2, got.RowCount())
	require.Equal(t, 2, len(got.Columns))
	total, _ := got.Rows[0].At(1).AsDouble()
	require.Equal(t, 30.0, total)
}

func TestPivotProducesLabeledValueColumns(t *testing.T) {
	r := sampleRaster()
	got := Pivot(r, cols("Region"), cols("Year"), []aggregation.Aggregation{sumAgg("Sales")})
	require.Equal(t, 2, got.RowCount())
	require.True(t, len(got.Columns) >= 3)
}

func TestSortOrdersAscendingThenDescending(t *testing.T) {
	r := sampleRaster()
	asc := Sort(r, []SortOrder{{Expr: expr.Sibling{Col: column.New("Sales")}, Ascending: true}})
	first, _ := asc.Rows[0].At(2).AsDouble()
	require.Equal(t, 5.0, first)

	desc := Sort(r, []SortOrder{{Expr: expr.Sibling{Col: column.New("Sales")}, Ascending: false}})
	firstDesc, _ := desc.Rows[0].At(2).AsDouble()
	require.Equal(t, 20.0, firstDesc)
}

func TestJoinInnerAndLeft(t *testing.T) {
	left := New(cols("ID", "Name"), []column.Row{
		{value.NewInt(1), value.NewString("Ada")},
		{value.NewInt(2), value.NewString("Bo")},
	})
	right := New(cols("ID", "Score"), []column.Row{
		{value.NewInt(1), value.NewInt(100)},
	})
	keyLeft := []expr.Expression{expr.Sibling{Col: column.New("ID")}}
	keyRight := []expr.Expression{expr.Sibling{Col: column.New("ID")}}

	inner := Join(left, right, keyLeft, keyRight, InnerJoin)
	require.Equal(t, 1, inner.RowCount())

	leftJoin := Join(left, right, keyLeft, keyRight, LeftJoin)
	require.Equal(t, 2, leftJoin.RowCount())
	require.True(t, leftJoin.Rows[1].At(3).IsEmpty())
}

func TestFlattenExplodesPackedColumn(t *testing.T) {
	r := New(cols("Name", "Tags"), []column.Row{
		{value.NewString("Ada"), value.NewString("x,y")},
	})
	got := Flatten(r, column.New("Tags"), func(s string) []string {
		out := []string{}
		cur := ""
		for _, ch := range s {
			if ch == ',' {
				out = append(out, cur)
				cur = ""
				continue
			}
			cur += string(ch)
		}
		return append(out, cur)
	})
	require.Equal(t, 2, got.RowCount())
	name0, _ := got.Rows[0].At(0).AsString()
	tag0, _ := got.Rows[0].At(1).AsString()
	require.Equal(t, "Ada", name0)
	require.Equal(t, "x", tag0)
}
