package data

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
	"github.com/gridflow/gridflow/sqlbackend"
	"github.com/gridflow/gridflow/stream"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func cols(names ...string) []column.Column {
	out := make([]column.Column, len(names))
	for i, n := range names {
		out[i] = column.New(n)
	}
	return out
}

func sampleRaster() *raster.Raster {
	return raster.New(cols("A", "B"), []column.Row{
		{value.NewInt(1), value.NewString("x")},
		{value.NewInt(2), value.NewString("y")},
	})
}

func getRaster(t *testing.T, d Data) *raster.Raster {
	t.Helper()
	done := make(chan job.Fallible[*raster.Raster], 1)
	d.ToRaster().Get(func(r job.Fallible[*raster.Raster]) { done <- r })
	result := <-done
	require.NoError(t, result.Err)
	return result.Value
}

func TestRasterBackendLimitIsLazy(t *testing.T) {
	d := FromRaster(sampleRaster())
	limited := d.Limit(1)
	got := getRaster(t, limited)
	require.Equal(t, 1, got.RowCount())
}

func TestRasterBackendCalculateAppendsColumn(t *testing.T) {
	d := FromRaster(sampleRaster())
	out := d.Calculate([]raster.CalcTarget{
		{Column: column.New("C"), Expr: expr.Literal{Val: value.NewInt(9)}},
	})
	require.Equal(t, 3, len(out.Columns()))
	got := getRaster(t, out)
	c, _ := got.Rows[0].At(2).AsInt()
	require.Equal(t, int64(9), c)
}

type fakeStreamSource struct {
	cols     []column.Column
	rows     []column.Row
	position int
}

func (f *fakeStreamSource) ColumnNames(cb func([]column.Column)) { cb(f.cols) }
func (f *fakeStreamSource) Clone() stream.Stream {
	return &fakeStreamSource{cols: f.cols, rows: f.rows}
}
func (f *fakeStreamSource) Fetch(j *job.Job, consumer stream.Consumer) {
	if f.position >= len(f.rows) {
		consumer(nil, false, nil)
		return
	}
	batch := f.rows[f.position:]
	f.position = len(f.rows)
	consumer(batch, false, nil)
}

func TestStreamBackendLimitUsesTransformer(t *testing.T) {
	src := &fakeStreamSource{cols: cols("A"), rows: []column.Row{
		{value.NewInt(1)}, {value.NewInt(2)}, {value.NewInt(3)},
	}}
	d := FromStream(src, cols("A"))
	limited := d.Limit(2)
	got := getRaster(t, limited)
	require.Equal(t, 2, got.RowCount())
}

func TestStreamBackendDistinctFallsBackToRaster(t *testing.T) {
	src := &fakeStreamSource{cols: cols("A"), rows: []column.Row{
		{value.NewInt(1)}, {value.NewInt(1)},
	}}
	d := FromStream(src, cols("A"))
	got := getRaster(t, d.Distinct())
	require.Equal(t, 1, got.RowCount())
}

type fakeExecutor struct {
	raster *raster.Raster
}

func (e fakeExecutor) Query(sql string, cols []column.Column) (*raster.Raster, error) {
	return e.raster, nil
}

func TestSQLBackendFilterFallsBackOnUnlowerableRegex(t *testing.T) {
	sd := sqlbackend.FromTable(sqlbackend.SQLite{}, "t", cols("A"))
	exec := fakeExecutor{raster: raster.New(cols("A"), []column.Row{
		{value.NewString("ax")}, {value.NewString("by")},
	})}
	d := FromSQL(sd, exec)

	regexCond := expr.Binary{Op: expr.OpRegex, LHS: expr.Sibling{Col: column.New("A")}, RHS: expr.Literal{Val: value.NewString("^a")}}
	filtered := d.Filter(regexCond)
	got := getRaster(t, filtered)
	require.Equal(t, 1, got.RowCount())
}

func TestJoinMaterializesBothSidesAndCombines(t *testing.T) {
	left := FromRaster(raster.New(cols("ID", "Name"), []column.Row{
		{value.NewInt(1), value.NewString("Ada")},
	}))
	right := FromRaster(raster.New(cols("ID", "Score"), []column.Row{
		{value.NewInt(1), value.NewInt(100)},
	}))
	joined := Join(left, right,
		[]expr.Expression{expr.Sibling{Col: column.New("ID")}},
		[]expr.Expression{expr.Sibling{Col: column.New("ID")}},
		raster.InnerJoin,
	)
	got := getRaster(t, joined)
	require.Equal(t, 1, got.RowCount())
	require.Equal(t, 4, len(got.Columns))
}
