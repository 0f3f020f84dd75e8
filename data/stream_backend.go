package data

import (
	"github.com/sirupsen/logrus"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
	"github.com/gridflow/gridflow/stream"
	"github.com/gridflow/gridflow/value"
)

// streamBackend wraps a stream.Stream. Limit, SelectColumns and Calculate
// have native stream transformers (spec §4.7); every other operation has
// no stream-layer implementation and falls back to materializing into a
// raster first (spec §4.7's "Fallback" paragraph).
type streamBackend struct {
	s    stream.Stream
	cols []column.Column
}

// FromStream wraps a stream.Stream as a Data.
func FromStream(s stream.Stream, cols []column.Column) Data {
	return &streamBackend{s: s, cols: cols}
}

func (b *streamBackend) Columns() []column.Column { return b.cols }

func (b *streamBackend) Transpose() Data                    { return b.fallback().Transpose() }
func (b *streamBackend) Distinct() Data                      { return b.fallback().Distinct() }
func (b *streamBackend) Filter(cond expr.Expression) Data    { return b.fallback().Filter(cond) }
func (b *streamBackend) Sort(orders []raster.SortOrder) Data { return b.fallback().Sort(orders) }
func (b *streamBackend) Random(n int) Data                   { return b.fallback().Random(n) }
func (b *streamBackend) Offset(n int) Data                   { return b.fallback().Offset(n) }
func (b *streamBackend) Flatten(target column.Column, items func(string) []string) Data {
	return b.fallback().Flatten(target, items)
}
func (b *streamBackend) Aggregate(groups []raster.GroupSpec, values []aggregation.Aggregation) Data {
	return b.fallback().Aggregate(groups, values)
}
func (b *streamBackend) Pivot(vertical, horizontal []column.Column, values []aggregation.Aggregation) Data {
	return b.fallback().Pivot(vertical, horizontal, values)
}
func (b *streamBackend) Unique(e expr.Expression) []value.Value {
	return b.fallback().Unique(e)
}

func (b *streamBackend) SelectColumns(names []column.Column) Data {
	var cols []column.Column
	for _, n := range names {
		if column.IndexOf(b.cols, n) >= 0 {
			cols = append(cols, n)
		}
	}
	return &streamBackend{s: stream.ColumnsTransformer(b.s, names), cols: cols}
}

func (b *streamBackend) Calculate(targets []raster.CalcTarget) Data {
	cols := append([]column.Column(nil), b.cols...)
	seen := map[string]bool{}
	for _, c := range cols {
		seen[c.Key()] = true
	}
	streamTargets := make([]stream.CalcTarget, len(targets))
	for i, t := range targets {
		streamTargets[i] = stream.CalcTarget{Column: t.Column, Expr: t.Expr}
		if !seen[t.Column.Key()] {
			seen[t.Column.Key()] = true
			cols = append(cols, t.Column)
		}
	}
	return &streamBackend{s: stream.CalculateTransformer(b.s, streamTargets), cols: cols}
}

func (b *streamBackend) Limit(n int) Data {
	return &streamBackend{s: stream.LimitTransformer(b.s, n), cols: b.cols}
}

// fallback materializes the stream into a raster and hands off to the
// raster backend's implementation of whichever operation was requested.
// The materialization itself stays lazy: draining the stream is deferred
// until the resulting Data's ToRaster/Unique is actually awaited.
func (b *streamBackend) fallback() Data {
	rd := raster.Lazy(func() (*raster.Raster, error) {
		logrus.Debug("stream backend: operation has no stream transformer, materializing to raster")
		done := make(chan job.Fallible[*raster.Raster], 1)
		stream.Materialize(b.s).Get(func(r job.Fallible[*raster.Raster]) { done <- r })
		result := <-done
		return result.Value, result.Err
	})
	return FromRasterData(rd, b.cols)
}

func (b *streamBackend) ToRaster() *job.Future[*raster.Raster] {
	return stream.Materialize(b.s)
}
