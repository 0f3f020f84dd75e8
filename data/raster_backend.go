package data

import (
	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
	"github.com/gridflow/gridflow/value"
)

// rasterBackend wraps a lazily-computed raster.RasterData, composing each
// operation via Derive so nothing runs until ToRaster's Future is awaited.
type rasterBackend struct {
	rd   raster.RasterData
	cols []column.Column
}

// FromRaster wraps a ready-made raster.Raster as a Data.
func FromRaster(r *raster.Raster) Data {
	return &rasterBackend{rd: raster.New(r), cols: r.Columns}
}

// FromRasterData wraps an already-lazy raster.RasterData as a Data. cols is
// the schema this Data exposes before the producer has run — it must match
// whatever the eventual *raster.Raster carries.
func FromRasterData(rd raster.RasterData, cols []column.Column) Data {
	return &rasterBackend{rd: rd, cols: cols}
}

func (b *rasterBackend) Columns() []column.Column { return b.cols }

func (b *rasterBackend) derive(newCols []column.Column, f func(*raster.Raster) *raster.Raster) Data {
	return &rasterBackend{
		cols: newCols,
		rd: b.rd.Derive(func(r *raster.Raster) (*raster.Raster, error) {
			return f(r), nil
		}),
	}
}

func (b *rasterBackend) Transpose() Data {
	return b.derive(nil, raster.Transpose)
}

func (b *rasterBackend) SelectColumns(names []column.Column) Data {
	var cols []column.Column
	for _, n := range names {
		if column.IndexOf(b.cols, n) >= 0 {
			cols = append(cols, n)
		}
	}
	return b.derive(cols, func(r *raster.Raster) *raster.Raster { return raster.SelectColumns(r, names) })
}

func (b *rasterBackend) Calculate(targets []raster.CalcTarget) Data {
	cols := append([]column.Column(nil), b.cols...)
	seen := map[string]bool{}
	for _, c := range cols {
		seen[c.Key()] = true
	}
	for _, t := range targets {
		if !seen[t.Column.Key()] {
			seen[t.Column.Key()] = true
			cols = append(cols, t.Column)
		}
	}
	return b.derive(cols, func(r *raster.Raster) *raster.Raster { return raster.Calculate(r, targets) })
}

func (b *rasterBackend) Limit(n int) Data {
	return b.derive(b.cols, func(r *raster.Raster) *raster.Raster { return raster.Limit(r, n) })
}

func (b *rasterBackend) Offset(n int) Data {
	return b.derive(b.cols, func(r *raster.Raster) *raster.Raster { return raster.Offset(r, n) })
}

func (b *rasterBackend) Distinct() Data {
	return b.derive(b.cols, raster.Distinct)
}

func (b *rasterBackend) Filter(cond expr.Expression) Data {
	return b.derive(b.cols, func(r *raster.Raster) *raster.Raster {
		var rows []column.Row
		for _, row := range r.Rows {
			v := cond.Apply(row, r.Columns, value.EmptyValue())
			if ok, _ := v.AsBool(); ok {
				rows = append(rows, row)
			}
		}
		return raster.ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
	})
}

func (b *rasterBackend) Sort(orders []raster.SortOrder) Data {
	return b.derive(b.cols, func(r *raster.Raster) *raster.Raster { return raster.Sort(r, orders) })
}

func (b *rasterBackend) Random(n int) Data {
	return b.derive(b.cols, func(r *raster.Raster) *raster.Raster { return raster.Random(r, n) })
}

func (b *rasterBackend) Aggregate(groups []raster.GroupSpec, values []aggregation.Aggregation) Data {
	var cols []column.Column
	for _, g := range groups {
		cols = append(cols, g.Column)
	}
	for _, v := range values {
		cols = append(cols, v.Target)
	}
	return b.derive(cols, func(r *raster.Raster) *raster.Raster { return raster.Aggregate(r, groups, values) })
}

func (b *rasterBackend) Pivot(vertical, horizontal []column.Column, values []aggregation.Aggregation) Data {
	return b.derive(nil, func(r *raster.Raster) *raster.Raster { return raster.Pivot(r, vertical, horizontal, values) })
}

func (b *rasterBackend) Flatten(target column.Column, items func(string) []string) Data {
	return b.derive(b.cols, func(r *raster.Raster) *raster.Raster { return raster.Flatten(r, target, items) })
}

func (b *rasterBackend) Unique(e expr.Expression) []value.Value {
	r, err := b.rd.Get()
	if err != nil {
		return nil
	}
	return raster.Unique(r, e)
}

func (b *rasterBackend) ToRaster() *job.Future[*raster.Raster] {
	return job.NewFuture(func(j *job.Job, cb job.Callback[*raster.Raster]) {
		r, err := b.rd.Get()
		cb(job.Fallible[*raster.Raster]{Value: r, Err: err})
	}, 0, nil)
}
