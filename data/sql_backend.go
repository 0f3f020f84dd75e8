package data

import (
	"github.com/sirupsen/logrus"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
	"github.com/gridflow/gridflow/sqlbackend"
	"github.com/gridflow/gridflow/value"
)

// Executor runs an accumulated SQL query and returns its result as a
// raster. The engine ships no executor of its own; cmd/gridflow wires a
// concrete one (e.g. backed by mattn/go-sqlite3) against a live handle.
type Executor interface {
	Query(sql string, columns []column.Column) (*raster.Raster, error)
}

// sqlDataBackend wraps an accumulated sqlbackend.SqlData. Structural
// operations lower unconditionally; expression-bearing operations lower
// when the dialect can represent every sub-expression, and fall back to
// materializing + the raster implementation otherwise (spec §4.8).
type sqlDataBackend struct {
	sd   sqlbackend.SqlData
	exec Executor
}

// FromSQL wraps an accumulated SqlData as a Data, querying through exec
// whenever materialization is required.
func FromSQL(sd sqlbackend.SqlData, exec Executor) Data {
	return &sqlDataBackend{sd: sd, exec: exec}
}

func (b *sqlDataBackend) Columns() []column.Column { return b.sd.Columns }

func (b *sqlDataBackend) SelectColumns(names []column.Column) Data {
	return &sqlDataBackend{sd: b.sd.SelectColumns(names), exec: b.exec}
}

func (b *sqlDataBackend) Limit(n int) Data {
	return &sqlDataBackend{sd: b.sd.Limit(n), exec: b.exec}
}

func (b *sqlDataBackend) Offset(n int) Data {
	return &sqlDataBackend{sd: b.sd.Offset(n), exec: b.exec}
}

func (b *sqlDataBackend) Distinct() Data {
	return &sqlDataBackend{sd: b.sd.Distinct(), exec: b.exec}
}

func (b *sqlDataBackend) Random(n int) Data {
	return &sqlDataBackend{sd: b.sd.Random(n), exec: b.exec}
}

func (b *sqlDataBackend) Calculate(targets []raster.CalcTarget) Data {
	if next, ok := b.sd.Calculate(targets); ok {
		return &sqlDataBackend{sd: next, exec: b.exec}
	}
	logFallback("calculate")
	return b.fallback().Calculate(targets)
}

func (b *sqlDataBackend) Filter(cond expr.Expression) Data {
	if next, ok := b.sd.Filter(cond); ok {
		return &sqlDataBackend{sd: next, exec: b.exec}
	}
	logFallback("filter")
	return b.fallback().Filter(cond)
}

func (b *sqlDataBackend) Sort(orders []raster.SortOrder) Data {
	if next, ok := b.sd.Sort(orders); ok {
		return &sqlDataBackend{sd: next, exec: b.exec}
	}
	logFallback("sort")
	return b.fallback().Sort(orders)
}

func (b *sqlDataBackend) Aggregate(groups []raster.GroupSpec, values []aggregation.Aggregation) Data {
	if next, ok := b.sd.Aggregate(groups, values); ok {
		return &sqlDataBackend{sd: next, exec: b.exec}
	}
	logFallback("aggregate")
	return b.fallback().Aggregate(groups, values)
}

// logFallback records why a push-down couldn't lower to SQL, so an
// operator can tell a slow pipeline apart from a genuinely unsupported one.
func logFallback(op string) {
	logrus.WithField("operation", op).Debug("sql backend: expression has no SQL lowering, falling back to raster")
}

func (b *sqlDataBackend) Unique(e expr.Expression) []value.Value {
	next, ok := b.sd.Unique(e)
	if !ok {
		logFallback("unique")
		return b.fallback().Unique(e)
	}
	r, err := b.query(next.SQL, next.Columns)
	if err != nil || r.RowCount() == 0 {
		return nil
	}
	out := make([]value.Value, r.RowCount())
	for i, row := range r.Rows {
		out[i] = row.At(0)
	}
	return out
}

// Transpose, Pivot and Flatten have no SQL lowering; always fall back.
func (b *sqlDataBackend) Transpose() Data { return b.fallback().Transpose() }
func (b *sqlDataBackend) Pivot(vertical, horizontal []column.Column, values []aggregation.Aggregation) Data {
	return b.fallback().Pivot(vertical, horizontal, values)
}
func (b *sqlDataBackend) Flatten(target column.Column, items func(string) []string) Data {
	return b.fallback().Flatten(target, items)
}

func (b *sqlDataBackend) query(sql string, cols []column.Column) (*raster.Raster, error) {
	if b.exec == nil {
		return nil, errNoExecutor
	}
	return b.exec.Query(sql, cols)
}

// fallback materializes this query's result and hands off to the raster
// backend, deferred until the resulting Data is actually awaited.
func (b *sqlDataBackend) fallback() Data {
	sd := b.sd
	exec := b.exec
	rd := raster.Lazy(func() (*raster.Raster, error) {
		if exec == nil {
			return nil, errNoExecutor
		}
		return exec.Query(sd.SQL, sd.Columns)
	})
	return FromRasterData(rd, sd.Columns)
}

func (b *sqlDataBackend) ToRaster() *job.Future[*raster.Raster] {
	return job.NewFuture(func(j *job.Job, cb job.Callback[*raster.Raster]) {
		r, err := b.query(b.sd.SQL, b.sd.Columns)
		cb(job.Fallible[*raster.Raster]{Value: r, Err: err})
	}, 0, nil)
}
