// Package data implements the uniform pipeline-operation surface (spec
// §4.6 intro, §1 point 4) over the three concrete backends: an in-memory
// raster, a pull-based stream, and an accumulated SQL query. Each backend
// applies an operation natively when it can, and falls back to raster
// materialization when it can't (unsupported stream op, unlowerable SQL
// expression).
package data

import (
	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
	"github.com/gridflow/gridflow/value"
	errors "gopkg.in/src-d/go-errors.v1"
)

// errNoExecutor is reported when a SQL-backed Data must materialize but
// no Executor was wired (spec §4.8's backend never opens its own handle).
var errNoExecutor = errors.NewKind("sql backend: no executor configured").New()

// Data is a polymorphic pipeline handle: a step applies one of these
// methods to produce the next Data in the pipeline. Every method except
// Unique is structural only and does not block; the actual computation
// (stream fetch, SQL execution) happens when the caller eventually calls
// ToRaster or drains a stream.
type Data interface {
	Columns() []column.Column

	Transpose() Data
	SelectColumns(names []column.Column) Data
	Calculate(targets []raster.CalcTarget) Data
	Limit(n int) Data
	Offset(n int) Data
	Distinct() Data
	Filter(cond expr.Expression) Data
	Sort(orders []raster.SortOrder) Data
	Random(n int) Data
	Aggregate(groups []raster.GroupSpec, values []aggregation.Aggregation) Data
	Pivot(vertical, horizontal []column.Column, values []aggregation.Aggregation) Data
	Flatten(target column.Column, items func(string) []string) Data

	// Unique materializes immediately: its result is a value set, not a
	// further pipeline stage.
	Unique(e expr.Expression) []value.Value

	// ToRaster drains/executes this Data fully into a raster.Raster.
	ToRaster() *job.Future[*raster.Raster]
}
