// Package raster implements the in-memory 2-D dataset (spec §3/§4.6): a
// fixed grid of rows and column headers, and RasterData, the lazily
// computed, memoized pipeline handle built on top of it.
package raster

import (
	"github.com/gridflow/gridflow/column"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrReadOnly is raised when a mutation is attempted on a read-only raster.
// This is a programmer error per spec §7, not a recoverable condition.
var ErrReadOnly = errors.NewKind("cannot mutate a read-only raster")

// Raster is a fixed 2-D array of values plus its column headers. Every row's
// length is at most len(Columns); missing trailing cells read as Empty via
// column.Row.At.
type Raster struct {
	Rows     []column.Row
	Columns  []column.Column
	ReadOnly bool
}

// New constructs a writable Raster.
func New(columns []column.Column, rows []column.Row) *Raster {
	return &Raster{Columns: columns, Rows: rows}
}

// ReadOnlyCopy returns a read-only Raster sharing the same data. Every
// raster produced by a pipeline operation is read-only (spec §4.6).
func ReadOnlyCopy(columns []column.Column, rows []column.Row) *Raster {
	return &Raster{Columns: columns, Rows: rows, ReadOnly: true}
}

// RowCount returns the number of rows.
func (r *Raster) RowCount() int { return len(r.Rows) }

// IndexOfColumn returns the first positional match for name, or -1.
func (r *Raster) IndexOfColumn(name column.Column) int {
	return column.IndexOf(r.Columns, name)
}

// Append adds a row. Asserts the raster is writable.
func (r *Raster) Append(row column.Row) {
	if r.ReadOnly {
		panic(ErrReadOnly.New())
	}
	r.Rows = append(r.Rows, row)
}

// Equal reports whether two rasters have the same columns (by name, in
// order) and the same rows (by value, in order). Read-only-ness is not part
// of equality. Reflexive and symmetric per spec §8 property 5.
func (r *Raster) Equal(o *Raster) bool {
	if r == o {
		return true
	}
	if len(r.Columns) != len(o.Columns) {
		return false
	}
	for i := range r.Columns {
		if !r.Columns[i].Equal(o.Columns[i]) {
			return false
		}
	}
	if len(r.Rows) != len(o.Rows) {
		return false
	}
	for i := range r.Rows {
		if !r.Rows[i].Equal(o.Rows[i]) {
			return false
		}
	}
	return true
}
