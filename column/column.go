// Package column implements Column identifiers and Row tuples: the
// case-insensitive addressing scheme that every layer above the value model
// uses to locate a cell.
package column

import (
	"strings"

	"github.com/gridflow/gridflow/value"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrDuplicateColumn is raised when a caller would introduce two columns
// that compare equal under Column's case-insensitive equality.
var ErrDuplicateColumn = errors.NewKind("duplicate column: %s")

// Column wraps a display name. Two Columns compare and hash equal
// case-insensitively; the original case is preserved for display.
type Column struct {
	name string
}

// New constructs a Column from a display name.
func New(name string) Column { return Column{name: name} }

// Name returns the display name, case preserved.
func (c Column) Name() string { return c.name }

// Equal reports whether two columns are the same identifier, ignoring case.
func (c Column) Equal(o Column) bool { return strings.EqualFold(c.name, o.name) }

// Key returns a canonical lowercase form suitable for use as a map key.
func (c Column) Key() string { return strings.ToLower(c.name) }

// DefaultForIndex renders the Excel-style positional header for index i
// (0-based): A, B, ..., Z, AA, AB, ...
func DefaultForIndex(i int) Column {
	n := i + 1
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return Column{name: string(letters)}
}

// IndexOf returns the position of the first column in cols equal to target,
// or -1 if none matches.
func IndexOf(cols []Column, target Column) int {
	for i, c := range cols {
		if c.Equal(target) {
			return i
		}
	}
	return -1
}

// EnsureNoDuplicates validates the no-duplicate-column invariant a dataset
// must uphold.
func EnsureNoDuplicates(cols []Column) error {
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			if cols[i].Equal(cols[j]) {
				return ErrDuplicateColumn.New(cols[i].Name())
			}
		}
	}
	return nil
}

// Row is an ordered sequence of values. A Row's length may be less than the
// owning dataset's column count; missing trailing cells read as Empty.
type Row []value.Value

// At returns the value at position i, or Empty if i is beyond the row's
// length.
func (r Row) At(i int) value.Value {
	if i < 0 || i >= len(r) {
		return value.EmptyValue()
	}
	return r[i]
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Equal compares two rows value-by-value, treating a short row's missing
// cells as Empty.
func (r Row) Equal(o Row) bool {
	n := len(r)
	if len(o) > n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if !r.At(i).Equal(o.At(i)) {
			return false
		}
	}
	return true
}
