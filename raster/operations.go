package raster

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/value"
)

// CalcTarget pairs a target column with the expression that computes it.
// calculate() takes an ordered slice (not a map) so that feeding the same
// target column twice in one call has the deterministic, caller-controlled
// "last write wins" semantics spec §9's Open Question resolves on.
type CalcTarget struct {
	Column column.Column
	Expr   expr.Expression
}

// Transpose makes the first column of r become the new header row, and
// every other column of r become a row. Always read-only, per §4.6.
func Transpose(r *Raster) *Raster {
	if len(r.Columns) == 0 {
		return ReadOnlyCopy(nil, nil)
	}
	newCols := make([]column.Column, 0, r.RowCount()+1)
	newCols = append(newCols, column.New(r.Columns[0].Name()))
	for i := 0; i < r.RowCount(); i++ {
		label, _ := r.Rows[i].At(0).AsString()
		newCols = append(newCols, column.New(label))
	}

	newRows := make([]column.Row, 0, len(r.Columns)-1)
	for c := 1; c < len(r.Columns); c++ {
		row := make(column.Row, 0, r.RowCount()+1)
		row = append(row, value.NewString(r.Columns[c].Name()))
		for ri := 0; ri < r.RowCount(); ri++ {
			row = append(row, r.Rows[ri].At(c))
		}
		newRows = append(newRows, row)
	}
	return ReadOnlyCopy(newCols, newRows)
}

// SelectColumns keeps only the named columns, in the given order. Unknown
// columns are dropped silently.
func SelectColumns(r *Raster, names []column.Column) *Raster {
	var keepIdx []int
	var cols []column.Column
	for _, name := range names {
		idx := r.IndexOfColumn(name)
		if idx < 0 {
			continue
		}
		keepIdx = append(keepIdx, idx)
		cols = append(cols, r.Columns[idx])
	}
	rows := make([]column.Row, r.RowCount())
	for i, row := range r.Rows {
		out := make(column.Row, len(keepIdx))
		for j, idx := range keepIdx {
			out[j] = row.At(idx)
		}
		rows[i] = out
	}
	return ReadOnlyCopy(cols, rows)
}

// Calculate replaces existing target columns in place and appends new ones
// at the end, in the order targets lists them. Each target's expression
// sees the per-row current value at its own column (or Empty if absent) as
// the Identity input.
func Calculate(r *Raster, targets []CalcTarget) *Raster {
	cols := append([]column.Column(nil), r.Columns...)
	colIdx := map[string]int{}
	for i, c := range cols {
		colIdx[c.Key()] = i
	}

	order := make([]column.Column, 0, len(targets))
	exprs := make([]expr.Expression, 0, len(targets))
	seen := map[string]int{}
	for _, t := range targets {
		key := t.Column.Key()
		if pos, ok := seen[key]; ok {
			exprs[pos] = t.Expr
			continue
		}
		if idx, ok := colIdx[key]; ok {
			// existing column: record its position for in-place rewrite
			seen[key] = len(order)
			order = append(order, cols[idx])
			exprs = append(exprs, t.Expr)
		} else {
			seen[key] = len(order)
			order = append(order, t.Column)
			exprs = append(exprs, t.Expr)
			cols = append(cols, t.Column)
			colIdx[key] = len(cols) - 1
		}
	}

	rows := make([]column.Row, r.RowCount())
	for i, row := range r.Rows {
		out := row.Clone()
		for len(out) < len(r.Columns) {
			out = append(out, value.EmptyValue())
		}
		for len(out) < len(cols) {
			out = append(out, value.EmptyValue())
		}
		for j, tc := range order {
			idx := colIdx[tc.Key()]
			input := out.At(idx)
			out[idx] = exprs[j].Apply(row, r.Columns, input)
		}
		rows[i] = out
	}
	return ReadOnlyCopy(cols, rows)
}

// Limit keeps the first min(n, len(rows)) rows.
func Limit(r *Raster, n int) *Raster {
	if n > r.RowCount() {
		n = r.RowCount()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]column.Row, n)
	copy(rows, r.Rows[:n])
	return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
}

// Offset drops the first n rows.
func Offset(r *Raster, n int) *Raster {
	if n > r.RowCount() {
		n = r.RowCount()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]column.Row, r.RowCount()-n)
	copy(rows, r.Rows[n:])
	return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
}

// Random samples without replacement: attach a uniform random key to each
// row, sort by key ascending, take the first min(n, len) rows.
func Random(r *Raster, n int) *Raster {
	type keyed struct {
		key float64
		row column.Row
	}
	ks := make([]keyed, r.RowCount())
	for i, row := range r.Rows {
		ks[i] = keyed{key: rand.Float64(), row: row}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	if n > len(ks) {
		n = len(ks)
	}
	if n < 0 {
		n = 0
	}
	rows := make([]column.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = ks[i].row
	}
	return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
}

// Distinct preserves the first occurrence of each row, where uniqueness is
// keyed by the row's value sequence (coerced string form, per value.Hash).
func Distinct(r *Raster) *Raster {
	seen := map[string]bool{}
	var rows []column.Row
	for _, row := range r.Rows {
		k := rowKey(row, len(r.Columns))
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, row)
	}
	return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
}

func rowKey(row column.Row, width int) string {
	var sb strings.Builder
	for i := 0; i < width; i++ {
		v := row.At(i)
		s, ok := v.AsString()
		if !ok {
			s = "\x00invalid"
		}
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
		sb.WriteByte('|')
	}
	return sb.String()
}

// Unique returns the distinct values of expr evaluated per row, in order of
// first occurrence.
func Unique(r *Raster, e expr.Expression) []value.Value {
	seen := map[string]bool{}
	var out []value.Value
	for _, row := range r.Rows {
		v := e.Apply(row, r.Columns, value.EmptyValue())
		k := valueKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func valueKey(v value.Value) string {
	s, ok := v.AsString()
	if !ok {
		return "\x00invalid"
	}
	return s
}

// GroupSpec is one grouping key of an aggregate() call.
type GroupSpec struct {
	Column column.Column
	Expr   expr.Expression
}

// Aggregate groups rows by the tuple of group-expression results (in the
// iteration order GroupSpecs are given), and reduces each value Aggregation
// over the rows in each group. Output columns are groups first (in order),
// then values (in order), per §4.6.
func Aggregate(r *Raster, groups []GroupSpec, values []aggregation.Aggregation) *Raster {
	type groupState struct {
		keyValues []value.Value
		bags      []*aggregation.Bag
	}
	order := []string{}
	states := map[string]*groupState{}

	for _, row := range r.Rows {
		keyVals := make([]value.Value, len(groups))
		var keyParts []string
		for i, g := range groups {
			keyVals[i] = g.Expr.Apply(row, r.Columns, value.EmptyValue())
			keyParts = append(keyParts, valueKey(keyVals[i]))
		}
		key := strings.Join(keyParts, "\x1f")

		st, ok := states[key]
		if !ok {
			st = &groupState{keyValues: keyVals}
			st.bags = make([]*aggregation.Bag, len(values))
			for i := range values {
				st.bags[i] = &aggregation.Bag{}
			}
			states[key] = st
			order = append(order, key)
		}
		for i, v := range values {
			st.bags[i].Add(v.MapRow(row, r.Columns))
		}
	}

	cols := make([]column.Column, 0, len(groups)+len(values))
	for _, g := range groups {
		cols = append(cols, g.Column)
	}
	for _, v := range values {
		cols = append(cols, v.Target)
	}

	rows := make([]column.Row, 0, len(order))
	for _, key := range order {
		st := states[key]
		row := make(column.Row, 0, len(cols))
		row = append(row, st.keyValues...)
		for i, v := range values {
			row = append(row, v.ReduceBag(st.bags[i]))
		}
		rows = append(rows, row)
	}
	return ReadOnlyCopy(cols, rows)
}

// Pivot groups rows by (vertical-tuple, horizontal-tuple). Output columns
// are the vertical columns, followed by, for each observed horizontal
// tuple, the value columns labeled "h1_h2_..._value". Missing cells are
// Invalid.
func Pivot(r *Raster, vertical, horizontal []column.Column, values []aggregation.Aggregation) *Raster {
	vIdx := indices(r, vertical)
	hIdx := indices(r, horizontal)

	type vGroup struct {
		keyVals []value.Value
		cells   map[string][]*aggregation.Bag // horizontal label -> per-value bags
	}
	vOrder := []string{}
	vGroups := map[string]*vGroup{}
	hLabelOrder := []string{}
	hLabelSeen := map[string]bool{}

	for _, row := range r.Rows {
		vParts := make([]string, len(vIdx))
		vVals := make([]value.Value, len(vIdx))
		for i, idx := range vIdx {
			vVals[i] = row.At(idx)
			vParts[i] = valueKey(vVals[i])
		}
		vKey := strings.Join(vParts, "\x1f")

		hParts := make([]string, len(hIdx))
		for i, idx := range hIdx {
			s, _ := row.At(idx).AsString()
			hParts[i] = s
		}
		hLabel := strings.Join(hParts, "_")
		if hLabel != "" {
			hLabel += "_"
		}

		vg, ok := vGroups[vKey]
		if !ok {
			vg = &vGroup{keyVals: vVals, cells: map[string][]*aggregation.Bag{}}
			vGroups[vKey] = vg
			vOrder = append(vOrder, vKey)
		}
		bags, ok := vg.cells[hLabel]
		if !ok {
			bags = make([]*aggregation.Bag, len(values))
			for i := range bags {
				bags[i] = &aggregation.Bag{}
			}
			vg.cells[hLabel] = bags
		}
		if !hLabelSeen[hLabel] {
			hLabelSeen[hLabel] = true
			hLabelOrder = append(hLabelOrder, hLabel)
		}
		for i, v := range values {
			bags[i].Add(v.MapRow(row, r.Columns))
		}
	}

	cols := make([]column.Column, 0, len(vertical)+len(hLabelOrder)*len(values))
	cols = append(cols, vertical...)
	for _, hLabel := range hLabelOrder {
		for _, v := range values {
			cols = append(cols, column.New(hLabel+v.Target.Name()))
		}
	}

	rows := make([]column.Row, 0, len(vOrder))
	for _, vKey := range vOrder {
		vg := vGroups[vKey]
		row := make(column.Row, 0, len(cols))
		row = append(row, vg.keyVals...)
		for _, hLabel := range hLabelOrder {
			bags, ok := vg.cells[hLabel]
			for i, v := range values {
				if !ok {
					row = append(row, value.InvalidValue())
					continue
				}
				row = append(row, v.ReduceBag(bags[i]))
			}
		}
		rows = append(rows, row)
	}
	return ReadOnlyCopy(cols, rows)
}

func indices(r *Raster, cols []column.Column) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = r.IndexOfColumn(c)
	}
	return out
}

// SortOrder describes one ORDER BY key.
type SortOrder struct {
	Expr         expr.Expression
	Ascending    bool
	ForceNumeric bool
	ForceString  bool
}

// Sort orders rows by the given keys, stably.
func Sort(r *Raster, orders []SortOrder) *Raster {
	rows := append([]column.Row(nil), r.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a := o.Expr.Apply(rows[i], r.Columns, value.EmptyValue())
			b := o.Expr.Apply(rows[j], r.Columns, value.EmptyValue())
			if o.ForceString {
				as, _ := a.AsString()
				bs, _ := b.AsString()
				a, b = value.NewString(as), value.NewString(bs)
			} else if o.ForceNumeric {
				af, _ := a.AsDouble()
				bf, _ := b.AsDouble()
				a, b = value.NewDouble(af), value.NewDouble(bf)
			}
			if a.Equal(b) {
				continue
			}
			if o.Ascending {
				return a.Less(b)
			}
			return a.Greater(b)
		}
		return false
	})
	return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
}

// JoinKind selects join semantics.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

// Join combines r (left) with right, matching leftKeys against rightKeys
// positionally. Output columns are the left schema followed by the right
// schema; for LeftJoin, an unmatched left row gets Empty right-hand cells.
func Join(r, right *Raster, leftKeys, rightKeys []expr.Expression, kind JoinKind) *Raster {
	index := map[string][]column.Row{}
	for _, row := range right.Rows {
		k := joinKey(row, right.Columns, rightKeys)
		index[k] = append(index[k], row)
	}

	cols := append(append([]column.Column(nil), r.Columns...), right.Columns...)
	var rows []column.Row
	for _, lrow := range r.Rows {
		k := joinKey(lrow, r.Columns, leftKeys)
		matches := index[k]
		if len(matches) == 0 {
			if kind == LeftJoin {
				out := append(append(column.Row(nil), lrow...), emptyRow(len(right.Columns))...)
				rows = append(rows, out)
			}
			continue
		}
		for _, rrow := range matches {
			out := append(append(column.Row(nil), lrow...), rrow...)
			rows = append(rows, out)
		}
	}
	return ReadOnlyCopy(cols, rows)
}

func joinKey(row column.Row, cols []column.Column, keys []expr.Expression) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = valueKey(k.Apply(row, cols, value.EmptyValue()))
	}
	return strings.Join(parts, "\x1f")
}

func emptyRow(width int) column.Row {
	out := make(column.Row, width)
	for i := range out {
		out[i] = value.EmptyValue()
	}
	return out
}

// Flatten explodes a Pack-encoded column back into one row per item,
// repeating the rest of the row's cells for each item (the inverse
// direction of Pack's "double REPLACE + GROUP_CONCAT" SQL lowering).
func Flatten(r *Raster, target column.Column, items func(string) []string) *Raster {
	idx := r.IndexOfColumn(target)
	if idx < 0 {
		return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), append([]column.Row(nil), r.Rows...))
	}
	var rows []column.Row
	for _, row := range r.Rows {
		s, ok := row.At(idx).AsString()
		if !ok {
			rows = append(rows, row)
			continue
		}
		for _, item := range items(s) {
			out := row.Clone()
			for len(out) <= idx {
				out = append(out, value.EmptyValue())
			}
			out[idx] = value.NewString(item)
			rows = append(rows, out)
		}
	}
	return ReadOnlyCopy(append([]column.Column(nil), r.Columns...), rows)
}
