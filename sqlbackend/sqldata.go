package sqlbackend

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/raster"
)

// SqlData accumulates a SQL query string across composed operations. Every
// operation wraps the previous query as a subquery. Every operation except
// Unique aliases it with a deterministic name derived from the hash of the
// prior SQL (so the same pipeline always produces the same alias, useful for
// caching/debugging); Unique's alias comes from a random uuid and differs on
// every call.
type SqlData struct {
	SQL     string
	Dialect Dialect
	Columns []column.Column
}

// FromTable starts a SqlData rooted at a physical table.
func FromTable(dialect Dialect, tableName string, columns []column.Column) SqlData {
	return SqlData{
		SQL:     fmt.Sprintf("SELECT * FROM %s", dialect.TableIdentifier(tableName)),
		Dialect: dialect,
		Columns: columns,
	}
}

func (d SqlData) alias() string {
	sum := sha256.Sum256([]byte(d.SQL))
	return fmt.Sprintf("t%x", sum[:8])
}

func (d SqlData) wrap(selectList, rest string, newCols []column.Column) SqlData {
	sql := fmt.Sprintf("SELECT %s FROM (%s) AS %s", selectList, d.SQL, d.alias())
	if rest != "" {
		sql += " " + rest
	}
	return SqlData{SQL: sql, Dialect: d.Dialect, Columns: newCols}
}

// SelectColumns keeps only the named columns, in order. Always lowers.
func (d SqlData) SelectColumns(names []column.Column) SqlData {
	var cols []column.Column
	var parts []string
	for _, name := range names {
		idx := column.IndexOf(d.Columns, name)
		if idx < 0 {
			continue
		}
		cols = append(cols, d.Columns[idx])
		parts = append(parts, d.Dialect.ColumnIdentifier(d.Columns[idx]))
	}
	return d.wrap(strings.Join(parts, ", "), "", cols)
}

// Calculate lowers a calculate() step. Returns ok=false the moment any
// target's expression has no safe SQL form; the caller must then fall back
// to the raster implementation for the whole operation, never partial
// SQL (spec §7).
func (d SqlData) Calculate(targets []raster.CalcTarget) (SqlData, bool) {
	cols := append([]column.Column(nil), d.Columns...)
	colIdx := map[string]int{}
	for i, c := range cols {
		colIdx[c.Key()] = i
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = d.Dialect.ColumnIdentifier(c) + " AS " + d.Dialect.ColumnIdentifier(c)
	}

	for _, t := range targets {
		key := t.Column.Key()
		input := "NULL"
		idx, exists := colIdx[key]
		if exists {
			input = d.Dialect.ColumnIdentifier(cols[idx])
		}
		sql, ok := d.Dialect.ExpressionToSQL(t.Expr, input)
		if !ok {
			return SqlData{}, false
		}
		rendered := sql + " AS " + d.Dialect.ColumnIdentifier(t.Column)
		if exists {
			parts[idx] = rendered
		} else {
			cols = append(cols, t.Column)
			colIdx[key] = len(cols) - 1
			parts = append(parts, rendered)
		}
	}
	return d.wrap(strings.Join(parts, ", "), "", cols), true
}

// Limit lowers limit(n).
func (d SqlData) Limit(n int) SqlData {
	return d.wrap("*", fmt.Sprintf("LIMIT %d", n), d.Columns)
}

// Offset lowers offset(n).
func (d SqlData) Offset(n int) SqlData {
	return d.wrap("*", fmt.Sprintf("LIMIT -1 OFFSET %d", n), d.Columns)
}

// Distinct lowers distinct.
func (d SqlData) Distinct() SqlData {
	return SqlData{
		SQL:     fmt.Sprintf("SELECT DISTINCT * FROM (%s) AS %s", d.SQL, d.alias()),
		Dialect: d.Dialect,
		Columns: d.Columns,
	}
}

// Random lowers random(n): order by the dialect's random function, limit n.
func (d SqlData) Random(n int) SqlData {
	return d.wrap("*", fmt.Sprintf("ORDER BY %s LIMIT %d", d.Dialect.RandomOrderExpression(), n), d.Columns)
}

// Filter lowers a WHERE clause. Returns ok=false if cond has no safe
// lowering.
func (d SqlData) Filter(cond expr.Expression) (SqlData, bool) {
	sql, ok := d.Dialect.ExpressionToSQL(cond, "")
	if !ok {
		return SqlData{}, false
	}
	return d.wrap("*", "WHERE "+sql, d.Columns), true
}

// Sort lowers sort(orders). Returns ok=false if any order expression has
// no safe lowering.
func (d SqlData) Sort(orders []raster.SortOrder) (SqlData, bool) {
	parts := make([]string, len(orders))
	for i, o := range orders {
		sql, ok := d.Dialect.ExpressionToSQL(o.Expr, "")
		if !ok {
			return SqlData{}, false
		}
		if o.ForceNumeric {
			sql = "CAST(" + sql + " AS REAL)"
		} else if o.ForceString {
			sql = "CAST(" + sql + " AS TEXT)"
		}
		dir := "ASC"
		if !o.Ascending {
			dir = "DESC"
		}
		parts[i] = sql + " " + dir
	}
	return d.wrap("*", "ORDER BY "+strings.Join(parts, ", "), d.Columns), true
}

// Aggregate lowers aggregate(groups, values). Returns ok=false if any
// group or value expression has no safe lowering.
func (d SqlData) Aggregate(groups []raster.GroupSpec, values []aggregation.Aggregation) (SqlData, bool) {
	var cols []column.Column
	var selectParts []string
	var groupParts []string

	for _, g := range groups {
		sql, ok := d.Dialect.ExpressionToSQL(g.Expr, "")
		if !ok {
			return SqlData{}, false
		}
		cols = append(cols, g.Column)
		selectParts = append(selectParts, sql+" AS "+d.Dialect.ColumnIdentifier(g.Column))
		groupParts = append(groupParts, sql)
	}
	for _, v := range values {
		sql, ok := d.Dialect.AggregationToSQL(v)
		if !ok {
			return SqlData{}, false
		}
		cols = append(cols, v.Target)
		selectParts = append(selectParts, sql+" AS "+d.Dialect.ColumnIdentifier(v.Target))
	}

	rest := ""
	if len(groupParts) > 0 {
		rest = "GROUP BY " + strings.Join(groupParts, ", ")
	}
	return d.wrap(strings.Join(selectParts, ", "), rest, cols), true
}

// Unique lowers unique(expr): SELECT DISTINCT expr AS _value FROM (prev),
// aliasing the subquery with a name built from a fresh uuid. No view or
// table is created.
func (d SqlData) Unique(e expr.Expression) (SqlData, bool) {
	sql, ok := d.Dialect.ExpressionToSQL(e, "")
	if !ok {
		return SqlData{}, false
	}
	valueCol := column.New("_value")
	tempView := "u_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return SqlData{
		SQL:     fmt.Sprintf("SELECT DISTINCT %s AS %s FROM (%s) AS %s", sql, d.Dialect.ColumnIdentifier(valueCol), d.SQL, tempView),
		Dialect: d.Dialect,
		Columns: []column.Column{valueCol},
	}, true
}
