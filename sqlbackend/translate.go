package sqlbackend

import (
	"fmt"
	"strings"

	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
)

// ExpressionToSQL recursively lowers e, substituting inputSQL for any
// Identity node (the per-row "current value at the target column" a
// calculate() step sees). Returns ok=false the moment any sub-expression
// has no safe lowering, per spec §4.8 — never partial SQL.
func (d SQLite) ExpressionToSQL(e expr.Expression, inputSQL string) (string, bool) {
	switch n := e.(type) {
	case expr.Literal:
		return d.ValueToSQL(n.Val)
	case expr.Identity:
		if inputSQL == "" {
			return "", false
		}
		return inputSQL, true
	case expr.Sibling:
		return d.ColumnIdentifier(n.Col), true
	case expr.Binary:
		lhs, ok := d.ExpressionToSQL(n.LHS, inputSQL)
		if !ok {
			return "", false
		}
		rhs, ok := d.ExpressionToSQL(n.RHS, inputSQL)
		if !ok {
			return "", false
		}
		return d.BinaryToSQL(n.Op, lhs, rhs)
	case expr.Call:
		return d.callToSQL(n, inputSQL)
	}
	return "", false
}

// callToSQL lowers the scalar functions that have a direct SQLite form.
// Anything else (Choose, RegexSubstitute, random functions, …) returns
// ok=false, so the caller falls back to the raster implementation.
func (d SQLite) callToSQL(c expr.Call, inputSQL string) (string, bool) {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		sql, ok := d.ExpressionToSQL(a, inputSQL)
		if !ok {
			return "", false
		}
		args[i] = sql
	}

	switch strings.ToLower(c.Fn.Name()) {
	case "upper":
		return fn1("UPPER", args)
	case "lower":
		return fn1("LOWER", args)
	case "length":
		return fn1("LENGTH", args)
	case "trim":
		return fn1("TRIM", args)
	case "concat":
		return "(" + strings.Join(args, " || ") + ")", true
	case "left":
		if len(args) != 2 {
			return "", false
		}
		return fmt.Sprintf("SUBSTR(%s, 1, %s)", args[0], args[1]), true
	case "right":
		if len(args) != 2 {
			return "", false
		}
		return fmt.Sprintf("SUBSTR(%s, -(%s))", args[0], args[1]), true
	case "abs", "absolute":
		return fn1("ABS", args)
	case "sqrt":
		return fn1("SQRT", args)
	case "pack":
		// Pack as a scalar call has no lowering. It is lowered only as an
		// aggregation's reduce function, in AggregationToSQL (double REPLACE
		// mirroring pack.Pack's escapes, then GROUP_CONCAT).
		return "", false
	}
	return "", false
}

func fn1(name string, args []string) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	return name + "(" + args[0] + ")", true
}

// AggregationToSQL lowers an Aggregation's reduce function to a SQL
// aggregate expression over its (already-lowered) map expression.
func (d SQLite) AggregationToSQL(agg aggregation.Aggregation) (string, bool) {
	mapSQL, ok := d.ExpressionToSQL(agg.Map, "")
	if !ok {
		return "", false
	}
	switch strings.ToLower(agg.Reduce.Name()) {
	case "sum":
		return fmt.Sprintf("SUM(%s)", mapSQL), true
	case "average":
		return fmt.Sprintf("AVG(%s)", mapSQL), true
	case "min":
		return fmt.Sprintf("MIN(%s)", mapSQL), true
	case "max":
		return fmt.Sprintf("MAX(%s)", mapSQL), true
	case "count":
		return fmt.Sprintf("SUM(CASE WHEN TYPEOF(%s) IN ('integer','real') THEN 1 ELSE 0 END)", mapSQL), true
	case "countall":
		return "COUNT(*)", true
	case "pack":
		return fmt.Sprintf(
			"GROUP_CONCAT(REPLACE(REPLACE(%s, '$', '$1'), ',', '$0'), ',')",
			mapSQL,
		), true
	}
	return "", false
}
