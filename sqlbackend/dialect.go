// Package sqlbackend translates pipeline operations into SQL text (spec
// §4.8): a Dialect defines quoting and per-node lowering; SqlData wraps an
// accumulated query plus the Dialect and reports ok=false whenever a
// sub-expression has no safe SQL form, so the data package can fall back to
// the raster implementation.
package sqlbackend

import (
	"fmt"
	"strings"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/aggregation"
	"github.com/gridflow/gridflow/value"
)

// Dialect lowers values, columns and expressions into one SQL flavor's
// syntax. ExpressionToSQL and AggregationToSQL return ok=false (the spec's
// "None") when no safe lowering exists; the caller then falls back to the
// stream/raster implementation of the same operation.
type Dialect interface {
	StringQualifier() string
	StringEscape() string
	IdentifierQualifier() string

	ColumnIdentifier(c column.Column) string
	TableIdentifier(alias string) string

	ValueToSQL(v value.Value) (string, bool)
	BinaryToSQL(op expr.BinaryOp, lhs, rhs string) (string, bool)
	ExpressionToSQL(e expr.Expression, inputSQL string) (string, bool)
	AggregationToSQL(agg aggregation.Aggregation) (string, bool)

	RandomOrderExpression() string
}

// SQLite is the engine's default dialect, grounded on the value/type
// conversion idiom in driver/value.go: translate to a concrete
// representation, or report that none exists.
type SQLite struct{}

func (SQLite) StringQualifier() string       { return `'` }
func (SQLite) StringEscape() string          { return `''` }
func (SQLite) IdentifierQualifier() string   { return `"` }
func (SQLite) RandomOrderExpression() string { return "RANDOM()" }

func (d SQLite) quoteString(s string) string {
	return d.StringQualifier() + strings.ReplaceAll(s, d.StringQualifier(), d.StringEscape()) + d.StringQualifier()
}

func (d SQLite) ColumnIdentifier(c column.Column) string {
	q := d.IdentifierQualifier()
	return q + strings.ReplaceAll(c.Name(), q, q+q) + q
}

func (d SQLite) TableIdentifier(alias string) string {
	q := d.IdentifierQualifier()
	return q + alias + q
}

// ValueToSQL renders a literal Value. Invalid renders as the reference
// implementation's canonical error-producing expression, (1/0); Empty
// renders as NULL, matching SQLite's untyped-absence convention.
func (d SQLite) ValueToSQL(v value.Value) (string, bool) {
	switch v.Kind() {
	case value.Invalid:
		return "(1/0)", true
	case value.Empty:
		return "NULL", true
	case value.Bool:
		b, _ := v.AsBool()
		if b {
			return "(1=1)", true
		}
		return "(1=0)", true
	case value.Int:
		i, _ := v.AsInt()
		return fmt.Sprintf("%d", i), true
	case value.Double:
		f, _ := v.AsDouble()
		return fmt.Sprintf("%v", f), true
	case value.String:
		s, _ := v.AsString()
		return d.quoteString(s), true
	}
	return "", false
}

func (d SQLite) BinaryToSQL(op expr.BinaryOp, lhs, rhs string) (string, bool) {
	switch op {
	case expr.OpAdd:
		return paren(lhs + " + " + rhs), true
	case expr.OpSub:
		return paren(lhs + " - " + rhs), true
	case expr.OpMul:
		return paren(lhs + " * " + rhs), true
	case expr.OpDiv:
		return paren(lhs + " / " + rhs), true
	case expr.OpMod:
		return paren(lhs + " % " + rhs), true
	case expr.OpPow:
		return fmt.Sprintf("POWER(%s, %s)", lhs, rhs), true
	case expr.OpConcat:
		return fmt.Sprintf("(%s || %s)", lhs, rhs), true
	case expr.OpGT:
		return paren(lhs + " > " + rhs), true
	case expr.OpLT:
		return paren(lhs + " < " + rhs), true
	case expr.OpGTE:
		return paren(lhs + " >= " + rhs), true
	case expr.OpLTE:
		return paren(lhs + " <= " + rhs), true
	case expr.OpEQ:
		return paren(lhs + " = " + rhs), true
	case expr.OpNEQ:
		return paren(lhs + " <> " + rhs), true
	case expr.OpContains:
		return fmt.Sprintf("(%s LIKE '%%' || %s || '%%' COLLATE NOCASE)", lhs, rhs), true
	case expr.OpContainsStrict:
		return fmt.Sprintf("(%s LIKE '%%' || %s || '%%')", lhs, rhs), true
	}
	// OpRegex/OpRegexStrict have no safe SQLite-builtin lowering.
	return "", false
}

func paren(s string) string { return "(" + s + ")" }
