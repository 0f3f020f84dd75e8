package formula

import (
	"strings"

	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
)

func litDouble(f float64) expr.Expression { return expr.Literal{Val: value.NewDouble(f)} }
func litString(s string) expr.Expression  { return expr.Literal{Val: value.NewString(s)} }

// lookupFunction matches name against the locale's function table
// case-insensitively, per §4.5.
func lookupFunction(l Locale, name string) (function.Function, bool) {
	for fname, f := range l.Functions {
		if strings.EqualFold(fname, name) {
			return f, true
		}
	}
	return nil, false
}
