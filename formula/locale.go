// Package formula implements the locale-parameterized infix formula parser
// of spec §4.5/§6: it turns a textual formula like
// `=UPPER([@Name]) & " " & (1+2)` into an expr.Expression tree.
package formula

import (
	"math"

	"github.com/gridflow/gridflow/expr/function"
	"github.com/gridflow/gridflow/value"
)

// Locale parameterizes the parser: which character is the decimal
// separator, how strings are quoted and escaped, which character separates
// function arguments, the spelling of the "current cell" reference, and the
// name tables for constants and functions.
type Locale struct {
	DecimalSeparator      rune
	StringQualifier       rune
	StringQualifierEscape string
	ArgumentSeparator     rune
	CurrentCellIdentifier string
	Constants             map[string]value.Value
	Functions             map[string]function.Function
}

// DefaultLocale is the engine's built-in, English-like locale: '.' decimal
// point, double-quoted strings with doubled-quote escaping, ';' as the
// argument separator (matching spec §4 S4's example), and "RC" for the
// current-cell reference.
func DefaultLocale() Locale {
	return Locale{
		DecimalSeparator:      '.',
		StringQualifier:       '"',
		StringQualifierEscape: `""`,
		ArgumentSeparator:     ';',
		CurrentCellIdentifier: "RC",
		Constants: map[string]value.Value{
			"true":  value.NewBool(true),
			"false": value.NewBool(false),
			"pi":    value.NewDouble(math.Pi),
		},
		Functions: function.Registry,
	}
}
