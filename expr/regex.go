package expr

import (
	"regexp"

	"github.com/gridflow/gridflow/value"
)

// applyRegex implements the `regex`/`regex_strict` binary operators: l
// matched against the pattern in r. `regex` folds case by prefixing the
// pattern with the (?i) flag before compiling; `regex_strict` compiles the
// pattern as given.
func applyRegex(l, r value.Value, strict bool) value.Value {
	if l.IsInvalid() || r.IsInvalid() {
		return value.InvalidValue()
	}
	s, ok1 := l.AsString()
	pattern, ok2 := r.AsString()
	if !ok1 || !ok2 {
		return value.InvalidValue()
	}
	if !strict {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return value.InvalidValue()
	}
	return value.NewBool(re.MatchString(s))
}
