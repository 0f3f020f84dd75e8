package function

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gridflow/gridflow/value"
)

func init() {
	register(
		newFn("Upper", Fixed(1), func(a []value.Value) value.Value {
			s, ok := a[0].AsString()
			if !ok {
				return value.InvalidValue()
			}
			return value.NewString(strings.ToUpper(s))
		}),
		newFn("Lower", Fixed(1), func(a []value.Value) value.Value {
			s, ok := a[0].AsString()
			if !ok {
				return value.InvalidValue()
			}
			return value.NewString(strings.ToLower(s))
		}),
		newFn("Left", Fixed(2), func(a []value.Value) value.Value {
			s, n, ok := stringAndInt(a[0], a[1])
			if !ok {
				return value.InvalidValue()
			}
			r := []rune(s)
			n = clamp(n, 0, len(r))
			return value.NewString(string(r[:n]))
		}),
		newFn("Right", Fixed(2), func(a []value.Value) value.Value {
			s, n, ok := stringAndInt(a[0], a[1])
			if !ok {
				return value.InvalidValue()
			}
			r := []rune(s)
			n = clamp(n, 0, len(r))
			return value.NewString(string(r[len(r)-n:]))
		}),
		newFn("Mid", Fixed(3), func(a []value.Value) value.Value {
			s, ok := a[0].AsString()
			start, ok2 := a[1].AsInt()
			length, ok3 := a[2].AsInt()
			if !ok || !ok2 || !ok3 {
				return value.InvalidValue()
			}
			r := []rune(s)
			// 1-based start, clamp to end.
			from := clamp(int(start)-1, 0, len(r))
			to := clamp(from+int(length), from, len(r))
			return value.NewString(string(r[from:to]))
		}),
		newFn("Length", Fixed(1), func(a []value.Value) value.Value {
			s, ok := a[0].AsString()
			if !ok {
				return value.InvalidValue()
			}
			return value.NewInt(int64(len([]rune(s))))
		}),
		newFn("Substitute", Fixed(3), func(a []value.Value) value.Value {
			s, ok1 := a[0].AsString()
			find, ok2 := a[1].AsString()
			rep, ok3 := a[2].AsString()
			if !ok1 || !ok2 || !ok3 {
				return value.InvalidValue()
			}
			return value.NewString(strings.ReplaceAll(s, find, rep))
		}),
		newFn("RegexSubstitute", Fixed(3), func(a []value.Value) value.Value {
			s, ok1 := a[0].AsString()
			pattern, ok2 := a[1].AsString()
			rep, ok3 := a[2].AsString()
			if !ok1 || !ok2 || !ok3 {
				return value.InvalidValue()
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return value.InvalidValue()
			}
			return value.NewString(re.ReplaceAllString(s, rep))
		}),
		newFn("Trim", Fixed(1), func(a []value.Value) value.Value {
			s, ok := a[0].AsString()
			if !ok {
				return value.InvalidValue()
			}
			return value.NewString(strings.TrimFunc(s, func(r rune) bool {
				return unicode.IsSpace(r)
			}))
		}),
		newFn("Concat", Any(0), func(a []value.Value) value.Value {
			var sb strings.Builder
			for _, v := range a {
				if v.IsInvalid() {
					return value.InvalidValue()
				}
				s, ok := v.AsString()
				if !ok {
					return value.InvalidValue()
				}
				sb.WriteString(s)
			}
			return value.NewString(sb.String())
		}),
	)
}

func stringAndInt(a, b value.Value) (string, int, bool) {
	s, ok1 := a.AsString()
	n, ok2 := b.AsInt()
	if !ok1 || !ok2 {
		return "", 0, false
	}
	return s, int(n), true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
