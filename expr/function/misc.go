package function

import (
	"github.com/gridflow/gridflow/pack"
	"github.com/gridflow/gridflow/value"
)

func init() {
	register(
		newFn("Pack", Any(0), func(a []value.Value) value.Value {
			items := make([]string, len(a))
			for i, v := range a {
				if v.IsInvalid() {
					return value.InvalidValue()
				}
				s, ok := v.AsString()
				if !ok {
					return value.InvalidValue()
				}
				items[i] = s
			}
			return value.NewString(pack.Pack(items, ""))
		}),
		newFn("Choose", Any(2), func(a []value.Value) value.Value {
			idx, ok := a[0].AsInt()
			if !ok {
				return value.InvalidValue()
			}
			choices := a[1:]
			if idx < 0 || int(idx) >= len(choices) {
				return value.InvalidValue()
			}
			return choices[idx]
		}),
	)
}
