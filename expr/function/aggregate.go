package function

import "github.com/gridflow/gridflow/value"

func init() {
	register(
		newFn("Sum", Any(0), func(a []value.Value) value.Value {
			sum := 0.0
			for _, v := range a {
				if d, ok := v.AsDouble(); ok && !v.IsInvalid() {
					sum += d
				}
			}
			return value.NewDouble(sum)
		}),
		newFn("Count", Any(0), func(a []value.Value) value.Value {
			n := int64(0)
			for _, v := range a {
				switch v.Kind() {
				case value.Int, value.Double:
					n++
				}
			}
			return value.NewInt(n)
		}),
		newFn("CountAll", Any(0), func(a []value.Value) value.Value {
			return value.NewInt(int64(len(a)))
		}),
		newFn("Average", Any(0), func(a []value.Value) value.Value {
			if len(a) == 0 {
				return value.InvalidValue()
			}
			sum := 0.0
			for _, v := range a {
				if d, ok := v.AsDouble(); ok && !v.IsInvalid() {
					sum += d
				}
			}
			return value.NewDouble(sum / float64(len(a)))
		}),
		newFn("Min", Any(1), func(a []value.Value) value.Value { return extremum(a, true) }),
		newFn("Max", Any(1), func(a []value.Value) value.Value { return extremum(a, false) }),
	)
}

// extremum finds the Min (wantMin=true) or Max over the valid, comparable
// values of a, skipping Invalid entries. An all-Invalid bag yields Invalid.
func extremum(a []value.Value, wantMin bool) value.Value {
	var best value.Value
	have := false
	for _, v := range a {
		if v.IsInvalid() {
			continue
		}
		if !have {
			best = v
			have = true
			continue
		}
		if wantMin && v.Less(best) {
			best = v
		}
		if !wantMin && v.Greater(best) {
			best = v
		}
	}
	if !have {
		return value.InvalidValue()
	}
	return best
}
