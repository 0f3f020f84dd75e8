package function

import "github.com/gridflow/gridflow/value"

func init() {
	register(
		newFn("And", Any(1), func(a []value.Value) value.Value {
			for _, v := range a {
				b, ok := v.AsBool()
				if !ok {
					return value.InvalidValue()
				}
				if !b {
					return value.NewBool(false)
				}
			}
			return value.NewBool(true)
		}),
		newFn("Or", Any(1), func(a []value.Value) value.Value {
			for _, v := range a {
				b, ok := v.AsBool()
				if !ok {
					return value.InvalidValue()
				}
				if b {
					return value.NewBool(true)
				}
			}
			return value.NewBool(false)
		}),
		newFn("Xor", Fixed(2), func(a []value.Value) value.Value {
			x, ok1 := a[0].AsBool()
			y, ok2 := a[1].AsBool()
			if !ok1 || !ok2 {
				return value.InvalidValue()
			}
			return value.NewBool(x != y)
		}),
		newFn("Not", Fixed(1), func(a []value.Value) value.Value {
			b, ok := a[0].AsBool()
			if !ok {
				return value.InvalidValue()
			}
			return value.NewBool(!b)
		}),
		newFn("If", Fixed(3), func(a []value.Value) value.Value {
			cond, ok := a[0].AsBool()
			if !ok {
				return value.InvalidValue()
			}
			if cond {
				return a[1]
			}
			return a[2]
		}),
		newFn("IfError", Fixed(2), func(a []value.Value) value.Value {
			if a[0].IsInvalid() {
				return a[1]
			}
			return a[0]
		}),
		newFn("Coalesce", Any(1), func(a []value.Value) value.Value {
			for _, v := range a {
				if !v.IsInvalid() && !v.IsEmpty() {
					return v
				}
			}
			return value.EmptyValue()
		}),
	)
}
