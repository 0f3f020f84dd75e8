package function

import (
	"math"

	"github.com/gridflow/gridflow/value"
	"github.com/shopspring/decimal"
)

func init() {
	register(
		unary("Negate", func(x float64) float64 { return -x }),
		unary("Absolute", math.Abs),
		unary("Sqrt", math.Sqrt),
		unary("Ln", math.Log),
		unary("Exp", math.Exp),
		unary("Sin", math.Sin),
		unary("Cos", math.Cos),
		unary("Tan", math.Tan),
		unary("Asin", math.Asin),
		unary("Acos", math.Acos),
		unary("Atan", math.Atan),
		unary("Sinh", math.Sinh),
		unary("Cosh", math.Cosh),
		unary("Tanh", math.Tanh),
		newFn("Log", Between(1, 2), func(a []value.Value) value.Value {
			x, ok := a[0].AsDouble()
			if !ok {
				return value.InvalidValue()
			}
			if len(a) == 1 {
				return value.NewDouble(math.Log10(x))
			}
			base, ok := a[1].AsDouble()
			if !ok {
				return value.InvalidValue()
			}
			return value.NewDouble(math.Log(x) / math.Log(base))
		}),
		newFn("Round", Between(1, 2), func(a []value.Value) value.Value {
			x, ok := a[0].AsDouble()
			if !ok {
				return value.InvalidValue()
			}
			digits := int32(0)
			if len(a) == 2 {
				d, ok := a[1].AsInt()
				if !ok {
					return value.InvalidValue()
				}
				digits = int32(d)
			}
			// shopspring/decimal avoids the binary-float round-trip drift
			// that plain math.Round(x*10^n)/10^n is prone to.
			rounded, _ := decimal.NewFromFloat(x).Round(digits).Float64()
			return value.NewDouble(rounded)
		}),
	)
}

func unary(name string, f func(float64) float64) Function {
	return newFn(name, Fixed(1), func(a []value.Value) value.Value {
		x, ok := a[0].AsDouble()
		if !ok {
			return value.InvalidValue()
		}
		return value.NewDouble(f(x))
	})
}
