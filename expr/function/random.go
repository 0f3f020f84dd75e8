package function

import (
	"math/rand"

	"github.com/gridflow/gridflow/value"
)

func init() {
	register(
		newNonDeterministicFn("Random", Fixed(0), func(a []value.Value) value.Value {
			return value.NewDouble(rand.Float64())
		}),
		newNonDeterministicFn("RandomBetween", Fixed(2), func(a []value.Value) value.Value {
			lo, ok1 := a[0].AsInt()
			hi, ok2 := a[1].AsInt()
			if !ok1 || !ok2 || hi < lo {
				return value.InvalidValue()
			}
			return value.NewInt(lo + rand.Int63n(hi-lo+1))
		}),
		newNonDeterministicFn("RandomItem", Any(1), func(a []value.Value) value.Value {
			return a[rand.Intn(len(a))]
		}),
	)
}
