package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDoubleNonFinite(t *testing.T) {
	require.True(t, NewDouble(nanValue()).IsInvalid())
	require.True(t, NewDouble(posInf()).IsInvalid())
	require.False(t, NewDouble(1.5).IsInvalid())
}

func nanValue() float64 { var z float64; return z / z }
func posInf() float64   { return 1 / zero() }
func zero() float64     { var z float64; return z }

func TestArithmeticPropagatesInvalid(t *testing.T) {
	inv := InvalidValue()
	n := NewInt(3)
	require.True(t, inv.Add(n).IsInvalid())
	require.True(t, n.Add(inv).IsInvalid())
	require.True(t, n.Div(NewInt(0)).IsInvalid())
	require.True(t, n.Mod(NewInt(0)).IsInvalid())
}

func TestDivisionByZero(t *testing.T) {
	require.True(t, NewInt(10).Div(NewInt(0)).IsInvalid())
}

func TestConcatCoercesAndPoisons(t *testing.T) {
	got := NewString("x=").Concat(NewInt(5))
	s, ok := got.AsString()
	require.True(t, ok)
	require.Equal(t, "x=5", s)

	require.True(t, NewString("a").Concat(InvalidValue()).IsInvalid())
}

func TestPow(t *testing.T) {
	got := NewInt(2).Pow(NewInt(10))
	d, ok := got.AsDouble()
	require.True(t, ok)
	require.Equal(t, 1024.0, d)
}

func TestEqualityRules(t *testing.T) {
	require.False(t, InvalidValue().Equal(InvalidValue()), "Invalid must never equal itself")
	require.True(t, NewInt(1).Equal(NewDouble(1.0)))
	require.True(t, NewString("1").Equal(NewInt(1)))
	require.True(t, NewString("abc").Equal(NewString("abc")))
	require.False(t, NewString("abc").Equal(NewString("abd")))
}

func TestOrderingWithInvalidIsFalse(t *testing.T) {
	require.False(t, InvalidValue().Less(NewInt(1)))
	require.False(t, NewInt(1).Less(InvalidValue()))
	require.False(t, InvalidValue().GreaterEqual(InvalidValue()))
}

func TestOrderingNumericVsString(t *testing.T) {
	require.True(t, NewInt(2).Less(NewInt(10)))
	require.True(t, NewString("b").Greater(NewString("a")))
}

func TestContainsCaseSensitivity(t *testing.T) {
	b, ok := NewString("Hello World").Contains(NewString("world")).AsBool()
	require.True(t, ok)
	require.True(t, b)

	b, ok = NewString("Hello World").ContainsStrict(NewString("world")).AsBool()
	require.True(t, ok)
	require.False(t, b)
}

func TestHashEqualsStringFormHash(t *testing.T) {
	require.Equal(t, NewString("42").Hash(), NewInt(42).Hash())
}

func TestAccessorsOnEmpty(t *testing.T) {
	e := EmptyValue()
	s, ok := e.AsString()
	require.True(t, ok)
	require.Equal(t, "", s)

	d, ok := e.AsDouble()
	require.True(t, ok)
	require.Equal(t, 0.0, d)
}

func TestAccessorsOnInvalidFail(t *testing.T) {
	inv := InvalidValue()
	_, ok := inv.AsString()
	require.False(t, ok)
	_, ok = inv.AsDouble()
	require.False(t, ok)
	_, ok = inv.AsInt()
	require.False(t, ok)
	_, ok = inv.AsBool()
	require.False(t, ok)
}
