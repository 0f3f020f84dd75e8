package raster

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func cols(names ...string) []column.Column {
	out := make([]column.Column, len(names))
	for i, n := range names {
		out[i] = column.New(n)
	}
	return out
}

func TestRasterAppendPanicsWhenReadOnly(t *testing.T) {
	r := ReadOnlyCopy(cols("A"), nil)
	require.Panics(t, func() { r.Append(column.Row{value.NewInt(1)}) })
}

func TestRasterEqualIgnoresReadOnlyFlag(t *testing.T) {
	a := New(cols("A"), []column.Row{{value.NewInt(1)}})
	b := ReadOnlyCopy(cols("A"), []column.Row{{value.NewInt(1)}})
	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
}

func TestRasterEqualDetectsRowDifference(t *testing.T) {
	a := New(cols("A"), []column.Row{{value.NewInt(1)}})
	b := New(cols("A"), []column.Row{{value.NewInt(2)}})
	require.False(t, a.Equal(b))
}

func TestRasterDataMemoizesProducer(t *testing.T) {
	calls := 0
	d := Lazy(func() (*Raster, error) {
		calls++
		return New(cols("A"), nil), nil
	})
	_, err := d.Get()
	require.NoError(t, err)
	_, err = d.Get()
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRasterDataDeriveChains(t *testing.T) {
	base := New(cols("A"), []column.Row{{value.NewInt(1)}, {value.NewInt(2)}})
	d := New(base)
	limited := d.Derive(func(r *Raster) (*Raster, error) {
		return Limit(r, 1), nil
	})
	got, err := limited.Get()
	require.NoError(t, err)
	require.Equal(t, 1, got.RowCount())
}
