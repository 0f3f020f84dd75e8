package memsource

import (
	"testing"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/value"
	"github.com/stretchr/testify/require"
)

func rows(n int) []column.Row {
	out := make([]column.Row, n)
	for i := 0; i < n; i++ {
		out[i] = column.Row{value.NewInt(int64(i))}
	}
	return out
}

func TestSourceDeliversAllRowsAcrossBatches(t *testing.T) {
	src := NewWithBatchSize([]column.Column{column.New("A")}, rows(5), 2)

	var total int
	for {
		done := false
		src.Fetch(nil, func(batch []column.Row, hasNext bool, err error) {
			require.NoError(t, err)
			total += len(batch)
			done = !hasNext
		})
		if done {
			break
		}
	}
	require.Equal(t, 5, total)
}

func TestSourceFetchIsIdempotentAfterEnd(t *testing.T) {
	src := NewWithBatchSize([]column.Column{column.New("A")}, rows(1), 10)

	src.Fetch(nil, func(batch []column.Row, hasNext bool, err error) {
		require.Equal(t, 1, len(batch))
		require.False(t, hasNext)
	})
	src.Fetch(nil, func(batch []column.Row, hasNext bool, err error) {
		require.Equal(t, 0, len(batch))
		require.False(t, hasNext)
	})
}

func TestSourceCloneIsIndependentCursor(t *testing.T) {
	src := NewWithBatchSize([]column.Column{column.New("A")}, rows(3), 1)
	src.Fetch(nil, func(batch []column.Row, hasNext bool, err error) {})

	clone := src.Clone()
	var firstFromClone []column.Row
	clone.Fetch(nil, func(batch []column.Row, hasNext bool, err error) {
		firstFromClone = batch
	})
	d, _ := firstFromClone[0].At(0).AsInt()
	require.Equal(t, int64(0), d)
}
