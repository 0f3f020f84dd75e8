package data

import (
	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
)

// Join combines left and right row-wise on the given key expressions.
// Neither the stream transformer list (§4.7) nor the SQL per-operation
// lowering table (§4.8) names join, so both sides always materialize to a
// raster first; the result is a raster-backed Data.
func Join(left, right Data, leftKeys, rightKeys []expr.Expression, kind raster.JoinKind) Data {
	cols := append(append([]column.Column(nil), left.Columns()...), right.Columns()...)
	rd := raster.Lazy(func() (*raster.Raster, error) {
		lr, err := materializeSync(left)
		if err != nil {
			return nil, err
		}
		rr, err := materializeSync(right)
		if err != nil {
			return nil, err
		}
		return raster.Join(lr, rr, leftKeys, rightKeys, kind), nil
	})
	return FromRasterData(rd, cols)
}

func materializeSync(d Data) (*raster.Raster, error) {
	done := make(chan job.Fallible[*raster.Raster], 1)
	d.ToRaster().Get(func(r job.Fallible[*raster.Raster]) { done <- r })
	result := <-done
	return result.Value, result.Err
}
