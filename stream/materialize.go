package stream

import (
	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/raster"
)

// Materialize drains s into a raster.Raster, reporting progress as
// "rows fetched so far" is unknowable in absolute terms, so it reports 0
// until completion and 1 once done — consistent with a source that cannot
// supply a total row count up front. Used by operations the stream layer
// cannot implement itself (transpose, aggregate, pivot, random): they fall
// back by materializing and delegating to the raster implementation.
func Materialize(s Stream) *job.Future[*raster.Raster] {
	return job.NewFuture(func(j *job.Job, cb job.Callback[*raster.Raster]) {
		var cols []column.Column
		s.ColumnNames(func(c []column.Column) { cols = c })

		var rows []column.Row
		// Each Fetch is issued only after the previous consumer call has
		// returned, so fetches on s never overlap.
		for more := true; more; {
			more = false
			if j.Cancelled() {
				cb(job.Fallible[*raster.Raster]{Err: ErrCancelled.New()})
				return
			}
			done := make(chan struct{})
			s.Fetch(j, func(batch []column.Row, hasNext bool, err error) {
				defer close(done)
				if err != nil {
					cb(job.Fallible[*raster.Raster]{Err: err})
					return
				}
				rows = append(rows, batch...)
				if !hasNext {
					j.ReportProgress("materialize", 1)
					cb(job.Fallible[*raster.Raster]{Value: raster.ReadOnlyCopy(cols, rows)})
					return
				}
				more = true
			})
			<-done
		}
	}, 0, nil)
}
