package stream

import (
	"sync"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/job"
)

// columnsTransformer projects each incoming row down to a fixed set of
// columns, resolving their positions against the source schema once, on
// first pull.
type columnsTransformer struct {
	source Stream
	wanted []column.Column

	guard

	once    sync.Once
	indices []int
	cols    []column.Column
}

// ColumnsTransformer wraps source, keeping only wanted columns in that
// order. Unknown columns are dropped silently, matching selectColumns.
func ColumnsTransformer(source Stream, wanted []column.Column) Stream {
	return &columnsTransformer{source: source, wanted: wanted}
}

func (c *columnsTransformer) resolve() {
	c.once.Do(func() {
		c.source.ColumnNames(func(sourceCols []column.Column) {
			for _, w := range c.wanted {
				idx := column.IndexOf(sourceCols, w)
				if idx < 0 {
					continue
				}
				c.indices = append(c.indices, idx)
				c.cols = append(c.cols, sourceCols[idx])
			}
		})
	})
}

func (c *columnsTransformer) ColumnNames(cb func([]column.Column)) {
	c.resolve()
	cb(c.cols)
}

func (c *columnsTransformer) Clone() Stream {
	return &columnsTransformer{source: c.source.Clone(), wanted: c.wanted}
}

func (c *columnsTransformer) Fetch(j *job.Job, consumer Consumer) {
	c.guard.enter()
	defer c.guard.leave()
	c.resolve()

	c.source.Fetch(j, func(rows []column.Row, hasNext bool, err error) {
		if err != nil {
			consumer(nil, false, err)
			return
		}
		out := make([]column.Row, len(rows))
		for i, row := range rows {
			projected := make(column.Row, len(c.indices))
			for k, idx := range c.indices {
				projected[k] = row.At(idx)
			}
			out[i] = projected
		}
		consumer(out, hasNext, nil)
	})
}
