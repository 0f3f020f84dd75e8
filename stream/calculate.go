package stream

import (
	"sync"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/expr"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/value"
)

// CalcTarget pairs a target column with the expression that computes it,
// mirroring raster.CalcTarget for the streaming path.
type CalcTarget struct {
	Column column.Column
	Expr   expr.Expression
}

// calculateTransformer appends/overwrites computed columns per row, using
// prepare()-folded expressions (constant subtrees evaluated once, not
// per-row).
type calculateTransformer struct {
	source  Stream
	targets []CalcTarget

	guard

	once    sync.Once
	cols    []column.Column
	exprIdx []int
	exprs   []expr.Expression
}

// CalculateTransformer wraps source, applying targets per row.
func CalculateTransformer(source Stream, targets []CalcTarget) Stream {
	folded := make([]CalcTarget, len(targets))
	for i, t := range targets {
		folded[i] = CalcTarget{Column: t.Column, Expr: expr.Prepare(t.Expr)}
	}
	return &calculateTransformer{source: source, targets: folded}
}

func (c *calculateTransformer) resolve() {
	c.once.Do(func() {
		c.source.ColumnNames(func(sourceCols []column.Column) {
			cols := append([]column.Column(nil), sourceCols...)
			colIdx := map[string]int{}
			for i, col := range cols {
				colIdx[col.Key()] = i
			}
			exprIdx := make([]int, 0, len(c.targets))
			exprs := make([]expr.Expression, 0, len(c.targets))
			for _, t := range c.targets {
				key := t.Column.Key()
				if idx, ok := colIdx[key]; ok {
					exprIdx = append(exprIdx, idx)
				} else {
					cols = append(cols, t.Column)
					colIdx[key] = len(cols) - 1
					exprIdx = append(exprIdx, len(cols)-1)
				}
				exprs = append(exprs, t.Expr)
			}
			c.cols = cols
			c.exprIdx = exprIdx
			c.exprs = exprs
		})
	})
}

func (c *calculateTransformer) ColumnNames(cb func([]column.Column)) {
	c.resolve()
	cb(c.cols)
}

func (c *calculateTransformer) Clone() Stream {
	return &calculateTransformer{source: c.source.Clone(), targets: c.targets}
}

func (c *calculateTransformer) Fetch(j *job.Job, consumer Consumer) {
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
			wide := row.Clone()
			for len(wide) < len(c.cols) {
				wide = append(wide, value.EmptyValue())
			}
			for k, idx := range c.exprIdx {
				input := wide.At(idx)
				wide[idx] = c.exprs[k].Apply(row, c.cols, input)
			}
			out[i] = wide
		}
		consumer(out, hasNext, nil)
	})
}
