// Package memsource adapts a fixed in-memory table into the stream
// contract for sources (spec §6): it produces batches of rows, signals
// has_next=false at end, exposes column headers up front, and supports
// Clone as a fresh cursor over the same backing rows. It is the adapter
// used by end-to-end tests and by any caller materializing a raster back
// into a stream.
package memsource

import (
	"sync"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/job"
	"github.com/gridflow/gridflow/stream"
)

// Source is a Stream over a fixed, shared slice of rows. Cloning gives an
// independent cursor into the same backing data.
type Source struct {
	cols      []column.Column
	rows      []column.Row
	batchSize int

	g        sync.Mutex
	position int
}

// New constructs a Source with the default batch size (256).
func New(cols []column.Column, rows []column.Row) *Source {
	return NewWithBatchSize(cols, rows, stream.DefaultBatchSize)
}

// NewWithBatchSize constructs a Source with an explicit batch size, mostly
// useful for exercising multi-batch behavior in tests.
func NewWithBatchSize(cols []column.Column, rows []column.Row, batchSize int) *Source {
	if batchSize <= 0 {
		batchSize = stream.DefaultBatchSize
	}
	return &Source{cols: cols, rows: rows, batchSize: batchSize}
}

func (s *Source) ColumnNames(cb func([]column.Column)) { cb(s.cols) }

func (s *Source) Clone() stream.Stream {
	return &Source{cols: s.cols, rows: s.rows, batchSize: s.batchSize}
}

func (s *Source) Fetch(j *job.Job, consumer stream.Consumer) {
	s.g.Lock()
	if j != nil && j.Cancelled() {
		s.g.Unlock()
		consumer(nil, false, nil)
		return
	}
	if s.position >= len(s.rows) {
		s.g.Unlock()
		consumer(nil, false, nil)
		return
	}
	end := s.position + s.batchSize
	if end > len(s.rows) {
		end = len(s.rows)
	}
	batch := s.rows[s.position:end]
	s.position = end
	hasNext := s.position < len(s.rows)
	s.g.Unlock()

	if j != nil {
		j.ReportProgress("fetch", float64(s.position)/float64(len(s.rows)))
	}
	consumer(batch, hasNext, nil)
}
