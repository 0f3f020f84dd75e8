package stream

import (
	"sync"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/job"
)

// limitTransformer yields up to n rows total from source, then reports
// has_next=false forever after, regardless of what source still has.
type limitTransformer struct {
	source Stream
	n      int

	g sync.Mutex
	guard
	position int
	stopped  bool
}

// LimitTransformer wraps source, capping total rows delivered at n.
func LimitTransformer(source Stream, n int) Stream {
	return &limitTransformer{source: source, n: n}
}

func (l *limitTransformer) ColumnNames(cb func([]column.Column)) { l.source.ColumnNames(cb) }

func (l *limitTransformer) Clone() Stream {
	return &limitTransformer{source: l.source.Clone(), n: l.n}
}

func (l *limitTransformer) Fetch(j *job.Job, consumer Consumer) {
	l.guard.enter()
	defer l.guard.leave()

	l.g.Lock()
	if l.stopped {
		l.g.Unlock()
		consumer(nil, false, nil)
		return
	}
	remaining := l.n - l.position
	l.g.Unlock()

	if remaining <= 0 {
		l.g.Lock()
		l.stopped = true
		l.g.Unlock()
		consumer(nil, false, nil)
		return
	}

	l.source.Fetch(j, func(rows []column.Row, hasNext bool, err error) {
		if err != nil {
			l.g.Lock()
			l.stopped = true
			l.g.Unlock()
			consumer(nil, false, err)
			return
		}
		if len(rows) > remaining {
			rows = rows[:remaining]
		}
		l.g.Lock()
		l.position += len(rows)
		done := l.position >= l.n
		if done {
			l.stopped = true
		}
		l.g.Unlock()
		consumer(rows, hasNext && !done, nil)
	})
}
