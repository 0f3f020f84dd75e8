// Package stream implements the pull-based, chunked, cancellable row
// source contract (spec §4.7) and its transformers. A Stream is
// single-consumer: fetches on one instance must not overlap; Clone is the
// way to get an independent cursor for repeatable reads.
package stream

import (
	"sync/atomic"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/gridflow/gridflow/column"
	"github.com/gridflow/gridflow/job"
)

// DefaultBatchSize is the engine-constant batch size used when a source
// does not otherwise decide one.
const DefaultBatchSize = 256

// ErrConcurrentFetch is raised when a caller issues a Fetch while a
// previous one on the same Stream instance has not yet returned.
var ErrConcurrentFetch = errors.NewKind("stream: overlapping fetch on a single-consumer stream")

// ErrCancelled is the job-level failure delivered when a materialization
// is cancelled before it completes.
var ErrCancelled = errors.NewKind("stream: materialization cancelled")

// Consumer receives one delivered batch. has_next is false exactly at (or
// after) end of stream; err is non-nil only for a job-level failure, in
// which case has_next is always false (spec §7).
type Consumer func(rows []column.Row, hasNext bool, err error)

// Stream is a pull-based chunked row source.
type Stream interface {
	// ColumnNames delivers the header once, synchronously.
	ColumnNames(cb func([]column.Column))
	// Fetch asynchronously delivers one batch. After has_next == false,
	// subsequent Fetch calls must be idempotent no-ops delivering no rows.
	Fetch(j *job.Job, consumer Consumer)
	// Clone creates a new, reset-to-start instance of the same stream.
	Clone() Stream
}

// guard enforces the single-consumer invariant for a Stream implementation:
// enter panics if a previous enter's matching leave has not yet run.
type guard struct {
	busy int32
}

func (g *guard) enter() {
	if !atomic.CompareAndSwapInt32(&g.busy, 0, 1) {
		panic(ErrConcurrentFetch.New())
	}
}

func (g *guard) leave() {
	atomic.StoreInt32(&g.busy, 0)
}
