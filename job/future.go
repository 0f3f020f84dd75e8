package job

import (
	"sync"
	"time"
)

// Producer does the actual work for a Future. It must call cb exactly once,
// and should poll j.Cancelled() between units of work.
type Producer[T any] func(j *Job, cb Callback[T])

// Future memoizes an async computation behind at most one in-flight Batch:
// concurrent Get calls while a batch is active join it instead of
// re-running the producer.
type Future[T any] struct {
	mu        sync.Mutex
	producer  Producer[T]
	timeLimit time.Duration
	delegate  Delegate
	active    *Batch[T]
}

// NewFuture constructs a Future. timeLimit of 0 means no deadline.
func NewFuture[T any](producer Producer[T], timeLimit time.Duration, delegate Delegate) *Future[T] {
	return &Future[T]{producer: producer, timeLimit: timeLimit, delegate: delegate}
}

// Get enqueues cb on the in-flight batch, starting one (and the producer)
// if none is active, and returns the Job backing it.
func (f *Future[T]) Get(cb Callback[T]) *Job {
	f.mu.Lock()
	if f.active != nil {
		b := f.active
		f.mu.Unlock()
		b.Enqueue(cb)
		return b.Job
	}

	b := newBatch[T](f.delegate)
	f.active = b
	producer := f.producer
	timeLimit := f.timeLimit
	f.mu.Unlock()

	b.Enqueue(cb)

	if timeLimit > 0 {
		time.AfterFunc(timeLimit, f.Expire)
	}

	DefaultPool().spawn(func() {
		producer(b.Job, func(result Fallible[T]) {
			f.mu.Lock()
			if f.active == b {
				f.active = nil
			}
			f.mu.Unlock()
			b.Satisfy(result)
		})
	})

	return b.Job
}

// Cancel drops all waiters on the active batch and flips its cancelled
// flag, so the producer stops delivering and no waiter hears back.
func (f *Future[T]) Cancel() {
	f.mu.Lock()
	b := f.active
	f.mu.Unlock()
	if b == nil {
		return
	}
	b.clearWaiters()
	b.Job.Cancel()
}

// Expire flips the active batch's cancelled flag but leaves existing
// waiters registered, so a partial last result can still be delivered.
func (f *Future[T]) Expire() {
	f.mu.Lock()
	b := f.active
	f.mu.Unlock()
	if b == nil {
		return
	}
	b.Job.Cancel()
}
