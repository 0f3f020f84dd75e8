package job

import "sync"

// Fallible carries either a successful value or a job-level failure (I/O
// error, connection error, non-2xx status) to a Future's callback, per
// spec §7: producers never panic across the callback boundary, they wrap.
type Fallible[T any] struct {
	Value T
	Err   error
}

// Callback receives one Fallible result.
type Callback[T any] func(Fallible[T])

// Batch is a Job that additionally tracks a set of waiters for a single,
// at-most-once-satisfied result. Enqueueing after satisfaction delivers the
// cached value immediately; satisfying twice, or enqueueing on a cancelled
// batch, is a programmer error (spec §7's "assertion-level invariants").
type Batch[T any] struct {
	*Job

	mu        sync.Mutex
	satisfied bool
	result    Fallible[T]
	waiters   []Callback[T]
}

func newBatch[T any](delegate Delegate) *Batch[T] {
	return &Batch[T]{Job: New(delegate)}
}

// Enqueue registers cb to receive the batch's result. If the batch already
// satisfied, cb runs immediately with the cached result.
func (b *Batch[T]) Enqueue(cb Callback[T]) {
	b.mu.Lock()
	if b.satisfied {
		result := b.result
		b.mu.Unlock()
		cb(result)
		return
	}
	if b.Cancelled() {
		b.mu.Unlock()
		panic("job: enqueue on a cancelled batch")
	}
	b.waiters = append(b.waiters, cb)
	b.mu.Unlock()
}

// Satisfy delivers result to every waiter enqueued so far, then caches it
// for any later Enqueue. Must be called at most once.
func (b *Batch[T]) Satisfy(result Fallible[T]) {
	b.mu.Lock()
	if b.satisfied {
		b.mu.Unlock()
		panic("job: batch satisfied more than once")
	}
	b.satisfied = true
	b.result = result
	waiters := b.waiters
	b.waiters = nil
	b.mu.Unlock()

	for _, w := range waiters {
		w(result)
	}
}

// clearWaiters drops every pending waiter without satisfying the batch,
// used by Future.Cancel so cancelled waiters never hear back.
func (b *Batch[T]) clearWaiters() {
	b.mu.Lock()
	b.waiters = nil
	b.mu.Unlock()
}
