package job

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFutureGetJoinsInFlightBatch(t *testing.T) {
	var mu sync.Mutex
	started := 0
	release := make(chan struct{})

	f := NewFuture[int](func(j *Job, cb Callback[int]) {
		mu.Lock()
		started++
		mu.Unlock()
		<-release
		cb(Fallible[int]{Value: 42})
	}, 0, nil)

	results := make(chan int, 2)
	f.Get(func(r Fallible[int]) { results <- r.Value })
	f.Get(func(r Fallible[int]) { results <- r.Value })

	close(release)
	require.Equal(t, 42, <-results)
	require.Equal(t, 42, <-results)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, started)
}

func TestFutureGetAfterSatisfactionStartsNewBatch(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	f := NewFuture[int](func(j *Job, cb Callback[int]) {
		mu.Lock()
		calls++
		mu.Unlock()
		cb(Fallible[int]{Value: calls})
	}, 0, nil)

	done := make(chan int, 1)
	f.Get(func(r Fallible[int]) { done <- r.Value })
	<-done

	done2 := make(chan int, 1)
	f.Get(func(r Fallible[int]) { done2 <- r.Value })
	<-done2

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, calls)
}

func TestFutureCancelDropsWaiters(t *testing.T) {
	release := make(chan struct{})
	f := NewFuture[int](func(j *Job, cb Callback[int]) {
		<-release
		cb(Fallible[int]{Value: 1})
	}, 0, nil)

	delivered := false
	jb := f.Get(func(r Fallible[int]) { delivered = true })
	f.Cancel()
	require.True(t, jb.Cancelled())

	close(release)
	time.Sleep(10 * time.Millisecond)
	require.False(t, delivered)
}

func TestFutureExpireLeavesWaitersRegistered(t *testing.T) {
	release := make(chan struct{})
	f := NewFuture[int](func(j *Job, cb Callback[int]) {
		<-release
		cb(Fallible[int]{Value: 7})
	}, 0, nil)

	result := make(chan int, 1)
	jb := f.Get(func(r Fallible[int]) { result <- r.Value })
	f.Expire()
	require.True(t, jb.Cancelled())

	close(release)
	require.Equal(t, 7, <-result)
}

func TestBatchSatisfyTwiceIsProgrammerError(t *testing.T) {
	b := newBatch[int](nil)
	b.Satisfy(Fallible[int]{Value: 1})
	require.Panics(t, func() { b.Satisfy(Fallible[int]{Value: 2}) })
}

func TestBatchEnqueueAfterSatisfactionDeliversImmediately(t *testing.T) {
	b := newBatch[int](nil)
	b.Satisfy(Fallible[int]{Value: 9})

	got := -1
	b.Enqueue(func(r Fallible[int]) { got = r.Value })
	require.Equal(t, 9, got)
}

func TestBatchEnqueueOnCancelledBatchPanics(t *testing.T) {
	b := newBatch[int](nil)
	b.Job.Cancel()
	require.Panics(t, func() { b.Enqueue(func(r Fallible[int]) {}) })
}
