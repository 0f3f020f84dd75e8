package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolWaitBlocksUntilSpawnedWorkReturns(t *testing.T) {
	p := &Pool{}
	done := make(chan struct{})
	p.spawn(func() {
		time.Sleep(10 * time.Millisecond)
		close(done)
	})
	require.NoError(t, p.Wait())
	select {
	case <-done:
	default:
		t.Fatal("Wait returned before spawned work finished")
	}
}

func TestFutureUsesDefaultPoolForProducer(t *testing.T) {
	f := NewFuture(func(j *Job, cb Callback[int]) {
		cb(Fallible[int]{Value: 1})
	}, 0, nil)
	out := make(chan int, 1)
	f.Get(func(r Fallible[int]) { out <- r.Value })
	require.Equal(t, 1, <-out)
}
