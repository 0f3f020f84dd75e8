package job

import "golang.org/x/sync/errgroup"

// Pool runs producer goroutines under a shared errgroup.Group instead of
// bare `go` statements, so the module can wait for every outstanding
// producer to drain (e.g. before process shutdown) rather than leaking
// goroutines that outlive their caller.
type Pool struct {
	group errgroup.Group
}

// defaultPool backs every Future unless the caller wires its own; this
// mirrors the teacher's single process-wide BackgroundThreads registry.
var defaultPool = &Pool{}

// DefaultPool returns the package-wide producer pool.
func DefaultPool() *Pool { return defaultPool }

func (p *Pool) spawn(fn func()) {
	p.group.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until every producer spawned on this pool has returned. It
// never itself returns an error, since producers report failure through
// their Future's callback, not through the pool.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
