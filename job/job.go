// Package job implements the cooperative-cancellation, progress-reporting
// async primitives that every long-running producer (stream fetch, SQL
// query execution, raster materialization) reports through: Job, Future and
// Batch (spec §4.9/§5).
package job

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Delegate receives progress notifications. Implementations must not block:
// ReportProgress calls OnProgress synchronously on the goroutine that
// reported the progress. Calls are not dispatched to any other goroutine or
// channel.
type Delegate interface {
	OnProgress(j *Job, progress float64)
}

// Job tracks cancellation and a set of named progress components whose
// arithmetic mean is the job's overall progress.
type Job struct {
	mu         sync.Mutex
	cancelled  bool
	components map[string]float64
	delegate   Delegate
	log        *logrus.Entry
}

// New constructs a Job. delegate may be nil.
func New(delegate Delegate) *Job {
	return &Job{
		components: map[string]float64{},
		delegate:   delegate,
		log:        logrus.WithField("component", "job"),
	}
}

// ReportProgress stores the named component's progress, clamped to [0,1],
// and notifies the delegate. Out-of-range values are clamped rather than
// rejected, matching a producer that can legitimately overshoot 1.0 briefly
// (e.g. a server-reported split ratio rounding up).
func (j *Job) ReportProgress(key string, p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	j.mu.Lock()
	j.components[key] = p
	mean := j.progressLocked()
	delegate := j.delegate
	j.mu.Unlock()

	j.log.WithField("key", key).WithField("progress", p).Debug("progress reported")
	if delegate != nil {
		delegate.OnProgress(j, mean)
	}
}

// Progress returns the arithmetic mean of all reported components, or 0
// when none have been reported.
func (j *Job) Progress() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progressLocked()
}

func (j *Job) progressLocked() float64 {
	if len(j.components) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range j.components {
		sum += p
	}
	return sum / float64(len(j.components))
}

// Cancel flips the cancelled flag. Producers must observe Cancelled
// cooperatively between batches; Cancel never interrupts in-flight work.
func (j *Job) Cancel() {
	j.mu.Lock()
	j.cancelled = true
	j.mu.Unlock()
	j.log.Debug("job cancelled")
}

// Cancelled reports whether Cancel has been called.
func (j *Job) Cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}
