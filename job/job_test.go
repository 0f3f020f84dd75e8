package job

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingDelegate struct {
	mu   sync.Mutex
	seen []float64
}

func (d *recordingDelegate) OnProgress(j *Job, progress float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = append(d.seen, progress)
}

func TestProgressIsArithmeticMeanOfComponents(t *testing.T) {
	j := New(nil)
	require.Equal(t, 0.0, j.Progress())

	j.ReportProgress("a", 0.5)
	j.ReportProgress("b", 1.0)
	require.Equal(t, 0.75, j.Progress())
}

func TestReportProgressClampsOutOfRange(t *testing.T) {
	j := New(nil)
	j.ReportProgress("a", 1.5)
	require.Equal(t, 1.0, j.Progress())

	j.ReportProgress("a", -1)
	require.Equal(t, 0.0, j.Progress())
}

func TestReportProgressNotifiesDelegate(t *testing.T) {
	d := &recordingDelegate{}
	j := New(d)
	j.ReportProgress("a", 0.5)
	require.Equal(t, []float64{0.5}, d.seen)
}

func TestCancelIsIdempotentAndObservable(t *testing.T) {
	j := New(nil)
	require.False(t, j.Cancelled())
	j.Cancel()
	j.Cancel()
	require.True(t, j.Cancelled())
}
