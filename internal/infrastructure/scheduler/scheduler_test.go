package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/notehub/core/internal/infrastructure/logger"
)

type countingJob struct {
	runs atomic.Int64
}

func (j *countingJob) Run(ctx context.Context) {
	j.runs.Add(1)
}

func TestScheduler_RunsJobOnInterval(t *testing.T) {
	job := &countingJob{}
	s := New(job, 10*time.Millisecond, logger.NewNop())

	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.Greater(t, job.runs.Load(), int64(0))
}

func TestScheduler_StopWaitsAndIsIdempotent(t *testing.T) {
	job := &countingJob{}
	s := New(job, 5*time.Millisecond, logger.NewNop())

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	after := job.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, job.runs.Load())

	// Second Stop must not panic or block
	s.Stop()
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	job := &countingJob{}
	s := New(job, 5*time.Millisecond, logger.NewNop())

	s.Start()
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
}
