// Package scheduler drives the notification dispatch loop on a fixed
// interval. Ticks are serialized: a tick that outlives the interval
// delays the next one instead of overlapping it.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/notehub/core/internal/infrastructure/logger"
)

// Job is a unit of scheduled work. It must not propagate failure.
type Job interface {
	Run(ctx context.Context)
}

// Scheduler runs a job on a ticker until stopped.
type Scheduler struct {
	job      Job
	interval time.Duration
	logger   *logger.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
	running  bool
}

// New creates a new scheduler
func New(job Job, interval time.Duration, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the ticker loop in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.loop()

	s.logger.Info("Scheduler started", "interval", s.interval.String())
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.job.Run(context.Background())
		case <-s.stopChan:
			return
		}
	}
}
