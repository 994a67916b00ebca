package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var _ SchedulerInterface = (*Scheduler)(nil)

// Scheduler triggers sync runs at a fixed interval in serve mode. Runs
// are never concurrent: a tick (or API trigger) arriving while a run is
// in flight is skipped. The catalog file is read and written wholesale by
// each run, so overlapping runs would race on it.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	runMu    sync.Mutex
	stopMu   sync.Mutex // serializes TriggerSync's wg.Add against Stop
}

func NewScheduler(runner *Runner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   runner,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// First sync right away, then on the interval.
		s.runOnce()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.stopMu.Lock()
	s.cancel()
	s.stopMu.Unlock()
	s.wg.Wait()
}

// TriggerSync starts a run in the background. Returns false when a run is
// already in flight or the scheduler has been stopped.
func (s *Scheduler) TriggerSync() bool {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()

	if s.ctx.Err() != nil {
		return false
	}

	if !s.runMu.TryLock() {
		slog.Warn("Sync already in progress, trigger ignored")
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.runMu.Unlock()
		s.execute()
	}()

	return true
}

func (s *Scheduler) runOnce() {
	if !s.runMu.TryLock() {
		slog.Warn("Previous sync still running, skipping scheduled sync")
		return
	}
	defer s.runMu.Unlock()

	s.execute()
}

func (s *Scheduler) execute() {
	if _, err := s.runner.Run(s.ctx); err != nil {
		slog.Error("Scheduled sync failed", "error", err)
	}
}
