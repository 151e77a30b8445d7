package application

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler fires the publish pipeline on a fixed interval after an initial
// startup delay. Runs execute on a small fixed worker pool; every worker
// recovers panics so one broken run never kills the scheduling loop. The
// scheduler only logs outcomes -- business failure handling lives in the
// services it drives.
type Scheduler struct {
	run          func(context.Context) error
	interval     time.Duration
	initialDelay time.Duration
	workers      int

	// inFlight is the single-flight guard: a tick that arrives while a run
	// is still executing is skipped, never queued behind it. Overlapping
	// runs for the same account would race on the credential record and
	// could double-publish.
	inFlight atomic.Bool
}

// NewScheduler creates a Scheduler driving run.
func NewScheduler(run func(context.Context) error, interval, initialDelay time.Duration, workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		run:          run,
		interval:     interval,
		initialDelay: initialDelay,
		workers:      workers,
	}
}

// Start blocks until the context is canceled, dispatching one run per tick.
func (s *Scheduler) Start(ctx context.Context) {
	jobs := make(chan func())
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for job := range jobs {
				runSafely(worker, job)
			}
		}(i)
	}
	defer func() {
		close(jobs)
		wg.Wait()
		slog.Info("scheduler stopped")
	}()

	select {
	case <-ctx.Done():
		return
	case <-time.After(s.initialDelay):
	}

	s.dispatch(ctx, jobs)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatch(ctx, jobs)
		}
	}
}

// dispatch hands one run to the pool unless the previous run is still in
// flight.
func (s *Scheduler) dispatch(ctx context.Context, jobs chan<- func()) {
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Warn("previous publish run still in flight, skipping tick")
		return
	}

	job := func() {
		defer s.inFlight.Store(false)
		start := time.Now()
		if err := s.run(ctx); err != nil {
			slog.Error("publish run failed",
				"error", err,
				"duration", time.Since(start).Round(time.Millisecond),
			)
			return
		}
		slog.Info("publish run complete",
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}

	select {
	case jobs <- job:
	case <-ctx.Done():
		s.inFlight.Store(false)
	}
}

// runSafely executes a job with crash isolation for its worker.
func runSafely(worker int, job func()) {
	defer func() {
		if v := recover(); v != nil {
			slog.Error("panic recovered in publish worker",
				"worker", worker,
				"panic", v,
				"stack", string(debug.Stack()),
			)
		}
	}()
	job()
}
