package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uk-climate-etl/internal/observability"
)

// Runner executes one pipeline run and reports its outcome.
type Runner interface {
	ExecuteRun(ctx context.Context) Outcome
}

// Policy holds the scheduler's timing and failure-handling settings.
type Policy struct {
	Interval               time.Duration
	Tick                   time.Duration
	MaxConsecutiveFailures int
	FailureBackoff         time.Duration
	RestartDelay           time.Duration
	StatsEvery             int
}

// Scheduler runs the pipeline forever on a fixed cadence: one run at startup,
// then one per interval, checked on a short tick so the boundary is never
// missed. Failures are absorbed at three boundaries: the Executor converts
// stage failures and panics into outcomes, Run converts loop-level trouble
// into a recomputed schedule, and Supervise restarts the whole loop after
// anything that escapes it.
type Scheduler struct {
	runner  Runner
	policy  Policy
	stats   *Stats
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewScheduler creates a scheduler owning its run statistics.
func NewScheduler(runner Runner, policy Policy, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		runner:  runner,
		policy:  policy,
		stats:   NewStats(clock),
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Stats exposes the scheduler's run statistics for the HTTP surface.
func (s *Scheduler) Stats() *Stats {
	return s.stats
}

// Run executes an immediate run, then wakes every tick to check the schedule.
// It returns only when ctx is cancelled; operational trouble never stops the
// loop.
func (s *Scheduler) Run(ctx context.Context) {
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	s.logger.Info("scheduler started",
		"interval", s.policy.Interval,
		"failure_threshold", s.policy.MaxConsecutiveFailures,
		"failure_backoff", s.policy.FailureBackoff,
	)

	s.logger.Info("running initial pipeline execution")
	nextRun := s.runAndReschedule(ctx)

	var lastCountdown time.Time
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return
		case <-s.clock.After(s.policy.Tick):
		}

		now := s.clock.Now()
		if !now.Before(nextRun) {
			s.logger.Info("scheduled run due")
			nextRun = s.runAndReschedule(ctx)
			continue
		}

		if now.Sub(lastCountdown) >= time.Minute {
			s.logger.Debug("waiting for next run", "next_run_in", nextRun.Sub(now).Round(time.Second))
			lastCountdown = now
		}
	}
}

// Supervise keeps Run alive forever. If the loop exits for any reason other
// than ctx cancellation, it pauses for the restart delay and starts over.
// Availability wins over responsiveness to shutdown here.
func (s *Scheduler) Supervise(ctx context.Context) {
	for {
		s.runGuarded(ctx)
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("scheduler loop exited unexpectedly, restarting",
			"restart_delay", s.policy.RestartDelay)
		s.clock.Sleep(s.policy.RestartDelay)
	}
}

func (s *Scheduler) runGuarded(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler loop panicked", "panic", r)
		}
	}()
	s.Run(ctx)
}

// runAndReschedule executes one guarded run, folds the outcome into the
// statistics, and computes the next run time, adding the cooldown once the
// consecutive-failure threshold is reached.
func (s *Scheduler) runAndReschedule(ctx context.Context) time.Time {
	out := s.safeRun(ctx)

	consecutive := s.stats.Record(out)
	s.metrics.RunsTotal.Inc()
	s.metrics.ConsecutiveFailures.Set(float64(consecutive))
	if out.Success {
		s.metrics.LastSuccessTimestamp.Set(float64(s.clock.Now().Unix()))
	} else {
		s.metrics.RunsFailed.Inc()
	}

	if snap := s.stats.Snapshot(); snap.TotalRuns%s.policy.StatsEvery == 0 {
		s.stats.LogSummary(s.logger)
	}

	next := s.clock.Now().Add(s.policy.Interval)
	if consecutive >= s.policy.MaxConsecutiveFailures {
		s.logger.Warn("consecutive-failure threshold reached, applying cooldown",
			"consecutive_failures", consecutive,
			"cooldown", s.policy.FailureBackoff,
		)
		s.metrics.BackoffsApplied.Inc()
		next = next.Add(s.policy.FailureBackoff)
	}
	return next
}

// safeRun guards the run boundary. The executor already folds stage failures
// and panics into outcomes, so anything surfacing here is unexpected; it
// still becomes a failed run rather than a crashed loop.
func (s *Scheduler) safeRun(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				Start: s.clock.Now(),
				Err:   fmt.Errorf("run escaped the executor guard: %v", r),
			}
			s.logger.Error("run boundary panic", "panic", r)
		}
	}()
	return s.runner.ExecuteRun(ctx)
}
