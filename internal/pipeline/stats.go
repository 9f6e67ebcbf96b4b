package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stats tracks process-lifetime run statistics. Each Scheduler owns its own
// Stats value, so independent schedulers (and tests) never interfere. The
// mutex exists only because the HTTP stats endpoint reads snapshots while the
// scheduler records outcomes.
type Stats struct {
	mu    sync.Mutex
	clock clockwork.Clock

	startTime           time.Time
	totalRuns           int
	successfulRuns      int
	failedRuns          int
	consecutiveFailures int
	lastSuccess         time.Time
}

// NewStats creates statistics starting now.
func NewStats(clock clockwork.Clock) *Stats {
	return &Stats{clock: clock, startTime: clock.Now()}
}

// Record folds one run outcome into the statistics and returns the updated
// consecutive-failure count. Total runs increment on every outcome, failed
// or not.
func (s *Stats) Record(out Outcome) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRuns++
	if out.Success {
		s.successfulRuns++
		s.consecutiveFailures = 0
		s.lastSuccess = s.clock.Now()
	} else {
		s.failedRuns++
		s.consecutiveFailures++
	}
	return s.consecutiveFailures
}

// StatsSnapshot is a point-in-time copy of the run statistics, shaped for
// the /statz endpoint and the periodic summary log.
type StatsSnapshot struct {
	Uptime              string  `json:"uptime"`
	TotalRuns           int     `json:"total_runs"`
	SuccessfulRuns      int     `json:"successful_runs"`
	FailedRuns          int     `json:"failed_runs"`
	SuccessRate         float64 `json:"success_rate"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	LastSuccessfulRun   string  `json:"last_successful_run,omitempty"`
}

// Snapshot returns the current statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Uptime:              s.clock.Since(s.startTime).Round(time.Second).String(),
		TotalRuns:           s.totalRuns,
		SuccessfulRuns:      s.successfulRuns,
		FailedRuns:          s.failedRuns,
		ConsecutiveFailures: s.consecutiveFailures,
	}
	if s.totalRuns > 0 {
		snap.SuccessRate = float64(s.successfulRuns) / float64(s.totalRuns) * 100
	}
	if !s.lastSuccess.IsZero() {
		snap.LastSuccessfulRun = s.lastSuccess.UTC().Format(time.RFC3339)
	}
	return snap
}

// CheckReadiness reports ready once at least one run has succeeded.
func (s *Stats) CheckReadiness(_ context.Context) error {
	if s.Snapshot().SuccessfulRuns == 0 {
		return errors.New("no successful pipeline run yet")
	}
	return nil
}

// LogSummary writes the periodic statistics summary.
func (s *Stats) LogSummary(logger *slog.Logger) {
	snap := s.Snapshot()
	logger.Info("pipeline statistics",
		"uptime", snap.Uptime,
		"total_runs", snap.TotalRuns,
		"successful_runs", snap.SuccessfulRuns,
		"failed_runs", snap.FailedRuns,
		"success_rate_pct", snap.SuccessRate,
		"consecutive_failures", snap.ConsecutiveFailures,
		"last_successful_run", snap.LastSuccessfulRun,
	)
}
