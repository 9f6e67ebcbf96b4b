package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uk-climate-etl/internal/observability"
)

// Stage names the pipeline stages in outcomes, logs, and metrics.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
)

// Outcome is the typed result of one pipeline run. Failure is data here, not
// an error value to propagate: the scheduler interprets outcomes and nothing
// escapes the run boundary.
type Outcome struct {
	RunID    string
	Start    time.Time
	Duration time.Duration
	Success  bool
	Failed   Stage // stage that failed; empty on success
	Err      error // cause when a stage failed or panicked
}

// Executor runs one gated Extract → Transform → Load sequence. A stage runs
// only if the previous one succeeded; a failure short-circuits the rest of
// the run but is always folded into the outcome.
type Executor struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

// NewExecutor creates a run executor over the three stages.
func NewExecutor(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Executor {
	return &Executor{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
	}
}

// ExecuteRun performs one complete run. It never panics and never returns an
// error: stage failures and panics become part of the outcome.
func (e *Executor) ExecuteRun(ctx context.Context) Outcome {
	out := Outcome{RunID: uuid.NewString(), Start: e.clock.Now()}
	logger := e.logger.With("run_id", out.RunID)
	logger.Info("pipeline run started")

	e.runStages(ctx, logger, &out)

	out.Duration = e.clock.Since(out.Start)
	e.metrics.RunDuration.Observe(out.Duration.Seconds())
	if out.Success {
		logger.Info("pipeline run completed", "duration", out.Duration)
	} else {
		logger.Error("pipeline run failed",
			"stage", string(out.Failed), "error", out.Err, "duration", out.Duration)
	}
	return out
}

// runStages executes the gated sequence. The deferred recover converts a
// panic in any stage into a failed outcome at the run boundary.
func (e *Executor) runStages(ctx context.Context, logger *slog.Logger, out *Outcome) {
	stage := StageExtract
	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.Failed = stage
			out.Err = fmt.Errorf("panic in %s stage: %v", stage, r)
			e.metrics.StageFailures.WithLabelValues(string(stage)).Inc()
			logger.Error("stage panicked", "stage", string(stage), "panic", r)
		}
	}()

	snap, err := e.timedExtract(ctx)
	if err != nil {
		e.fail(out, StageExtract, err)
		return
	}

	stage = StageTransform
	arts, err := e.timedTransform(ctx, snap)
	if err != nil {
		e.fail(out, StageTransform, err)
		return
	}

	stage = StageLoad
	if err := e.timedLoad(ctx, out.RunID, arts); err != nil {
		e.fail(out, StageLoad, err)
		return
	}

	out.Success = true
}

func (e *Executor) fail(out *Outcome, stage Stage, err error) {
	out.Success = false
	out.Failed = stage
	out.Err = err
	e.metrics.StageFailures.WithLabelValues(string(stage)).Inc()
}

func (e *Executor) timedExtract(ctx context.Context) (Snapshot, error) {
	start := e.clock.Now()
	defer e.observeStage(StageExtract, start)
	return e.extractor.Extract(ctx)
}

func (e *Executor) timedTransform(ctx context.Context, snap Snapshot) (Artifacts, error) {
	start := e.clock.Now()
	defer e.observeStage(StageTransform, start)
	return e.transformer.Transform(ctx, snap)
}

func (e *Executor) timedLoad(ctx context.Context, runID string, arts Artifacts) error {
	start := e.clock.Now()
	defer e.observeStage(StageLoad, start)
	return e.loader.Load(ctx, runID, arts)
}

func (e *Executor) observeStage(stage Stage, start time.Time) {
	e.metrics.StageDuration.WithLabelValues(string(stage)).Observe(e.clock.Since(start).Seconds())
}
