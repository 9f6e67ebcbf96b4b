package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uk-climate-etl/internal/pipeline"
)

func TestStats_RecordCountsOutcomes(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	stats := pipeline.NewStats(clock)

	assert.Equal(t, 1, stats.Record(pipeline.Outcome{Success: false}))
	assert.Equal(t, 2, stats.Record(pipeline.Outcome{Success: false}))
	assert.Equal(t, 0, stats.Record(pipeline.Outcome{Success: true}), "success resets the streak")
	assert.Equal(t, 1, stats.Record(pipeline.Outcome{Success: false}))

	snap := stats.Snapshot()
	assert.Equal(t, 4, snap.TotalRuns)
	assert.Equal(t, 1, snap.SuccessfulRuns)
	assert.Equal(t, 3, snap.FailedRuns)
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.Equal(t, 25.0, snap.SuccessRate)
}

func TestStats_SnapshotTracksUptimeAndLastSuccess(t *testing.T) {
	start := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	stats := pipeline.NewStats(clock)

	clock.Advance(90 * time.Second)
	stats.Record(pipeline.Outcome{Success: true})
	clock.Advance(30 * time.Second)

	snap := stats.Snapshot()
	assert.Equal(t, "2m0s", snap.Uptime)
	assert.Equal(t, "2026-08-29T10:01:30Z", snap.LastSuccessfulRun)
}

func TestStats_EmptySnapshot(t *testing.T) {
	stats := pipeline.NewStats(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))

	snap := stats.Snapshot()
	assert.Zero(t, snap.TotalRuns)
	assert.Zero(t, snap.SuccessRate)
	assert.Empty(t, snap.LastSuccessfulRun)
}

func TestStats_CheckReadiness(t *testing.T) {
	stats := pipeline.NewStats(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))
	ctx := context.Background()

	require.Error(t, stats.CheckReadiness(ctx))

	stats.Record(pipeline.Outcome{Success: false})
	require.Error(t, stats.CheckReadiness(ctx), "failed runs do not make the service ready")

	stats.Record(pipeline.Outcome{Success: true})
	assert.NoError(t, stats.CheckReadiness(ctx))

	stats.Record(pipeline.Outcome{Success: false})
	assert.NoError(t, stats.CheckReadiness(ctx), "readiness is sticky once a run has succeeded")
}
