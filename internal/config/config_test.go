package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.PipelineInterval)
	assert.Equal(t, time.Second, cfg.SchedulerTick)
	assert.Equal(t, 5, cfg.MaxConsecutiveFailures)
	assert.Equal(t, 300*time.Second, cfg.FailureBackoff)
	assert.Equal(t, 30*time.Second, cfg.RestartDelay)
	assert.Equal(t, 10, cfg.StatsEvery)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "test-key", cfg.IQAirAPIKey)
	assert.Equal(t, "https://api.airvisual.com", cfg.IQAirBaseURL)
	assert.Equal(t, 2*time.Second, cfg.IQAirRequestDelay)
	assert.Equal(t, 60*time.Second, cfg.IQAirRateLimitWait)
	assert.Equal(t, "https://api.carbonintensity.org.uk", cfg.CarbonBaseURL)
	assert.Equal(t, 17, cfg.CarbonRegionMax)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 50, cfg.HistoryMaxEntries)
	assert.True(t, cfg.SQLiteEnabled)
	assert.Equal(t, "./data/climate.db", cfg.SQLitePath)
	assert.Equal(t, DurableArtifacts{Merged: true}, cfg.Durable)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "merged-region-records", cfg.KafkaSinkTopic)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "test-key")
	t.Setenv("PIPELINE_INTERVAL", "5m")
	t.Setenv("MAX_CONSECUTIVE_FAILURES", "3")
	t.Setenv("CARBON_REGION_MAX", "14")
	t.Setenv("SQLITE_ENABLED", "false")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("DURABLE_ARTIFACTS", "resolved, merged")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.PipelineInterval)
	assert.Equal(t, 3, cfg.MaxConsecutiveFailures)
	assert.Equal(t, 14, cfg.CarbonRegionMax)
	assert.False(t, cfg.SQLiteEnabled)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, DurableArtifacts{Resolved: true, Merged: true}, cfg.Durable)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "IQAIR_API_KEY")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "test-key")
	t.Setenv("PIPELINE_INTERVAL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "PIPELINE_INTERVAL")
}

func TestLoad_NegativeDurationRejected(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "test-key")
	t.Setenv("FAILURE_BACKOFF", "-5m")

	_, err := Load()
	assert.ErrorContains(t, err, "FAILURE_BACKOFF")
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "test-key")
	t.Setenv("MAX_CONSECUTIVE_FAILURES", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_CONSECUTIVE_FAILURES")
}

func TestLoad_InvalidDurableArtifact(t *testing.T) {
	t.Setenv("IQAIR_API_KEY", "test-key")
	t.Setenv("DURABLE_ARTIFACTS", "merged,everything")

	_, err := Load()
	assert.ErrorContains(t, err, "DURABLE_ARTIFACTS")
}

func TestParseDurableArtifacts_Empty(t *testing.T) {
	d, err := parseDurableArtifacts("")
	require.NoError(t, err)
	assert.Equal(t, DurableArtifacts{}, d)
}
