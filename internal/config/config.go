package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Scheduling.
	PipelineInterval       time.Duration
	SchedulerTick          time.Duration
	MaxConsecutiveFailures int
	FailureBackoff         time.Duration
	RestartDelay           time.Duration
	StatsEvery             int

	// Observability.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// IQAir extraction.
	IQAirAPIKey        string
	IQAirBaseURL       string
	IQAirRequestDelay  time.Duration
	IQAirRateLimitWait time.Duration

	// Carbon Intensity extraction.
	CarbonBaseURL   string
	CarbonRegionMax int

	// Persistence.
	DataDir           string
	HistoryMaxEntries int
	SQLiteEnabled     bool
	SQLitePath        string
	Durable           DurableArtifacts

	// Kafka publishing of merged records.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// DurableArtifacts flags which pipeline artifacts are written to the durable
// store (and published) in addition to local history. The two intermediate
// artifacts default to local-only.
type DurableArtifacts struct {
	Resolved   bool
	Aggregated bool
	Merged     bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	interval, err := parseDuration("PIPELINE_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	tick, err := parseDuration("SCHEDULER_TICK", "1s")
	if err != nil {
		return nil, err
	}
	backoff, err := parseDuration("FAILURE_BACKOFF", "300s")
	if err != nil {
		return nil, err
	}
	restartDelay, err := parseDuration("RESTART_DELAY", "30s")
	if err != nil {
		return nil, err
	}
	requestDelay, err := parseDuration("IQAIR_REQUEST_DELAY", "2s")
	if err != nil {
		return nil, err
	}
	rateLimitWait, err := parseDuration("IQAIR_RATE_LIMIT_WAIT", "60s")
	if err != nil {
		return nil, err
	}

	maxFailures, err := parseInt("MAX_CONSECUTIVE_FAILURES", 5)
	if err != nil {
		return nil, err
	}
	statsEvery, err := parseInt("STATS_EVERY", 10)
	if err != nil {
		return nil, err
	}
	regionMax, err := parseInt("CARBON_REGION_MAX", 17)
	if err != nil {
		return nil, err
	}
	historyMax, err := parseInt("HISTORY_MAX_ENTRIES", 50)
	if err != nil {
		return nil, err
	}

	durable, err := parseDurableArtifacts(sharedcfg.EnvOrDefault("DURABLE_ARTIFACTS", "merged"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PipelineInterval:       interval,
		SchedulerTick:          tick,
		MaxConsecutiveFailures: maxFailures,
		FailureBackoff:         backoff,
		RestartDelay:           restartDelay,
		StatsEvery:             statsEvery,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		IQAirAPIKey:        os.Getenv("IQAIR_API_KEY"),
		IQAirBaseURL:       sharedcfg.EnvOrDefault("IQAIR_BASE_URL", "https://api.airvisual.com"),
		IQAirRequestDelay:  requestDelay,
		IQAirRateLimitWait: rateLimitWait,

		CarbonBaseURL:   sharedcfg.EnvOrDefault("CARBON_BASE_URL", "https://api.carbonintensity.org.uk"),
		CarbonRegionMax: regionMax,

		DataDir:           sharedcfg.EnvOrDefault("DATA_DIR", "./data"),
		HistoryMaxEntries: historyMax,
		SQLiteEnabled:     sharedcfg.EnvOrDefault("SQLITE_ENABLED", "true") == "true",
		SQLitePath:        sharedcfg.EnvOrDefault("SQLITE_PATH", "./data/climate.db"),
		Durable:           durable,

		KafkaEnabled:   sharedcfg.EnvOrDefault("KAFKA_ENABLED", "false") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "merged-region-records"),
	}

	if cfg.IQAirAPIKey == "" {
		return nil, errors.New("IQAIR_API_KEY is required")
	}
	if cfg.MaxConsecutiveFailures < 1 {
		return nil, errors.New("MAX_CONSECUTIVE_FAILURES must be at least 1")
	}
	if cfg.StatsEvery < 1 {
		return nil, errors.New("STATS_EVERY must be at least 1")
	}
	if cfg.CarbonRegionMax < 1 {
		return nil, errors.New("CARBON_REGION_MAX must be at least 1")
	}
	if cfg.HistoryMaxEntries < 1 {
		return nil, errors.New("HISTORY_MAX_ENTRIES must be at least 1")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func parseDuration(name, fallback string) (time.Duration, error) {
	raw := sharedcfg.EnvOrDefault(name, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return d, nil
}

func parseInt(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}

func parseDurableArtifacts(raw string) (DurableArtifacts, error) {
	var d DurableArtifacts
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "":
		case "resolved":
			d.Resolved = true
		case "aggregated":
			d.Aggregated = true
		case "merged":
			d.Merged = true
		default:
			return d, fmt.Errorf("invalid DURABLE_ARTIFACTS entry: %q", part)
		}
	}
	return d, nil
}
