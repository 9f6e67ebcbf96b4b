package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uk-climate-etl/internal/adapter/carbonintensity"
	"github.com/couchcryptid/uk-climate-etl/internal/adapter/docstore"
	"github.com/couchcryptid/uk-climate-etl/internal/adapter/history"
	httpadapter "github.com/couchcryptid/uk-climate-etl/internal/adapter/http"
	"github.com/couchcryptid/uk-climate-etl/internal/adapter/iqair"
	kafkaadapter "github.com/couchcryptid/uk-climate-etl/internal/adapter/kafka"
	"github.com/couchcryptid/uk-climate-etl/internal/config"
	"github.com/couchcryptid/uk-climate-etl/internal/domain"
	"github.com/couchcryptid/uk-climate-etl/internal/observability"
	"github.com/couchcryptid/uk-climate-etl/internal/pipeline"
	"github.com/couchcryptid/uk-climate-etl/internal/refdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	cities, err := refdata.Cities()
	if err != nil {
		logger.Error("failed to load city reference data", "error", err)
		os.Exit(1)
	}
	cityRegions := make(map[string]string, len(cities))
	for _, c := range cities {
		cityRegions[c.Name] = c.Region
	}
	logger.Info("reference data loaded", "cities", len(cities))

	resolver := domain.NewResolver(domain.NewCatalog(), cityRegions, logger)

	extractor := pipeline.NewExtractor(
		iqair.NewClient(cfg, cities, clock, logger),
		carbonintensity.NewClient(cfg, logger),
		logger,
	)
	transformer := pipeline.NewTransformer(resolver, logger, metrics)

	historyStore := history.NewStore(cfg.DataDir, cfg.HistoryMaxEntries, clock, logger)

	// Durable store is best-effort: if it cannot be opened the pipeline
	// degrades to local-only persistence rather than refusing to start.
	var store pipeline.DocumentStore
	if cfg.SQLiteEnabled {
		s, err := docstore.Open(cfg.SQLitePath, clock)
		if err != nil {
			logger.Warn("durable store unavailable, continuing local-only", "error", err)
		} else {
			defer s.Close()
			store = s
			logger.Info("durable store opened", "path", cfg.SQLitePath)
		}
	}

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		defer p.Close()
		publisher = p
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	loader := pipeline.NewLoader(historyStore, store, publisher, cfg.Durable, logger)
	executor := pipeline.NewExecutor(extractor, transformer, loader, logger, metrics, clock)
	sched := pipeline.NewScheduler(executor, pipeline.Policy{
		Interval:               cfg.PipelineInterval,
		Tick:                   cfg.SchedulerTick,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		FailureBackoff:         cfg.FailureBackoff,
		RestartDelay:           cfg.RestartDelay,
		StatsEvery:             cfg.StatsEvery,
	}, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, sched.Stats(), sched.Stats(), logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Interrupts are logged and ignored: the pipeline trades responsiveness
	// to shutdown for availability, so only SIGKILL stops the process.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range sigCh {
			logger.Warn("signal received, pipeline continues", "signal", sig.String())
		}
	}()

	sched.Supervise(context.Background())
}
