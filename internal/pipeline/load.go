package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/uk-climate-etl/internal/config"
	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

// HistoryAppender appends one artifact entry to the local history files.
type HistoryAppender interface {
	Append(kind string, payload any) error
}

// DocumentStore is the keyed append-only durable store.
type DocumentStore interface {
	AppendDocument(ctx context.Context, runID, kind string, payload any) error
}

// Publisher pushes merged records to downstream consumers.
type Publisher interface {
	PublishMerged(ctx context.Context, runID string, merged map[int]domain.MergedRecord) error
}

// ArtifactLoader implements Loader. Every artifact is appended to local
// history; artifacts flagged durable additionally go to the document store
// and, for merged records, the publisher. Store or publisher trouble degrades
// to local-only persistence with a warning; only a local history failure
// fails the Load stage.
type ArtifactLoader struct {
	history   HistoryAppender
	store     DocumentStore // nil when the durable store is disabled
	publisher Publisher     // nil when publishing is disabled
	durable   config.DurableArtifacts
	logger    *slog.Logger
}

// NewLoader creates the Load stage. store and publisher may be nil.
func NewLoader(history HistoryAppender, store DocumentStore, publisher Publisher, durable config.DurableArtifacts, logger *slog.Logger) *ArtifactLoader {
	return &ArtifactLoader{
		history:   history,
		store:     store,
		publisher: publisher,
		durable:   durable,
		logger:    logger,
	}
}

func (l *ArtifactLoader) Load(ctx context.Context, runID string, arts Artifacts) error {
	local := []struct {
		kind    string
		payload any
		durable bool
	}{
		{KindResolved, arts.Resolved, l.durable.Resolved},
		{KindAggregated, arts.Aggregated, l.durable.Aggregated},
		{KindMerged, arts.Merged, l.durable.Merged},
	}

	for _, a := range local {
		if err := l.history.Append(a.kind, a.payload); err != nil {
			return fmt.Errorf("append %s history: %w", a.kind, err)
		}
		l.storeDurable(ctx, runID, a.kind, a.payload, a.durable)
	}

	if l.publisher != nil && l.durable.Merged {
		if err := l.publisher.PublishMerged(ctx, runID, arts.Merged); err != nil {
			l.logger.Warn("publish merged records failed", "run_id", runID, "error", err)
		}
	}

	l.logger.Info("load complete", "run_id", runID, "regions", len(arts.Merged))
	return nil
}

func (l *ArtifactLoader) storeDurable(ctx context.Context, runID, kind string, payload any, durable bool) {
	if !durable || l.store == nil {
		return
	}
	if err := l.store.AppendDocument(ctx, runID, kind, payload); err != nil {
		l.logger.Warn("durable store unavailable, keeping local copy only",
			"kind", kind, "run_id", runID, "error", err)
	}
}
