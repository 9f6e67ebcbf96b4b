package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

// ObservationSource fetches per-city air-quality readings.
type ObservationSource interface {
	FetchObservations(ctx context.Context) (map[string]domain.Observation, error)
}

// EmissionsSource fetches per-region carbon data.
type EmissionsSource interface {
	FetchEmissions(ctx context.Context) (map[int]domain.EmissionsRecord, error)
}

// SourceExtractor implements Extractor over the two upstream APIs. The
// air-quality sweep is the gating input: a run without observations has
// nothing to transform. Emissions trouble only degrades the merge.
type SourceExtractor struct {
	air    ObservationSource
	carbon EmissionsSource
	logger *slog.Logger
}

// NewExtractor creates the composite Extract stage.
func NewExtractor(air ObservationSource, carbon EmissionsSource, logger *slog.Logger) *SourceExtractor {
	return &SourceExtractor{air: air, carbon: carbon, logger: logger}
}

func (e *SourceExtractor) Extract(ctx context.Context) (Snapshot, error) {
	observations, err := e.air.FetchObservations(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch observations: %w", err)
	}
	if len(observations) == 0 {
		return Snapshot{}, errors.New("air-quality sweep returned no observations")
	}

	emissions, err := e.carbon.FetchEmissions(ctx)
	if err != nil {
		e.logger.Warn("emissions fetch failed, merging without emissions", "error", err)
		emissions = map[int]domain.EmissionsRecord{}
	}

	e.logger.Info("extract complete", "observations", len(observations), "emission_regions", len(emissions))
	return Snapshot{Observations: observations, Emissions: emissions}, nil
}
