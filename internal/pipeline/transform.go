package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/uk-climate-etl/internal/domain"
	"github.com/couchcryptid/uk-climate-etl/internal/observability"
)

// RegionTransformer implements Transformer using the domain resolver,
// aggregator, and merger. Its contract is total: it always produces
// artifacts, possibly empty, and never fails a run on its own.
type RegionTransformer struct {
	resolver *domain.Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates the Transform stage.
func NewTransformer(resolver *domain.Resolver, logger *slog.Logger, metrics *observability.Metrics) *RegionTransformer {
	return &RegionTransformer{resolver: resolver, logger: logger, metrics: metrics}
}

func (t *RegionTransformer) Transform(_ context.Context, snap Snapshot) (Artifacts, error) {
	resolved, skipped := t.resolver.ResolveAll(snap.Observations)
	t.metrics.LocationsResolved.Add(float64(len(resolved)))
	t.metrics.LocationsSkipped.Add(float64(skipped))

	aggregated := domain.Aggregate(resolved)
	merged := domain.Merge(aggregated, snap.Emissions)
	t.metrics.RegionsMerged.Set(float64(len(merged)))

	t.logger.Info("transform complete",
		"resolved", len(resolved),
		"skipped", skipped,
		"regions", len(merged),
	)

	return Artifacts{
		Resolved:   resolved,
		Aggregated: aggregated,
		Merged:     merged,
		Skipped:    skipped,
	}, nil
}
