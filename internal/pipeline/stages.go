package pipeline

import (
	"context"

	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

// Artifact kinds, used for history files, store rows, and logs.
const (
	KindResolved   = "resolved"
	KindAggregated = "aggregated"
	KindMerged     = "merged"
)

// Snapshot is the Extract stage's output: one sweep of raw per-city
// observations plus the per-region emissions dataset.
type Snapshot struct {
	Observations map[string]domain.Observation
	Emissions    map[int]domain.EmissionsRecord
}

// Artifacts is the Transform stage's output. Resolved is kept for
// audit/debugging; Merged is the terminal artifact handed to the Load stage.
type Artifacts struct {
	Resolved   map[string]domain.Observation
	Aggregated map[int]domain.RegionalAggregate
	Merged     map[int]domain.MergedRecord
	Skipped    int // locations dropped because no region could be assigned
}

// Extractor fetches a fresh snapshot from the upstream APIs.
type Extractor interface {
	Extract(ctx context.Context) (Snapshot, error)
}

// Transformer resolves, aggregates, and merges one snapshot.
type Transformer interface {
	Transform(ctx context.Context, snap Snapshot) (Artifacts, error)
}

// Loader persists the artifacts of one run.
type Loader interface {
	Load(ctx context.Context, runID string, arts Artifacts) error
}
