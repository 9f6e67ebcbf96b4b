package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

func TestMerge_JoinsOnRegionID(t *testing.T) {
	aggregates := map[int]domain.RegionalAggregate{
		5: {
			RegionID:    5,
			Region:      "Yorkshire",
			CitiesCount: 3,
			Weather:     domain.Weather{Temperature: domain.Float(11.5)},
		},
	}
	emissions := map[int]domain.EmissionsRecord{
		5: {
			From:      "2026-08-29T10:00Z",
			To:        "2026-08-29T10:30Z",
			Intensity: &domain.Intensity{Forecast: domain.Float(120), Index: "moderate"},
			GenerationMix: []domain.FuelShare{
				{Fuel: "wind", Perc: 52.1},
				{Fuel: "gas", Perc: 30.0},
			},
		},
	}

	merged := domain.Merge(aggregates, emissions)
	require.Len(t, merged, 1)

	want := domain.MergedRecord{
		RegionID:      5,
		Region:        "Yorkshire",
		CitiesCount:   3,
		Weather:       domain.Weather{Temperature: domain.Float(11.5)},
		Intensity:     &domain.Intensity{Forecast: domain.Float(120), Index: "moderate"},
		GenerationMix: emissions[5].GenerationMix,
		From:          "2026-08-29T10:00Z",
		To:            "2026-08-29T10:30Z",
	}
	if diff := cmp.Diff(want, merged[5]); diff != "" {
		t.Errorf("merged record mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_MissingEmissionsIsNotAnError(t *testing.T) {
	aggregates := map[int]domain.RegionalAggregate{
		13: {RegionID: 13, Region: "London", CitiesCount: 2},
	}

	merged := domain.Merge(aggregates, nil)
	require.Len(t, merged, 1)

	rec := merged[13]
	assert.Equal(t, "London", rec.Region)
	assert.Nil(t, rec.Intensity)
	assert.Nil(t, rec.GenerationMix)
	assert.Empty(t, rec.From)
	assert.Empty(t, rec.To)
}

func TestMerge_EmissionsOnlyRegionsNeverSurface(t *testing.T) {
	aggregates := map[int]domain.RegionalAggregate{
		13: {RegionID: 13, Region: "London", CitiesCount: 1},
	}
	emissions := map[int]domain.EmissionsRecord{
		13: {Intensity: &domain.Intensity{Actual: domain.Float(95)}},
		16: {Intensity: &domain.Intensity{Actual: domain.Float(80)}},
	}

	merged := domain.Merge(aggregates, emissions)
	require.Len(t, merged, 1)
	_, ok := merged[16]
	assert.False(t, ok)
}

func TestMerge_PartialEmissionsFieldsStayAbsent(t *testing.T) {
	aggregates := map[int]domain.RegionalAggregate{
		1: {RegionID: 1, Region: "North Scotland", CitiesCount: 1},
	}
	emissions := map[int]domain.EmissionsRecord{
		1: {From: "2026-08-29T10:00Z"},
	}

	merged := domain.Merge(aggregates, emissions)
	rec := merged[1]
	assert.Equal(t, "2026-08-29T10:00Z", rec.From)
	assert.Empty(t, rec.To)
	assert.Nil(t, rec.Intensity)
	assert.Nil(t, rec.GenerationMix)
}

func TestMerge_EmptyAggregates(t *testing.T) {
	emissions := map[int]domain.EmissionsRecord{1: {}}
	assert.Empty(t, domain.Merge(nil, emissions))
}
