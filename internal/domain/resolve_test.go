package domain_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uk-climate-etl/internal/domain"
)

func newTestResolver(cityRegion map[string]string) *domain.Resolver {
	return domain.NewResolver(domain.NewCatalog(), cityRegion, slog.Default())
}

func obsAt(lat, lon float64) domain.Observation {
	return domain.Observation{
		Location: &domain.GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}},
	}
}

func TestResolve_TableBeatsCoordinates(t *testing.T) {
	r := newTestResolver(map[string]string{"Inverness": "North Scotland"})

	// Coordinates place the city inside the London box, but the table entry
	// takes precedence.
	obs, ok := r.Resolve("Inverness", obsAt(51.5, 0.1))
	require.True(t, ok)
	assert.Equal(t, "North Scotland", obs.Region)
	assert.Equal(t, 1, obs.RegionID)
}

func TestResolve_DeclaredRegionBeatsCoordinates(t *testing.T) {
	r := newTestResolver(nil)

	obs := obsAt(51.5, 0.1)
	obs.Region = "Yorkshire"

	resolved, ok := r.Resolve("Somewhere", obs)
	require.True(t, ok)
	assert.Equal(t, "Yorkshire", resolved.Region)
	assert.Equal(t, 5, resolved.RegionID)
}

func TestResolve_CoordinatesInsideBox(t *testing.T) {
	r := newTestResolver(nil)

	obs, ok := r.Resolve("Inverness", obsAt(57.4778, -4.2247))
	require.True(t, ok)
	assert.Equal(t, "North Scotland", obs.Region)
	assert.Equal(t, 1, obs.RegionID)
}

func TestResolve_CoordinatesOutsideBoxesUseNearestCentroid(t *testing.T) {
	r := newTestResolver(nil)

	obs, ok := r.Resolve("Lerwick", obsAt(60.155, -1.145))
	require.True(t, ok)
	assert.Equal(t, "North Scotland", obs.Region)
}

func TestResolve_UnknownDeclaredRegionIsDropped(t *testing.T) {
	r := newTestResolver(nil)

	obs := domain.Observation{Region: "Atlantis"}
	_, ok := r.Resolve("Lost City", obs)
	assert.False(t, ok)
}

func TestResolve_NoStrategyApplies(t *testing.T) {
	r := newTestResolver(nil)

	_, ok := r.Resolve("Nowhere", domain.Observation{})
	assert.False(t, ok)

	_, ok = r.Resolve("Nowhere", domain.Observation{Location: &domain.GeoPoint{}})
	assert.False(t, ok)
}

func TestResolve_Idempotent(t *testing.T) {
	r := newTestResolver(nil)

	first, ok := r.Resolve("Inverness", obsAt(57.4778, -4.2247))
	require.True(t, ok)

	second, ok := r.Resolve("Inverness", first)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestResolveAll_CountsSkips(t *testing.T) {
	r := newTestResolver(map[string]string{"Leeds": "Yorkshire"})

	input := map[string]domain.Observation{
		"Leeds":   {},
		"Nowhere": {},
	}

	resolved, skipped := r.ResolveAll(input)
	assert.Equal(t, 1, skipped)
	require.Len(t, resolved, 1)
	assert.Equal(t, 5, resolved["Leeds"].RegionID)
}
