package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCities_ParsesEmbeddedTable(t *testing.T) {
	cities, err := Cities()
	require.NoError(t, err)
	require.NotEmpty(t, cities)

	byName := make(map[string]City, len(cities))
	for _, c := range cities {
		byName[c.Name] = c
	}

	leeds, ok := byName["Leeds"]
	require.True(t, ok)
	assert.Equal(t, "Yorkshire", leeds.Region)
	assert.InDelta(t, 53.8, leeds.Lat, 0.1)
	assert.InDelta(t, -1.55, leeds.Lon, 0.1)
}

func TestCities_ExcludesNorthernIreland(t *testing.T) {
	cities, err := Cities()
	require.NoError(t, err)

	for _, c := range cities {
		assert.NotEqual(t, "Northern Ireland", c.Region, "city %s", c.Name)
		assert.NotEqual(t, "Belfast", c.Name)
	}
}

func TestCities_CoordinatesAreInRange(t *testing.T) {
	cities, err := Cities()
	require.NoError(t, err)

	for _, c := range cities {
		assert.InDelta(t, 54.5, c.Lat, 6.0, "latitude of %s", c.Name)
		assert.InDelta(t, -2.5, c.Lon, 4.5, "longitude of %s", c.Name)
	}
}

func TestCityRegions(t *testing.T) {
	table, err := CityRegions()
	require.NoError(t, err)

	assert.Equal(t, "London", table["London"])
	assert.Equal(t, "Yorkshire", table["Leeds"])
	_, ok := table["Belfast"]
	assert.False(t, ok)
}
