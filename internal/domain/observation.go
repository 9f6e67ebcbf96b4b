package domain

// Observation is one city's reading from the air-quality API. The resolver
// annotates it with the owning region; everything else is carried verbatim
// from the upstream payload.
type Observation struct {
	City     string     `json:"city,omitempty"`
	Region   string     `json:"region,omitempty"`
	RegionID int        `json:"region_id,omitempty"`
	Location *GeoPoint  `json:"location,omitempty"`
	Current  Conditions `json:"current"`
}

// GeoPoint is a GeoJSON point as returned by the AirVisual API.
type GeoPoint struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"` // GeoJSON order: [lon, lat]
}

// LatLon unpacks the GeoJSON coordinate pair. ok is false when the point is
// missing or malformed.
func (p *GeoPoint) LatLon() (lat, lon float64, ok bool) {
	if p == nil || len(p.Coordinates) < 2 {
		return 0, 0, false
	}
	return p.Coordinates[1], p.Coordinates[0], true
}

// Conditions holds the current weather and pollution blocks. Either block may
// be absent when the upstream station did not report it.
type Conditions struct {
	Weather   *Weather   `json:"weather,omitempty"`
	Pollution *Pollution `json:"pollution,omitempty"`
}

// Weather metrics use the AirVisual short keys. Nil means "not reported";
// aggregation never invents a zero for a missing metric.
type Weather struct {
	Humidity      *float64 `json:"hu,omitempty"`
	Pressure      *float64 `json:"pr,omitempty"`
	Temperature   *float64 `json:"tp,omitempty"`
	WindDirection *float64 `json:"wd,omitempty"`
	WindSpeed     *float64 `json:"ws,omitempty"`
}

// Pollution holds the two AQI variants (US EPA and China MEP scales).
type Pollution struct {
	AQIUS *float64 `json:"aqius,omitempty"`
	AQICN *float64 `json:"aqicn,omitempty"`
}

// RegionalAggregate is the per-region mean of every reported metric.
type RegionalAggregate struct {
	RegionID    int       `json:"region_id"`
	Region      string    `json:"region"`
	CitiesCount int       `json:"cities_count"`
	Weather     Weather   `json:"weather"`
	Pollution   Pollution `json:"pollution"`
}

// Intensity is the carbon-intensity figure for one region's half-hour window.
type Intensity struct {
	Forecast *float64 `json:"forecast,omitempty"`
	Actual   *float64 `json:"actual,omitempty"`
	Index    string   `json:"index,omitempty"`
}

// FuelShare is one entry of a region's generation mix.
type FuelShare struct {
	Fuel string  `json:"fuel"`
	Perc float64 `json:"perc"`
}

// EmissionsRecord is one region's carbon data, flattened from the Carbon
// Intensity API envelope by the extract adapter. From/To are kept as the
// API's RFC 3339 strings; the core copies them without interpreting them.
type EmissionsRecord struct {
	From          string      `json:"from,omitempty"`
	To            string      `json:"to,omitempty"`
	Intensity     *Intensity  `json:"intensity,omitempty"`
	GenerationMix []FuelShare `json:"generationmix,omitempty"`
}

// MergedRecord is the pipeline's terminal artifact: a regional aggregate
// joined with that region's emissions data where available.
type MergedRecord struct {
	RegionID      int         `json:"region_id"`
	Region        string      `json:"region"`
	CitiesCount   int         `json:"cities_count"`
	Weather       Weather     `json:"weather"`
	Pollution     Pollution   `json:"pollution"`
	Intensity     *Intensity  `json:"intensity,omitempty"`
	GenerationMix []FuelShare `json:"generationmix,omitempty"`
	From          string      `json:"from,omitempty"`
	To            string      `json:"to,omitempty"`
}

// Float returns a pointer to v, for building observations and fixtures.
func Float(v float64) *float64 { return &v }
