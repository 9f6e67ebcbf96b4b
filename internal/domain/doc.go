// Package domain models UK air-quality and carbon-intensity data and the
// region pipeline that reconciles, aggregates, and merges it.
//
// # Data Sources
//
// Air-quality readings come from the IQAir AirVisual nearest-city API
// (https://api.airvisual.com/v2/nearest_city), fetched per reference city.
// Each reading carries a GeoJSON point ([lon, lat] order) and a "current"
// block with weather and pollution metrics under AirVisual's short keys:
//
//	hu  relative humidity, percent
//	pr  atmospheric pressure, hPa
//	tp  temperature, Celsius
//	wd  wind direction, degrees
//	ws  wind speed, m/s
//	aqius / aqicn  air-quality index on the US EPA and China MEP scales
//
// Any metric or block may be missing from a station's report. Missing values
// are modelled as nil pointers and excluded from aggregation, never zeroed.
//
// Carbon data comes from the National Grid Carbon Intensity regional API
// (https://api.carbonintensity.org.uk/regional/regionid/{id}), which reports
// a forecast intensity and generation mix per region for a half-hour window.
// The region ids in [ukRegions] follow that API's numbering.
//
// # Region Resolution
//
// Each city is assigned to one of fourteen GB regions by [Resolver], trying
// in order: the static city→region table, a region name already on the
// observation, then coordinates. Coordinate placement scans the region
// bounding boxes in declaration order and falls back to the nearest box
// centroid by planar Euclidean distance over lat/lon degrees. Cities that
// cannot be placed, or that resolve to a name outside the catalog, are
// dropped and counted as skips. Northern Ireland is out of scope: the Carbon
// Intensity regional feed does not cover it, so its cities are filtered from
// the reference table.
//
// # Aggregation and Merge
//
// [Aggregate] reduces each region's observations to per-metric means rounded
// to two decimal places. [Merge] then joins the aggregates with emissions
// records on region id, left-outer from the aggregate side.
package domain
