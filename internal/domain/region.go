package domain

// BoundingBox is an axis-aligned lat/lon rectangle approximating a region.
type BoundingBox struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Centroid returns the box center, used for the nearest-region fallback.
func (b BoundingBox) Centroid() (lat, lon float64) {
	return (b.LatMin + b.LatMax) / 2, (b.LonMin + b.LonMax) / 2
}

// Region is one of the UK administrative divisions data is aggregated under.
// The ids match the Carbon Intensity API's region ids.
type Region struct {
	ID   int
	Name string
	Box  BoundingBox
}

// ukRegions lists the fourteen GB regions with their approximate bounding
// boxes. Declaration order is significant: the point-in-box scan and the
// nearest-centroid tie-break both settle on the first entry. Northern Ireland
// is intentionally absent; its cities are filtered out of the reference data.
var ukRegions = []Region{
	{1, "North Scotland", BoundingBox{56.5, 60.0, -8.0, -1.0}},
	{2, "South Scotland", BoundingBox{54.8, 56.5, -6.0, -1.5}},
	{3, "North West England", BoundingBox{53.0, 55.0, -4.0, -2.0}},
	{4, "North East England", BoundingBox{53.5, 55.5, -2.0, -0.5}},
	{5, "Yorkshire", BoundingBox{53.0, 54.5, -2.5, -0.5}},
	{6, "North Wales", BoundingBox{52.5, 53.5, -5.0, -2.8}},
	{7, "South Wales", BoundingBox{51.0, 52.5, -5.0, -2.8}},
	{8, "West Midlands", BoundingBox{52.0, 53.0, -3.0, -1.5}},
	{9, "East Midlands", BoundingBox{52.0, 53.5, -1.5, 0.5}},
	{10, "East England", BoundingBox{51.5, 53.0, -0.5, 2.0}},
	{11, "South West England", BoundingBox{49.5, 52.0, -6.5, -2.0}},
	{12, "South England", BoundingBox{50.5, 52.0, -2.0, 0.0}},
	{13, "London", BoundingBox{51.3, 51.7, -0.5, 0.3}},
	{14, "South East England", BoundingBox{50.5, 52.0, 0.0, 1.5}},
}

// Catalog is the immutable region table, loaded once per process.
type Catalog struct {
	regions []Region
	byName  map[string]int
}

// NewCatalog builds the catalog from the static region table.
func NewCatalog() *Catalog {
	return newCatalog(ukRegions)
}

func newCatalog(regions []Region) *Catalog {
	c := &Catalog{
		regions: regions,
		byName:  make(map[string]int, len(regions)),
	}
	for _, r := range c.regions {
		c.byName[r.Name] = r.ID
	}
	return c
}

// IDByName looks up a region id by its display name.
func (c *Catalog) IDByName(name string) (int, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Regions returns the region table in declaration order.
func (c *Catalog) Regions() []Region {
	return c.regions
}

// Locate maps a coordinate to a region name. Points inside a bounding box take
// the first containing region in declaration order; points outside every box
// fall back to the nearest box centroid. Distance is planar Euclidean over
// raw lat/lon degrees, matching the historical assignment of boundary cities;
// a geodesic metric would move some of them to a different region.
func (c *Catalog) Locate(lat, lon float64) string {
	for _, r := range c.regions {
		if r.Box.Contains(lat, lon) {
			return r.Name
		}
	}
	return c.nearest(lat, lon)
}

// nearest returns the region whose box centroid minimizes squared Euclidean
// distance. Strict less-than keeps the first-declared region on ties.
func (c *Catalog) nearest(lat, lon float64) string {
	var (
		best     string
		bestDist = -1.0
	)
	for _, r := range c.regions {
		cLat, cLon := r.Box.Centroid()
		d := (lat-cLat)*(lat-cLat) + (lon-cLon)*(lon-cLon)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = r.Name
		}
	}
	return best
}
