package domain

import "log/slog"

// strategy tries to name an observation's region. An empty result means the
// strategy has no opinion and the next one in the chain is consulted.
type strategy func(city string, obs Observation) string

// Resolver assigns each observation to its owning region via an ordered
// strategy chain: static city table, region already declared on the
// observation, then coordinates. First match wins, so a table entry always
// beats a coordinate-implied region.
type Resolver struct {
	catalog    *Catalog
	cityRegion map[string]string
	strategies []strategy
	logger     *slog.Logger
}

// NewResolver creates a resolver over the given catalog and city→region table.
func NewResolver(catalog *Catalog, cityRegion map[string]string, logger *slog.Logger) *Resolver {
	r := &Resolver{
		catalog:    catalog,
		cityRegion: cityRegion,
		logger:     logger,
	}
	r.strategies = []strategy{r.fromTable, r.fromDeclared, r.fromCoordinates}
	return r
}

// Resolve returns the observation annotated with region name and id. ok is
// false when no strategy names a region, or the named region is unknown to
// the catalog; such observations are dropped by the caller, not errored.
// Re-resolving an annotated observation is stable: the declared-region
// strategy re-reads the annotation it previously wrote.
func (r *Resolver) Resolve(city string, obs Observation) (Observation, bool) {
	var name string
	for _, s := range r.strategies {
		if name = s(city, obs); name != "" {
			break
		}
	}
	if name == "" {
		return obs, false
	}

	id, ok := r.catalog.IDByName(name)
	if !ok {
		r.logger.Warn("resolved region not in catalog", "city", city, "region", name)
		return obs, false
	}

	obs.Region = name
	obs.RegionID = id
	return obs, true
}

// ResolveAll annotates every observation it can place and drops the rest,
// returning the resolved set and the number of skipped locations.
func (r *Resolver) ResolveAll(observations map[string]Observation) (map[string]Observation, int) {
	resolved := make(map[string]Observation, len(observations))
	skipped := 0
	for city, obs := range observations {
		annotated, ok := r.Resolve(city, obs)
		if !ok {
			r.logger.Warn("no region for location, skipping", "city", city)
			skipped++
			continue
		}
		resolved[city] = annotated
	}
	return resolved, skipped
}

func (r *Resolver) fromTable(city string, _ Observation) string {
	return r.cityRegion[city]
}

func (r *Resolver) fromDeclared(_ string, obs Observation) string {
	return obs.Region
}

func (r *Resolver) fromCoordinates(city string, obs Observation) string {
	lat, lon, ok := obs.Location.LatLon()
	if !ok {
		return ""
	}
	name := r.catalog.Locate(lat, lon)
	if name != "" {
		r.logger.Debug("region determined from coordinates", "city", city, "region", name)
	}
	return name
}
