package domain

import "math"

// Aggregate partitions resolved observations by region id and reduces each
// metric to its arithmetic mean across the cities that reported it. A metric
// nobody reported is omitted rather than defaulted; CitiesCount counts all
// partition members, including those that reported nothing. Empty input
// yields an empty map.
func Aggregate(resolved map[string]Observation) map[int]RegionalAggregate {
	groups := make(map[int][]Observation)
	for _, obs := range resolved {
		if obs.RegionID == 0 {
			continue
		}
		groups[obs.RegionID] = append(groups[obs.RegionID], obs)
	}

	aggregates := make(map[int]RegionalAggregate, len(groups))
	for id, members := range groups {
		aggregates[id] = aggregateRegion(id, members)
	}
	return aggregates
}

func aggregateRegion(id int, members []Observation) RegionalAggregate {
	agg := RegionalAggregate{
		RegionID: id,
		// Members of a partition share the same catalog-assigned name,
		// so any member may supply it.
		Region:      members[0].Region,
		CitiesCount: len(members),
	}

	var hu, pr, tp, wd, ws, aqius, aqicn []float64
	for _, m := range members {
		if w := m.Current.Weather; w != nil {
			hu = appendPresent(hu, w.Humidity)
			pr = appendPresent(pr, w.Pressure)
			tp = appendPresent(tp, w.Temperature)
			wd = appendPresent(wd, w.WindDirection)
			ws = appendPresent(ws, w.WindSpeed)
		}
		if p := m.Current.Pollution; p != nil {
			aqius = appendPresent(aqius, p.AQIUS)
			aqicn = appendPresent(aqicn, p.AQICN)
		}
	}

	agg.Weather = Weather{
		Humidity:      mean2(hu),
		Pressure:      mean2(pr),
		Temperature:   mean2(tp),
		WindDirection: mean2(wd),
		WindSpeed:     mean2(ws),
	}
	agg.Pollution = Pollution{
		AQIUS: mean2(aqius),
		AQICN: mean2(aqicn),
	}
	return agg
}

func appendPresent(dst []float64, v *float64) []float64 {
	if v != nil {
		dst = append(dst, *v)
	}
	return dst
}

// mean2 returns the arithmetic mean rounded to 2 decimal places, or nil when
// no values contributed.
func mean2(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := math.Round(sum/float64(len(values))*100) / 100
	return &m
}
