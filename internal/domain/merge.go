package domain

// Merge joins regional aggregates with emissions records on region id. The
// aggregate side is authoritative: every aggregate produces a merged record,
// emissions-only regions never surface, and a missing emissions record simply
// leaves the emissions fields empty. Fields absent from a matched emissions
// record stay absent in the merged record; no numeric combination happens
// here.
func Merge(aggregates map[int]RegionalAggregate, emissions map[int]EmissionsRecord) map[int]MergedRecord {
	merged := make(map[int]MergedRecord, len(aggregates))
	for id, agg := range aggregates {
		rec := MergedRecord{
			RegionID:    id,
			Region:      agg.Region,
			CitiesCount: agg.CitiesCount,
			Weather:     agg.Weather,
			Pollution:   agg.Pollution,
		}
		if em, ok := emissions[id]; ok {
			rec.Intensity = em.Intensity
			rec.GenerationMix = em.GenerationMix
			rec.From = em.From
			rec.To = em.To
		}
		merged[id] = rec
	}
	return merged
}
