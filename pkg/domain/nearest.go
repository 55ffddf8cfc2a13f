package domain

import (
	"sort"
	"time"
)

// NearestEvent returns the occurrence whose representative instant (earliest
// session start) is closest to now by absolute distance, so a recently
// started event can win over a further-away future one. Returns nil for an
// empty catalog or one with no sessioned occurrences.
//
// Ties are broken deterministically: event ids are visited in ascending
// order, occurrences in catalog list order, and the first minimal occurrence
// is kept.
func NearestEvent(catalog Catalog, now time.Time) *Event {
	ids := make([]int, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var nearest *Event
	var smallest time.Duration
	for _, id := range ids {
		occurrences := catalog[id]
		for i := range occurrences {
			representative, ok := occurrences[i].EarliestStart()
			if !ok {
				continue
			}
			distance := representative.Sub(now)
			if distance < 0 {
				distance = -distance
			}
			if nearest == nil || distance < smallest {
				nearest = &occurrences[i]
				smallest = distance
			}
		}
	}
	return nearest
}
