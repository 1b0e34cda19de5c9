package sync

import "github.com/petrolhead/fuelbridge/internal/record"

// Reconcile returns the source records absent from the destination set, in
// source order.
//
// Destination records are frequency-counted rather than collected into a
// plain set: duplicate real fill-ups (same day, same rounded readings) are
// legitimate and must match one-for-one. Each source record either consumes
// one remaining destination occurrence or is emitted as missing, so a single
// destination record never satisfies two source records.
func Reconcile(source, destination []record.Canonical) []record.Canonical {
	remaining := make(map[record.Canonical]int, len(destination))
	for _, d := range destination {
		remaining[d]++
	}

	var missing []record.Canonical
	for _, s := range source {
		if remaining[s] > 0 {
			remaining[s]--
			continue
		}
		missing = append(missing, s)
	}

	return missing
}
