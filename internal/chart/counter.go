package chart

import "sort"

// CountPlays partitions events by artist, sorts each partition
// chronologically (input order breaks timestamp ties) and assigns running
// counts 1, 2, 3, ... per artist. The count is the lifetime total, it never
// resets at period boundaries.
//
// Returns an UnsortableEventError if an event with a zero timestamp slipped
// past normalization.
func CountPlays(events []NormalizedEvent) ([]NormalizedEvent, error) {
	byArtist := make(map[string][]NormalizedEvent)
	for _, ev := range events {
		if ev.Timestamp.IsZero() {
			return nil, &UnsortableEventError{Artist: ev.Artist}
		}
		byArtist[ev.Artist] = append(byArtist[ev.Artist], ev)
	}

	out := make([]NormalizedEvent, 0, len(events))
	for _, partition := range byArtist {
		sort.SliceStable(partition, func(i, j int) bool {
			if !partition[i].Timestamp.Equal(partition[j].Timestamp) {
				return partition[i].Timestamp.Before(partition[j].Timestamp)
			}
			return partition[i].Seq < partition[j].Seq
		})
		for i := range partition {
			partition[i].RunningCount = i + 1
		}
		out = append(out, partition...)
	}
	return out, nil
}
