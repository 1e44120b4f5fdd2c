package chart

import "sort"

// Rank produces the top-K rows for every period in the grid. Within a
// period, artists are totally ordered by filled count descending, then by
// name ascending so equal counts still produce a deterministic frame.
// Ranks are strictly ordinal (no shared ranks), cut off at exactly K rows
// even when counts tie at the boundary. Artists with a zero filled count
// never rank: an artist with no plays yet has no bar.
//
// Ordering is K+1-rank, so rank 1 always sits at the top of the axis
// regardless of how many artists a given frame has.
func Rank(grid *Grid, topN int) []RankedRow {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var rows []RankedRow
	for period := grid.MinPeriod; period <= grid.MaxPeriod; period++ {
		var active []string
		for _, artist := range grid.Artists {
			if grid.Filled(artist, period) > 0 {
				active = append(active, artist)
			}
		}
		sort.Slice(active, func(i, j int) bool {
			ci, cj := grid.Filled(active[i], period), grid.Filled(active[j], period)
			if ci != cj {
				return ci > cj
			}
			return active[i] < active[j]
		})

		if len(active) > topN {
			active = active[:topN]
		}
		for i, artist := range active {
			rank := i + 1
			rows = append(rows, RankedRow{
				Artist:   artist,
				Period:   period,
				Label:    grid.Labels[period],
				Count:    grid.Filled(artist, period),
				Rank:     rank,
				Ordering: float64(topN + 1 - rank),
			})
		}
	}
	return rows
}
