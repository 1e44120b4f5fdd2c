package chart

import (
	"sort"
	"time"

	"github.com/alitto/pond/v2"
)

// Aggregate reduces counted events to one Snapshot per (artist, period)
// that actually has plays: the maximum running count within the period,
// which is also the latest since counts are monotonic per artist.
func Aggregate(events []NormalizedEvent) []Snapshot {
	type key struct {
		artist string
		period int
	}
	max := make(map[key]int)
	for _, ev := range events {
		k := key{ev.Artist, ev.Period}
		if ev.RunningCount > max[k] {
			max[k] = ev.RunningCount
		}
	}

	snapshots := make([]Snapshot, 0, len(max))
	for k, count := range max {
		snapshots = append(snapshots, Snapshot{Artist: k.artist, Period: k.period, Count: count})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Artist != snapshots[j].Artist {
			return snapshots[i].Artist < snapshots[j].Artist
		}
		return snapshots[i].Period < snapshots[j].Period
	})
	return snapshots
}

// FillGrid materializes the dense artist x period grid over the full
// contiguous period range, forward-filling each artist's last known count
// through silent periods and zero before its first play. An artist seen at
// count N stays at N through any gap instead of vanishing from the chart.
//
// Fill walks are independent per artist and run on a bounded worker pool.
// The grid size is checked against cfg.GridLimit before any allocation.
func FillGrid(events []NormalizedEvent, cfg Config) (*Grid, error) {
	if len(events) == 0 {
		return &Grid{Labels: map[int]string{}, filled: map[string][]int{}}, nil
	}

	if cfg.MinPlays > 1 {
		events = filterLowActivity(events, cfg.MinPlays)
		if len(events) == 0 {
			return &Grid{Labels: map[int]string{}, filled: map[string][]int{}}, nil
		}
	}

	snapshots := Aggregate(events)

	minPeriod, maxPeriod := snapshots[0].Period, snapshots[0].Period
	artistSet := make(map[string]bool)
	for _, s := range snapshots {
		if s.Period < minPeriod {
			minPeriod = s.Period
		}
		if s.Period > maxPeriod {
			maxPeriod = s.Period
		}
		artistSet[s.Artist] = true
	}

	periods := maxPeriod - minPeriod + 1
	if len(artistSet)*periods > cfg.gridLimit() {
		return nil, &GridTooLargeError{
			Artists: len(artistSet),
			Periods: periods,
			Limit:   cfg.gridLimit(),
		}
	}

	artists := make([]string, 0, len(artistSet))
	for a := range artistSet {
		artists = append(artists, a)
	}
	sort.Strings(artists)

	// Sparse snapshots per artist, already period-ascending from Aggregate.
	perArtist := make(map[string][]Snapshot, len(artists))
	for _, s := range snapshots {
		perArtist[s.Artist] = append(perArtist[s.Artist], s)
	}

	grid := &Grid{
		MinPeriod: minPeriod,
		MaxPeriod: maxPeriod,
		Labels:    labelRange(events[0], minPeriod, maxPeriod),
		Artists:   artists,
		filled:    make(map[string][]int, len(artists)),
	}
	for _, a := range artists {
		grid.filled[a] = make([]int, periods)
	}

	pool := pond.NewPool(cfg.workers())
	group := pool.NewGroup()
	for _, artist := range artists {
		group.Submit(func() {
			fillArtist(grid.filled[artist], perArtist[artist], minPeriod)
		})
	}
	group.Wait()
	pool.StopAndWait()

	return grid, nil
}

// fillArtist walks one artist's periods in ascending order, carrying the
// last known count. A snapshot raises the accumulator, a silent period
// copies it. Guarantees counts are non-decreasing.
func fillArtist(counts []int, snapshots []Snapshot, minPeriod int) {
	last := 0
	next := 0
	for i := range counts {
		period := minPeriod + i
		if next < len(snapshots) && snapshots[next].Period == period {
			if snapshots[next].Count > last {
				last = snapshots[next].Count
			}
			next++
		}
		counts[i] = last
	}
}

// filterLowActivity drops artists whose lifetime play count is below
// minPlays. The lifetime total is the artist's highest running count.
func filterLowActivity(events []NormalizedEvent, minPlays int) []NormalizedEvent {
	totals := make(map[string]int)
	for _, ev := range events {
		if ev.RunningCount > totals[ev.Artist] {
			totals[ev.Artist] = ev.RunningCount
		}
	}

	var kept []NormalizedEvent
	for _, ev := range events {
		if totals[ev.Artist] >= minPlays {
			kept = append(kept, ev)
		}
	}
	return kept
}

// labelRange synthesizes a month label for every period in range,
// including periods with no plays anywhere. The base year is recovered
// from any event's (timestamp, period) pair.
func labelRange(ref NormalizedEvent, minPeriod, maxPeriod int) map[int]string {
	baseYear := ref.Timestamp.Year() - (ref.Period-int(ref.Timestamp.Month()))/12

	labels := make(map[int]string, maxPeriod-minPeriod+1)
	for p := minPeriod; p <= maxPeriod; p++ {
		month := time.Month((p-1)%12 + 1)
		year := baseYear + (p-1)/12
		labels[p] = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(labelFormat)
	}
	return labels
}
