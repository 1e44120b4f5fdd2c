package chart

import (
	"runtime"
	"time"
)

// RawEvent is a single observed play of an artist, as stored by update.
// Artist names are assumed canonical by the time they arrive here.
type RawEvent struct {
	Artist    string
	Timestamp time.Time
}

// NormalizedEvent is a RawEvent resolved to a period key. Period is
// month + (year-baseYear)*12, so May of one year and May of the next get
// distinct keys. Seq preserves input order for stable sorting of events
// with equal timestamps.
type NormalizedEvent struct {
	Artist    string
	Period    int
	Label     string
	Timestamp time.Time
	Seq       int

	// RunningCount is the 1-based ordinal of this event within its
	// artist's chronologically sorted event list. Assigned by CountPlays.
	RunningCount int
}

// Snapshot is the highest running count observed for an artist within one
// period: how many plays had accumulated by the end of that period.
type Snapshot struct {
	Artist string
	Period int
	Count  int
}

// Grid holds the forward-filled cumulative counts. Counts are stored
// sparsely per artist; Filled synthesizes the dense value for any period
// in range.
type Grid struct {
	MinPeriod int
	MaxPeriod int
	Labels    map[int]string
	Artists   []string

	// filled[artist] has one entry per period in [MinPeriod, MaxPeriod].
	filled map[string][]int
}

// Filled returns the forward-filled count for artist at period. Zero for
// periods before the artist's first play, or for unknown artists.
func (g *Grid) Filled(artist string, period int) int {
	counts, ok := g.filled[artist]
	if !ok || period < g.MinPeriod || period > g.MaxPeriod {
		return 0
	}
	return counts[period-g.MinPeriod]
}

// RankedRow is one bar of one animation frame. Ordering is the inverted
// rank axis, K+1-rank, kept as a real number so the renderer can
// interpolate fractional positions between frames.
type RankedRow struct {
	Artist   string
	Period   int
	Label    string
	Count    int
	Rank     int
	Ordering float64
}

// Config controls the pipeline.
type Config struct {
	// TopN is the rank cutoff and the ordering-axis size.
	TopN int

	// GridLimit caps the artist x period product before the grid is
	// materialized.
	GridLimit int

	// MinPlays drops artists with fewer lifetime plays before the grid
	// stage. Zero keeps everyone.
	MinPlays int

	// Workers bounds the parallel fill walk. Zero means GOMAXPROCS.
	Workers int

	// Strict makes empty input an error instead of empty output.
	Strict bool
}

const (
	DefaultTopN      = 20
	DefaultGridLimit = 2_000_000
)

func (c Config) topN() int {
	if c.TopN <= 0 {
		return DefaultTopN
	}
	return c.TopN
}

func (c Config) gridLimit() int {
	if c.GridLimit <= 0 {
		return DefaultGridLimit
	}
	return c.GridLimit
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}
