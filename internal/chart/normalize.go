package chart

import (
	"fmt"
	"strings"
	"time"
)

const labelFormat = "2006-01"

// periodOf computes the period key for t relative to baseYear:
// month + (year-baseYear)*12. Strictly increasing in time, one key per
// calendar month.
func periodOf(t time.Time, baseYear int) int {
	return int(t.Month()) + (t.Year()-baseYear)*12
}

// Normalize resolves raw events to (artist, period) pairs. Events with an
// empty artist or a zero timestamp are skipped and reported in the summary
// rather than guessed at. No dedup: repeated plays in the same period are
// meaningful. The period origin is the year of the earliest valid event.
func Normalize(events []RawEvent) ([]NormalizedEvent, *SkipSummary) {
	summary := &SkipSummary{}

	// First pass finds the base year; period keys for the whole dataset
	// hang off the earliest valid event.
	baseYear := 0
	for i, ev := range events {
		if err := validate(i, ev); err != nil {
			continue
		}
		if baseYear == 0 || ev.Timestamp.Year() < baseYear {
			baseYear = ev.Timestamp.Year()
		}
	}

	var out []NormalizedEvent
	for i, ev := range events {
		if err := validate(i, ev); err != nil {
			summary.add(err)
			continue
		}
		out = append(out, NormalizedEvent{
			Artist:    ev.Artist,
			Period:    periodOf(ev.Timestamp, baseYear),
			Label:     ev.Timestamp.Format(labelFormat),
			Timestamp: ev.Timestamp,
			Seq:       i,
		})
	}
	return out, summary
}

func validate(index int, ev RawEvent) error {
	if strings.TrimSpace(ev.Artist) == "" {
		return &MalformedEventError{Index: index, Reason: "empty artist name"}
	}
	if ev.Timestamp.IsZero() {
		return &MalformedEventError{
			Index:  index,
			Reason: fmt.Sprintf("unparseable timestamp for artist %q", ev.Artist),
		}
	}
	return nil
}
