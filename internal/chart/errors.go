package chart

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by Run in strict mode when there are no events.
// Outside strict mode an empty input produces an empty output and no error.
var ErrEmptyInput = errors.New("no events in input")

// MalformedEventError describes a raw event that could not be normalized.
// These are recoverable: the event is skipped and counted, never silently
// dropped.
type MalformedEventError struct {
	Index  int
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event at index %d: %s", e.Index, e.Reason)
}

// UnsortableEventError indicates an event with no usable timestamp reached
// the counting stage. Normalization rejects these, so seeing one means the
// upstream contract was violated. Fatal.
type UnsortableEventError struct {
	Artist string
}

func (e *UnsortableEventError) Error() string {
	return fmt.Sprintf("event for artist %q has a zero timestamp", e.Artist)
}

// GridTooLargeError is returned before the artist x period grid is
// materialized when its size would exceed the configured limit. Callers can
// pre-filter low-activity artists (Config.MinPlays) and retry.
type GridTooLargeError struct {
	Artists int
	Periods int
	Limit   int
}

func (e *GridTooLargeError) Error() string {
	return fmt.Sprintf("grid of %d artists x %d periods (%d cells) exceeds limit of %d",
		e.Artists, e.Periods, e.Artists*e.Periods, e.Limit)
}

// SkipSummary aggregates the malformed events encountered during
// normalization: a count plus the first few sample errors.
type SkipSummary struct {
	Count   int
	Samples []error
}

const maxSkipSamples = 5

func (s *SkipSummary) add(err error) {
	s.Count++
	if len(s.Samples) < maxSkipSamples {
		s.Samples = append(s.Samples, err)
	}
}

func (s *SkipSummary) String() string {
	if s.Count == 0 {
		return "no events skipped"
	}
	out := fmt.Sprintf("skipped %d malformed event(s), e.g.:", s.Count)
	for _, err := range s.Samples {
		out += "\n  " + err.Error()
	}
	return out
}
