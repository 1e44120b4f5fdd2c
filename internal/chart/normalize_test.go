package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestNormalizePeriodKeys(t *testing.T) {
	events := []RawEvent{
		{Artist: "Low", Timestamp: ts(2019, time.November, 3)},
		{Artist: "Low", Timestamp: ts(2020, time.February, 10)},
		{Artist: "Wilco", Timestamp: ts(2019, time.November, 20)},
	}

	normalized, summary := Normalize(events)
	require.Len(t, normalized, 3)
	assert.Equal(t, 0, summary.Count)

	// Base year is 2019, so November 2019 is period 11 and February 2020
	// is period 14: distinct keys even across the year boundary.
	assert.Equal(t, 11, normalized[0].Period)
	assert.Equal(t, 14, normalized[1].Period)
	assert.Equal(t, 11, normalized[2].Period)

	assert.Equal(t, "2019-11", normalized[0].Label)
	assert.Equal(t, "2020-02", normalized[1].Label)
}

func TestNormalizeSameMonthDifferentYear(t *testing.T) {
	events := []RawEvent{
		{Artist: "Beach House", Timestamp: ts(2018, time.May, 1)},
		{Artist: "Beach House", Timestamp: ts(2019, time.May, 1)},
	}

	normalized, _ := Normalize(events)
	require.Len(t, normalized, 2)
	assert.Equal(t, normalized[0].Period+12, normalized[1].Period)
}

func TestNormalizeSkipsMalformedEvents(t *testing.T) {
	events := []RawEvent{
		{Artist: "", Timestamp: ts(2020, time.January, 1)},
		{Artist: "Caribou", Timestamp: time.Time{}},
		{Artist: "Caribou", Timestamp: ts(2020, time.January, 2)},
		{Artist: "   ", Timestamp: ts(2020, time.January, 3)},
	}

	normalized, summary := Normalize(events)
	require.Len(t, normalized, 1)
	assert.Equal(t, "Caribou", normalized[0].Artist)

	assert.Equal(t, 3, summary.Count)
	require.Len(t, summary.Samples, 3)
	var malformed *MalformedEventError
	require.ErrorAs(t, summary.Samples[0], &malformed)
	assert.Equal(t, 0, malformed.Index)
}

func TestNormalizeSampleCap(t *testing.T) {
	var events []RawEvent
	for i := 0; i < 10; i++ {
		events = append(events, RawEvent{Artist: ""})
	}

	_, summary := Normalize(events)
	assert.Equal(t, 10, summary.Count)
	assert.Len(t, summary.Samples, maxSkipSamples)
	assert.Contains(t, summary.String(), "skipped 10 malformed event(s)")
}

func TestNormalizeNoDedup(t *testing.T) {
	same := RawEvent{Artist: "Can", Timestamp: ts(2020, time.March, 5)}
	normalized, _ := Normalize([]RawEvent{same, same, same})
	assert.Len(t, normalized, 3)
}

func TestNormalizeBaseYearIgnoresMalformed(t *testing.T) {
	// The zero-timestamp event must not drag the base year down.
	events := []RawEvent{
		{Artist: "Broadcast", Timestamp: time.Time{}},
		{Artist: "Broadcast", Timestamp: ts(2021, time.June, 1)},
	}

	normalized, summary := Normalize(events)
	require.Len(t, normalized, 1)
	assert.Equal(t, 6, normalized[0].Period)
	assert.Equal(t, 1, summary.Count)
}
