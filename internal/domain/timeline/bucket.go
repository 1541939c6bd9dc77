package timeline

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSamples reports a contract violation: the bucketing engine requires at
// least one sample and a non-inverted date range.
var ErrNoSamples = errors.New("timeline requires at least one sample")

// Sample is one cumulative observation of a metric value at an instant. The
// series is cumulative, not a rate: a day without samples keeps the previous
// known value.
type Sample struct {
	At    time.Time
	Value int64
}

// Bucket is one calendar day's worth of gain.
type Bucket struct {
	Date   time.Time
	Gained int64
}

// Series is a gap-free daily grid covering the requested range.
type Series struct {
	Buckets []Bucket
	Total   int64
}

// Empty reports the caller-visible no-data condition: every bucket gained
// exactly zero, so the presentation layer can short-circuit to an empty state
// instead of rendering an all-zero grid.
func (s Series) Empty() bool {
	return s.Total == 0
}

// BucketDaily converts an ascending-by-time sequence of cumulative samples
// into one bucket per calendar day in [minDate, maxDate] inclusive. Days
// before the first sample use the first sample as their baseline, so the
// leading buckets gain zero.
func BucketDaily(samples []Sample, minDate, maxDate time.Time) (Series, error) {
	if len(samples) == 0 {
		return Series{}, ErrNoSamples
	}

	first := truncateToDay(minDate)
	last := truncateToDay(maxDate)
	if last.Before(first) {
		return Series{}, fmt.Errorf("%w: range end %s precedes start %s", ErrNoSamples, maxDate.Format(time.DateOnly), minDate.Format(time.DateOnly))
	}

	days := int(last.Sub(first).Hours()/24) + 1
	buckets := make([]Bucket, 0, days)

	idx := 0
	current := samples[0].Value

	// Samples before the range establish the baseline in effect at the end of
	// the day preceding the first bucket.
	for idx < len(samples) && samples[idx].At.Before(first) {
		current = samples[idx].Value
		idx++
	}

	previous := current
	total := int64(0)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		endOfDay := day.AddDate(0, 0, 1)
		for idx < len(samples) && samples[idx].At.Before(endOfDay) {
			current = samples[idx].Value
			idx++
		}

		gained := current - previous
		buckets = append(buckets, Bucket{Date: day, Gained: gained})
		total += gained
		previous = current
	}

	return Series{Buckets: buckets, Total: total}, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
