package snapshot

import (
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
)

// Progress is the derived start/end/gained triple for one metric over a
// period bracketed by two snapshots.
//
// UnknownStart reports that the subject was unranked at the period start, so
// Gained is not a trustworthy literal difference. Consumers must check the
// flag instead of reading Gained; naive end-minus-sentinel arithmetic is
// impossible because metric.Value carries no sentinel.
type Progress struct {
	Metric       metric.Metric
	Start        metric.Value
	End          metric.Value
	Gained       int64
	UnknownStart bool
}

// ComputeProgress derives the gain for a metric between two observed values.
// Arithmetic uses literal figures even below a boss/activity minimum; the
// "< minimum" interpretation belongs to metric.DisplayValue, not here.
func ComputeProgress(name metric.Metric, start, end metric.Value) Progress {
	p := Progress{Metric: name, Start: start, End: end}

	startAmount, startKnown := start.Amount()
	endAmount, endKnown := end.Amount()

	if !startKnown {
		p.UnknownStart = true
		return p
	}
	if !endKnown {
		return p
	}

	p.Gained = endAmount - startAmount
	return p
}

// ComputeBetween derives progress for a metric from two full snapshots.
func ComputeBetween(name metric.Metric, start, end Snapshot) Progress {
	return ComputeProgress(name, start.Stat(name).Value, end.Stat(name).Value)
}

// PercentGained computes the relative gain used by leaderboard ordering.
//
// Boss/activity metrics are floored at minimum-1 so that a player surfacing
// onto the hiscores is not credited with an infinite relative gain; a zero
// start with any positive gain counts as a full 100% gain.
func PercentGained(name metric.Metric, start, end int64) float64 {
	floor := int64(0)
	if d, ok := metric.Lookup(name); ok && (d.Type == metric.TypeBoss || d.Type == metric.TypeActivity) {
		floor = d.Minimum - 1
	}

	base := start
	if floor > base {
		base = floor
	}

	if base == 0 {
		if end > 0 {
			return 1
		}
		return 0
	}

	return float64(end-base) / float64(base)
}
