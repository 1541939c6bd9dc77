package achievement

import (
	"fmt"
	"time"
)

// AccuracyTier classifies how tightly an achievement's completion timestamp
// is bracketed by snapshots. Higher is tighter.
type AccuracyTier int

const (
	AccuracyUnknown AccuracyTier = iota
	AccuracyWeak
	AccuracyDecent
	AccuracyGood
)

const (
	goodAccuracyLimit   = 24 * time.Hour
	decentAccuracyLimit = 7 * 24 * time.Hour
)

// ClassifyAccuracy maps a bracketing gap to a discrete tier. Non-positive
// gaps (the wire sends -1 or omits the field for imported data) classify as
// unknown. Both tier boundaries are exclusive on the tight side: a gap of
// exactly 24h is Decent, exactly 168h is Weak.
func ClassifyAccuracy(gap time.Duration) AccuracyTier {
	switch {
	case gap <= 0:
		return AccuracyUnknown
	case gap < goodAccuracyLimit:
		return AccuracyGood
	case gap < decentAccuracyLimit:
		return AccuracyDecent
	default:
		return AccuracyWeak
	}
}

// AccuracyBound renders the human-readable "achieved within" bound: hours for
// tight brackets, days otherwise, empty when the precision is unknown.
func AccuracyBound(gap time.Duration) string {
	switch ClassifyAccuracy(gap) {
	case AccuracyGood:
		return fmt.Sprintf("< %d hours", ceilDiv(gap, time.Hour))
	case AccuracyDecent, AccuracyWeak:
		return fmt.Sprintf("< %d days", ceilDiv(gap, 24*time.Hour))
	default:
		return ""
	}
}

func (t AccuracyTier) String() string {
	switch t {
	case AccuracyGood:
		return "good"
	case AccuracyDecent:
		return "decent"
	case AccuracyWeak:
		return "weak"
	default:
		return "unknown"
	}
}

func ceilDiv(d, unit time.Duration) int64 {
	return int64((d + unit - 1) / unit)
}
