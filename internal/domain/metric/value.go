package metric

import (
	"fmt"
	"strconv"
)

// WireUnranked is the sentinel the remote hiscores use for subjects that do
// not appear on a ranking table. It is distinct from a ranked value of zero.
const WireUnranked int64 = -1

// Value is a hiscores figure that may be absent when the subject is unranked.
// The zero Value is unranked; arithmetic on the wire sentinel is impossible
// without first asking whether the value is known.
type Value struct {
	amount int64
	ranked bool
}

func Ranked(amount int64) Value {
	return Value{amount: amount, ranked: true}
}

func Unranked() Value {
	return Value{}
}

// FromWire converts a raw hiscores figure, mapping the -1 sentinel to the
// unranked case.
func FromWire(raw int64) Value {
	if raw == WireUnranked {
		return Unranked()
	}
	return Ranked(raw)
}

func (v Value) IsRanked() bool {
	return v.ranked
}

// Amount returns the underlying figure and whether it is known.
func (v Value) Amount() (int64, bool) {
	return v.amount, v.ranked
}

// OrZero returns the figure, treating unranked as zero. Callers that must
// distinguish unranked from zero use Amount or IsRanked instead.
func (v Value) OrZero() int64 {
	return v.amount
}

// Wire converts back to the remote representation.
func (v Value) Wire() int64 {
	if !v.ranked {
		return WireUnranked
	}
	return v.amount
}

func (v Value) String() string {
	if !v.ranked {
		return "unranked"
	}
	return strconv.FormatInt(v.amount, 10)
}

// DisplayValue renders a value for presentation. Boss and activity figures
// below the hiscores exposure floor are only known to be below it, so they
// render as a bound rather than an exact figure. This interpretation is
// display-only; delta arithmetic always uses the literal figure.
func DisplayValue(name Metric, v Value) string {
	if !v.ranked {
		return "---"
	}

	d, ok := descriptors[name]
	if ok && (d.Type == TypeBoss || d.Type == TypeActivity) && v.amount < d.Minimum {
		return fmt.Sprintf("< %d", d.Minimum)
	}
	return strconv.FormatInt(v.amount, 10)
}
