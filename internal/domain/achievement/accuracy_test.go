package achievement

import (
	"testing"
	"time"
)

func TestClassifyAccuracy(t *testing.T) {
	cases := []struct {
		name string
		gap  time.Duration
		want AccuracyTier
	}{
		{name: "just under a day is good", gap: 24*time.Hour - time.Millisecond, want: AccuracyGood},
		{name: "exactly a day drops to decent", gap: 24 * time.Hour, want: AccuracyDecent},
		{name: "just under a week is decent", gap: 168*time.Hour - time.Millisecond, want: AccuracyDecent},
		{name: "exactly a week drops to weak", gap: 168 * time.Hour, want: AccuracyWeak},
		{name: "month-wide bracket is weak", gap: 30 * 24 * time.Hour, want: AccuracyWeak},
		{name: "zero gap is unknown", gap: 0, want: AccuracyUnknown},
		{name: "wire sentinel is unknown", gap: -time.Millisecond, want: AccuracyUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyAccuracy(tc.gap)
			if got != tc.want {
				t.Fatalf("unexpected tier: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestAccuracyTierOrdering(t *testing.T) {
	// The numeric tier values are part of the contract: the UI sorts by them.
	if AccuracyUnknown != 0 || AccuracyWeak != 1 || AccuracyDecent != 2 || AccuracyGood != 3 {
		t.Fatalf("tier values changed: unknown=%d weak=%d decent=%d good=%d",
			AccuracyUnknown, AccuracyWeak, AccuracyDecent, AccuracyGood)
	}
}

func TestAccuracyBound(t *testing.T) {
	t.Run("good tier renders hours", func(t *testing.T) {
		got := AccuracyBound(12*time.Hour + 30*time.Minute)
		if got != "< 13 hours" {
			t.Fatalf("unexpected bound: got=%q want=%q", got, "< 13 hours")
		}
	})

	t.Run("decent tier renders days", func(t *testing.T) {
		got := AccuracyBound(3*24*time.Hour + time.Hour)
		if got != "< 4 days" {
			t.Fatalf("unexpected bound: got=%q want=%q", got, "< 4 days")
		}
	})

	t.Run("weak tier renders days", func(t *testing.T) {
		got := AccuracyBound(9 * 24 * time.Hour)
		if got != "< 9 days" {
			t.Fatalf("unexpected bound: got=%q want=%q", got, "< 9 days")
		}
	})

	t.Run("unknown renders empty", func(t *testing.T) {
		if got := AccuracyBound(-time.Second); got != "" {
			t.Fatalf("unexpected bound: got=%q", got)
		}
	})
}
