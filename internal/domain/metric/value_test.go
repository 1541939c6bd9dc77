package metric

import "testing"

func TestFromWire(t *testing.T) {
	t.Run("maps sentinel to unranked", func(t *testing.T) {
		v := FromWire(-1)
		if v.IsRanked() {
			t.Fatalf("expected unranked value")
		}
		if v.Wire() != WireUnranked {
			t.Fatalf("unexpected wire value: got=%d want=%d", v.Wire(), WireUnranked)
		}
	})

	t.Run("zero is ranked", func(t *testing.T) {
		v := FromWire(0)
		if !v.IsRanked() {
			t.Fatalf("ranked-but-zero must stay ranked")
		}
		amount, ok := v.Amount()
		if !ok || amount != 0 {
			t.Fatalf("unexpected amount: got=%d ok=%v", amount, ok)
		}
	})
}

func TestDisplayValue(t *testing.T) {
	t.Run("boss below minimum renders as bound", func(t *testing.T) {
		got := DisplayValue(Zulrah, Ranked(12))
		if got != "< 50" {
			t.Fatalf("unexpected display: got=%q want=%q", got, "< 50")
		}
	})

	t.Run("boss at minimum renders literal", func(t *testing.T) {
		got := DisplayValue(Zulrah, Ranked(50))
		if got != "50" {
			t.Fatalf("unexpected display: got=%q want=%q", got, "50")
		}
	})

	t.Run("skill never gets a bound", func(t *testing.T) {
		got := DisplayValue(Attack, Ranked(3))
		if got != "3" {
			t.Fatalf("unexpected display: got=%q want=%q", got, "3")
		}
	})

	t.Run("unranked renders placeholder", func(t *testing.T) {
		got := DisplayValue(Attack, Unranked())
		if got != "---" {
			t.Fatalf("unexpected display: got=%q", got)
		}
	})
}

func TestMinimumValue(t *testing.T) {
	if got := MinimumValue(Zulrah); got != 50 {
		t.Fatalf("unexpected minimum for zulrah: got=%d want=50", got)
	}
	if got := MinimumValue(TzTokJad); got != 1 {
		t.Fatalf("unexpected minimum for tztok_jad: got=%d want=1", got)
	}
	if got := MinimumValue(Overall); got != 0 {
		t.Fatalf("unexpected minimum for overall: got=%d want=0", got)
	}
}
