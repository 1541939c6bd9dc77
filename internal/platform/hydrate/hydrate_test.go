package hydrate

import (
	"reflect"
	"testing"
	"time"
)

func TestDeep(t *testing.T) {
	t.Run("promotes nested date strings", func(t *testing.T) {
		payload := map[string]any{
			"username":  "zezima",
			"updatedAt": "2026-08-30T18:04:05.000Z",
			"snapshots": []any{
				map[string]any{"createdAt": "2026-08-29T10:00:00Z", "value": float64(1200)},
			},
		}

		got := Deep(payload).(map[string]any)

		updated, ok := got["updatedAt"].(time.Time)
		if !ok {
			t.Fatalf("updatedAt not hydrated: %T", got["updatedAt"])
		}
		want := time.Date(2026, time.August, 30, 18, 4, 5, 0, time.UTC)
		if !updated.Equal(want) {
			t.Fatalf("unexpected timestamp: got=%s want=%s", updated, want)
		}

		nested := got["snapshots"].([]any)[0].(map[string]any)
		if _, ok := nested["createdAt"].(time.Time); !ok {
			t.Fatalf("nested createdAt not hydrated: %T", nested["createdAt"])
		}
		if nested["value"] != float64(1200) {
			t.Fatalf("numeric scalar changed: %v", nested["value"])
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		payload := map[string]any{
			"registeredAt": "2025-01-15",
			"count":        float64(3),
			"names":        []any{"a", "b"},
		}

		once := Deep(payload)
		twice := Deep(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("double hydration diverged:\nonce:  %#v\ntwice: %#v", once, twice)
		}
	})

	t.Run("leaves non-date strings alone", func(t *testing.T) {
		payload := map[string]any{
			"username": "2026",
			"numeric":  "12345678",
			"phrase":   "updated-at-dawn",
			"flag":     true,
			"nothing":  nil,
		}

		got := Deep(payload).(map[string]any)
		if !reflect.DeepEqual(got, payload) {
			t.Fatalf("non-date payload changed: %#v", got)
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{in: "2026-08-30T18:04:05Z", ok: true},
		{in: "2026-08-30T18:04:05.123Z", ok: true},
		{in: "2026-08-30T18:04:05", ok: true},
		{in: "2026-08-30", ok: true},
		{in: "30-08-2026", ok: false},
		{in: "12345678", ok: false},
		{in: "zezima", ok: false},
		{in: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, ok := ParseTimestamp(tc.in)
			if ok != tc.ok {
				t.Fatalf("unexpected parse result for %q: got=%v want=%v", tc.in, ok, tc.ok)
			}
		})
	}
}
