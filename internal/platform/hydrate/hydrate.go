// Package hydrate promotes ISO-8601 date strings inside decoded JSON payloads
// to time.Time values before any consumer observes them. Downstream code may
// assume every date-shaped field is already a typed date, never a string.
package hydrate

import (
	"strings"
	"time"
)

// The closed set of layouts the remote API emits. A candidate string must
// contain a date separator before any parse is attempted, so purely numeric
// strings are never coerced.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Deep walks a sonic-decoded JSON tree (map[string]any, []any, string,
// float64, bool, nil) and returns a structurally identical tree with every
// ISO-8601 string replaced by a time.Time. All other scalars pass through
// unchanged. The walk is idempotent: hydrating an already hydrated tree is a
// no-op because time.Time values pass straight through.
func Deep(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Deep(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Deep(item)
		}
		return out
	case string:
		if parsed, ok := ParseTimestamp(v); ok {
			return parsed
		}
		return v
	default:
		// Numbers, booleans, nulls and already-hydrated time.Time values.
		return value
	}
}

// ParseTimestamp reports whether a string is an ISO-8601 calendar date or
// date-time, returning the parsed value in UTC when it is.
func ParseTimestamp(s string) (time.Time, bool) {
	if len(s) < len(time.DateOnly) || !strings.Contains(s, "-") {
		return time.Time{}, false
	}
	// Cheap shape check: calendar strings start with a 4-digit year.
	if s[4] != '-' {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
