package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is the flat(ish) field map the query engine operates on. Values may
// be strings, numbers, booleans, or one level of nested object.
type Record = map[string]any

// ResolveField extracts a value via dot-path traversal. Any missing segment
// or traversal into a non-object yields nil, never a panic.
func ResolveField(rec Record, path string) any {
	if rec == nil || path == "" {
		return nil
	}
	var current any = map[string]any(rec)
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		value, ok := obj[segment]
		if !ok {
			return nil
		}
		current = value
	}
	return current
}

// coerceString renders a field value for string comparison.
func coerceString(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// coerceNumber converts a field or filter value to a finite float64.
// Numeric strings are accepted; anything else fails the coercion.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
}

// coerceTime parses a field or filter value as a timestamp.
func coerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// coerceBool interprets filter values for boolean filters the way form
// and query-string inputs arrive.
func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "true" || s == "1" || s == "ya"
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return false
	}
}
