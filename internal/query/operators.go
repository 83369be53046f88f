package query

import (
	"reflect"
	"strings"
)

/*
 * Operator comparison semantics.
 *
 * Values reach these functions uncoerced; each operator applies its own
 * coercion rule:
 *   - equals/not_equals: string-coerced equality; a nil field value never
 *     equals anything, including values that coerce to "".
 *   - contains/starts_with/ends_with: case-insensitive on coerced strings;
 *     nil field values never match.
 *   - greater_than/less_than: numeric coercion of both sides; non-numeric
 *     on either side is a non-match.
 *   - between: optional independent min/max bounds; a field value that
 *     cannot coerce excludes the record.
 *   - in/not_in: membership with equals semantics.
 */

// Operator selects the comparison strategy for a filter.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpBetween     Operator = "between"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpCustom      Operator = "custom"
)

// RangeValue is the filter value shape for between/range filters. Either
// bound may be nil, in which case that side is unbounded.
type RangeValue struct {
	Min any `json:"min"`
	Max any `json:"max"`
}

// Match applies the operator to a record field value and a filter value.
// Unknown operators fall back to equals.
func Match(op Operator, fieldValue, filterValue any, asDate bool) bool {
	switch op {
	case OpNotEquals:
		return !matchEquals(fieldValue, filterValue)
	case OpContains:
		return matchSubstring(fieldValue, filterValue, strings.Contains)
	case OpStartsWith:
		return matchSubstring(fieldValue, filterValue, strings.HasPrefix)
	case OpEndsWith:
		return matchSubstring(fieldValue, filterValue, strings.HasSuffix)
	case OpGreaterThan:
		return matchCompare(fieldValue, filterValue, func(a, b float64) bool { return a > b })
	case OpLessThan:
		return matchCompare(fieldValue, filterValue, func(a, b float64) bool { return a < b })
	case OpBetween:
		return matchBetween(fieldValue, filterValue, asDate)
	case OpIn:
		return matchIn(fieldValue, filterValue)
	case OpNotIn:
		return !matchIn(fieldValue, filterValue)
	default:
		return matchEquals(fieldValue, filterValue)
	}
}

func matchEquals(fieldValue, filterValue any) bool {
	if fieldValue == nil {
		return false
	}
	return coerceString(fieldValue) == coerceString(filterValue)
}

func matchSubstring(fieldValue, filterValue any, pred func(s, substr string) bool) bool {
	if fieldValue == nil {
		return false
	}
	haystack := strings.ToLower(coerceString(fieldValue))
	needle := strings.ToLower(coerceString(filterValue))
	return pred(haystack, needle)
}

func matchCompare(fieldValue, filterValue any, cmp func(a, b float64) bool) bool {
	a, okA := coerceNumber(fieldValue)
	b, okB := coerceNumber(filterValue)
	if !okA || !okB {
		return false
	}
	return cmp(a, b)
}

func matchBetween(fieldValue, filterValue any, asDate bool) bool {
	min, max, ok := rangeBounds(filterValue)
	if !ok {
		return false
	}
	if asDate {
		t, ok := coerceTime(fieldValue)
		if !ok {
			return false
		}
		if min != nil {
			if lo, ok := coerceTime(min); !ok || t.Before(lo) {
				return false
			}
		}
		if max != nil {
			if hi, ok := coerceTime(max); !ok || t.After(hi) {
				return false
			}
		}
		return true
	}

	n, ok := coerceNumber(fieldValue)
	if !ok {
		return false
	}
	if min != nil {
		if lo, ok := coerceNumber(min); !ok || n < lo {
			return false
		}
	}
	if max != nil {
		if hi, ok := coerceNumber(max); !ok || n > hi {
			return false
		}
	}
	return true
}

func matchIn(fieldValue, filterValue any) bool {
	for _, candidate := range toSlice(filterValue) {
		if matchEquals(fieldValue, candidate) {
			return true
		}
	}
	return false
}

// rangeBounds extracts optional min/max from a RangeValue or a decoded
// JSON object. Bounds that are nil or empty strings count as absent.
func rangeBounds(v any) (min, max any, ok bool) {
	switch r := v.(type) {
	case RangeValue:
		return normalizeBound(r.Min), normalizeBound(r.Max), true
	case *RangeValue:
		if r == nil {
			return nil, nil, false
		}
		return normalizeBound(r.Min), normalizeBound(r.Max), true
	case map[string]any:
		return normalizeBound(r["min"]), normalizeBound(r["max"]), true
	default:
		return nil, nil, false
	}
}

func normalizeBound(v any) any {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return v
}

// toSlice widens any slice-typed filter value to []any.
func toSlice(v any) []any {
	if v == nil {
		return nil
	}
	if arr, ok := v.([]any); ok {
		return arr
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
