package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator builds the string comparator used for sorting: locale-aware,
// case-insensitive, and numeric-alphanumeric so "item9" sorts before
// "item10". Collators are stateful, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Indonesian, collate.Numeric, collate.IgnoreCase)
}

// SortRecords returns a stably sorted copy of data. Nil field values sort
// after any defined value regardless of direction; numbers compare
// numerically, everything else via the collator on string-coerced values.
func SortRecords(data []Record, field, order string) []Record {
	if field == "" || len(data) < 2 {
		return data
	}

	sorted := make([]Record, len(data))
	copy(sorted, data)

	desc := strings.EqualFold(order, "desc")
	col := newCollator()

	sort.SliceStable(sorted, func(i, j int) bool {
		a := ResolveField(sorted[i], field)
		b := ResolveField(sorted[j], field)

		if a == nil || b == nil {
			// Nils last, independent of direction.
			return b == nil && a != nil
		}

		c := compareValues(col, a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

func compareValues(col *collate.Collator, a, b any) int {
	na, okA := coerceNumber(a)
	nb, okB := coerceNumber(b)
	if okA && okB {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return col.CompareString(coerceString(a), coerceString(b))
}
