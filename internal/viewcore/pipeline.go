// The derived-data pipeline: search, filter, stable multi-key sort.

package viewcore

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// Derive runs the full pipeline over a snapshot of items: free-text search,
// then active filters, then the ordered sort criteria. The input is never
// modified; the result is always a fresh slice.
func Derive[T any](cfg *Config[T], items []T, search string, filters viewstore.FilterMap, sorts []viewstore.SortCriterion) []T {
	out := Search(items, search)
	out = cfg.ApplyFilters(out, filters)
	return SortItems(out, sorts)
}

// Search returns the items whose JSON serialization contains the query,
// case-folded. A blank query matches everything. The result is always a
// fresh slice, so running Search twice with the same query is a no-op on
// the second pass.
func Search[T any](items []T, query string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	if query == "" {
		return append(out, items...)
	}
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(data)), query) {
			out = append(out, item)
		}
	}
	return out
}

// SortItems stably sorts a copy of items by the given criteria, in order.
//
// Per criterion: a nil operand sorts after any defined value regardless of
// direction, two nil operands contribute no ordering, strings compare
// case-insensitively, and criteria with no field are skipped. Items equal
// under every criterion keep their input order.
func SortItems[T any](items []T, sorts []viewstore.SortCriterion) []T {
	out := make([]T, len(items))
	copy(out, items)
	sorts = viewstore.SanitizeSorts(sorts)
	if len(sorts) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		for _, criterion := range sorts {
			av := sortOperand(NestedValue(a, criterion.Field))
			bv := sortOperand(NestedValue(b, criterion.Field))
			if c := compareValues(av, bv, criterion.Order == viewstore.SortDesc); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// sortOperand normalizes "no data" to nil: empty strings and zero times
// come from omitted JSON fields and must sink like missing values.
func sortOperand(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	if t, ok := v.(time.Time); ok && t.IsZero() {
		return nil
	}
	return v
}

// compareValues orders two operand values under one criterion. Nil ordering
// ignores direction so missing data always sinks to the bottom.
func compareValues(a, b any, desc bool) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	c := compareDefined(a, b)
	if desc {
		c = -c
	}
	return c
}

func compareDefined(a, b any) int {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			// false sorts before true.
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			default:
				return 1
			}
		}
	}
	as, aok := asString(a)
	bs, bok := asString(b)
	if aok && bok {
		return strings.Compare(strings.ToLower(as), strings.ToLower(bs))
	}
	// Incomparable types contribute no ordering.
	return 0
}

// asFloat coerces numeric values to float64.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// asString coerces stringish values. Booleans and numbers are not
// stringified; only real strings qualify.
func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case interface{ String() string }:
		return x.String(), true
	default:
		return "", false
	}
}
