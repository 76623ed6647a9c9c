// Encoding and defensive decoding of the serialized-text view columns.
//
// Filter state, sort lists and visible-field lists are persisted as JSON
// text inside a single column each. Decoding never fails: malformed text
// yields the empty value so one corrupt row cannot take a whole source's
// views down.

package viewstore

import (
	"encoding/json"
	"log/slog"
)

// EncodeFilters serializes an active-filter map for storage.
// An empty map encodes as the empty string.
func EncodeFilters(m FilterMap) string {
	if len(m) == 0 {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		// FilterValue marshaling cannot fail on well-typed values.
		slog.Error("failed to encode filters", "error", err)
		return ""
	}
	return string(data)
}

// DecodeFilters parses a stored active-filter payload. Malformed text
// returns nil.
func DecodeFilters(s string) FilterMap {
	if s == "" {
		return nil
	}
	var m FilterMap
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		slog.Warn("discarding malformed filter payload", "error", err)
		return nil
	}
	return m
}

// EncodeSorts serializes a sort list for storage.
// An empty list encodes as the empty string.
func EncodeSorts(sorts []SortCriterion) string {
	if len(sorts) == 0 {
		return ""
	}
	data, err := json.Marshal(sorts)
	if err != nil {
		slog.Error("failed to encode sorts", "error", err)
		return ""
	}
	return string(data)
}

// DecodeSorts parses a stored sort payload and sanitizes it: criteria
// without a field are dropped, unknown directions normalize to ascending.
// Malformed text returns nil.
func DecodeSorts(s string) []SortCriterion {
	if s == "" {
		return nil
	}
	var sorts []SortCriterion
	if err := json.Unmarshal([]byte(s), &sorts); err != nil {
		slog.Warn("discarding malformed sort payload", "error", err)
		return nil
	}
	return SanitizeSorts(sorts)
}

// SanitizeSorts drops criteria with no field and normalizes directions.
// The input slice is not modified.
func SanitizeSorts(sorts []SortCriterion) []SortCriterion {
	if sorts == nil {
		return nil
	}
	out := make([]SortCriterion, 0, len(sorts))
	for _, c := range sorts {
		if c.Field == "" {
			continue
		}
		if c.Order != SortDesc {
			c.Order = SortAsc
		}
		out = append(out, c)
	}
	return out
}

// EncodeFields serializes a visible-field list for storage.
func EncodeFields(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	data, err := json.Marshal(fields)
	if err != nil {
		slog.Error("failed to encode fields", "error", err)
		return ""
	}
	return string(data)
}

// DecodeFields parses a stored visible-field payload. Malformed text
// returns nil.
func DecodeFields(s string) []string {
	if s == "" {
		return nil
	}
	var fields []string
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		slog.Warn("discarding malformed field payload", "error", err)
		return nil
	}
	return fields
}
