// Shared value types for saved views: sources, layouts, filter values and
// sort criteria. These travel between the storage layer, the view manager
// and the HTTP surface.

package viewstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Source identifies which catalog a view belongs to.
type Source string

// Known sources.
const (
	SourcePersonas       Source = "personas"
	SourceValueProps     Source = "value-propositions"
	SourceBusinessModels Source = "business-models"
)

// Valid reports whether the source is one of the known catalogs.
func (s Source) Valid() bool {
	switch s {
	case SourcePersonas, SourceValueProps, SourceBusinessModels:
		return true
	default:
		return false
	}
}

// Layout selects the presentation mode of a view.
type Layout string

// Known layouts.
const (
	LayoutGrid   Layout = "grid"
	LayoutList   Layout = "list"
	LayoutTable  Layout = "table"
	LayoutKanban Layout = "kanban"
)

// Valid reports whether the layout is known.
func (l Layout) Valid() bool {
	switch l {
	case LayoutGrid, LayoutList, LayoutTable, LayoutKanban:
		return true
	default:
		return false
	}
}

// SortOrder is the direction of a sort criterion.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortCriterion is one entry of a view's ordered sort list.
type SortCriterion struct {
	ID    string    `json:"id"`
	Field string    `json:"field"`
	Label string    `json:"label,omitempty"`
	Order SortOrder `json:"order"`
	Icon  string    `json:"icon,omitempty"`
}

// FilterKind discriminates the value shape a filter carries.
type FilterKind string

// Known filter kinds.
const (
	FilterMultiselect FilterKind = "multiselect"
	FilterRange       FilterKind = "range"
	FilterText        FilterKind = "text"
	FilterDateRange   FilterKind = "daterange"
)

// FilterValue is the polymorphic value of one active filter.
//
// The wire encoding depends on the populated fields:
//   - Selected non-nil encodes as a JSON array (multiselect)
//   - Min or Max non-nil encodes as {"min":..,"max":..} (numeric range)
//   - From or To non-nil encodes as {"from":..,"to":..} (date range)
//   - otherwise encodes as a JSON string (text)
type FilterValue struct {
	Selected []string
	Min      *float64
	Max      *float64
	Text     string
	From     *time.Time
	To       *time.Time
}

// FilterMap maps filter field IDs to their current values.
type FilterMap map[string]FilterValue

// Multiselect returns a multiselect filter value.
func Multiselect(values ...string) FilterValue {
	if values == nil {
		values = []string{}
	}
	return FilterValue{Selected: values}
}

// Range returns a numeric range filter value. Nil bounds are open-ended.
func Range(minVal, maxVal *float64) FilterValue {
	return FilterValue{Min: minVal, Max: maxVal}
}

// Text returns a text filter value.
func Text(s string) FilterValue {
	return FilterValue{Text: s}
}

// DateRange returns a date range filter value. Nil bounds are open-ended.
func DateRange(from, to *time.Time) FilterValue {
	return FilterValue{From: from, To: to}
}

// Kind infers the filter kind from the populated fields.
func (v FilterValue) Kind() FilterKind {
	switch {
	case v.Selected != nil:
		return FilterMultiselect
	case v.Min != nil || v.Max != nil:
		return FilterRange
	case v.From != nil || v.To != nil:
		return FilterDateRange
	default:
		return FilterText
	}
}

// IsEmpty reports whether the value deactivates its filter: an empty
// selection, an empty text, or a fully open range all pass every item.
func (v FilterValue) IsEmpty() bool {
	return len(v.Selected) == 0 && v.Min == nil && v.Max == nil &&
		v.Text == "" && v.From == nil && v.To == nil
}

// MarshalJSON implements json.Marshaler.
func (v FilterValue) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case FilterMultiselect:
		return json.Marshal(v.Selected)
	case FilterRange:
		return json.Marshal(rangeWire{Min: v.Min, Max: v.Max})
	case FilterDateRange:
		return json.Marshal(dateRangeWire{From: v.From, To: v.To})
	default:
		return json.Marshal(v.Text)
	}
}

type rangeWire struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type dateRangeWire struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. The kind is inferred from the
// JSON shape; see [FilterValue] for the mapping.
func (v *FilterValue) UnmarshalJSON(b []byte) error {
	*v = FilterValue{}
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return v.unmarshalSelection(b)
		case '{':
			return v.unmarshalRange(b)
		case 'n': // null deactivates the filter
			return nil
		default:
			return v.unmarshalText(b)
		}
	}
	return nil
}

func (v *FilterValue) unmarshalSelection(b []byte) error {
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	selected := make([]string, 0, len(raw))
	for _, item := range raw {
		switch x := item.(type) {
		case string:
			selected = append(selected, x)
		case float64:
			selected = append(selected, strconv.FormatFloat(x, 'f', -1, 64))
		case bool:
			selected = append(selected, strconv.FormatBool(x))
		default:
			return fmt.Errorf("unsupported selection element %T", item)
		}
	}
	v.Selected = selected
	return nil
}

func (v *FilterValue) unmarshalRange(b []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if _, ok := probe["from"]; ok {
		var w dateRangeWire
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		v.From, v.To = w.From, w.To
		return nil
	}
	if _, ok := probe["to"]; ok {
		var w dateRangeWire
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		v.From, v.To = w.From, w.To
		return nil
	}
	var w rangeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	v.Min, v.Max = w.Min, w.Max
	return nil
}

func (v *FilterValue) unmarshalText(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v.Text = s
		return nil
	}
	// A bare number or bool still makes a usable text filter.
	var any1 any
	if err := json.Unmarshal(b, &any1); err != nil {
		return err
	}
	switch x := any1.(type) {
	case float64:
		v.Text = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		v.Text = strconv.FormatBool(x)
	default:
		return fmt.Errorf("unsupported filter value %s", b)
	}
	return nil
}

// Clone returns a deep copy of the map.
func (m FilterMap) Clone() FilterMap {
	if m == nil {
		return nil
	}
	out := make(FilterMap, len(m))
	for k, v := range m {
		if v.Selected != nil {
			selected := make([]string, len(v.Selected))
			copy(selected, v.Selected)
			v.Selected = selected
		}
		out[k] = v
	}
	return out
}
