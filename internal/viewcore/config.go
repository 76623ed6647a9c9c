// Package viewcore is the generic view-management core: a domain
// configuration contract, a pure search/filter/sort pipeline, and a view
// lifecycle manager. It knows nothing about any particular catalog; domain
// packages instantiate [Config] for their item type.
package viewcore

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// Option is one selectable value of a multiselect filter, with its live
// occurrence count in the current dataset.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// OptionsFunc derives the selectable options of a filter from the dataset.
type OptionsFunc[T any] func(items []T) []Option

// Predicate reports whether an item passes a filter value.
type Predicate[T any] func(item T, v viewstore.FilterValue) bool

// FilterField declares one filterable dimension of a domain.
//
// Icon carries an identifier only; resolving it to a glyph happens at the
// render boundary so the data contract stays presentation-free.
type FilterField[T any] struct {
	ID          string
	Label       string
	Description string
	Kind        viewstore.FilterKind
	Path        string // dot path used by the default predicate
	Icon        string
	Options     OptionsFunc[T] // optional; multiselect kinds usually set it
	Match       Predicate[T]   // optional override of the default predicate
}

// SortField declares one sortable dimension of a domain.
type SortField struct {
	ID    string
	Label string
	Field string // dot path resolved per item
	Icon  string
}

// PropertyRef names a displayable item property.
type PropertyRef struct {
	ID    string
	Label string
}

// ViewData is what a layout renderer receives: the derived items plus
// interaction callbacks. Renderers must not filter or re-sort.
type ViewData[T any] struct {
	Items         []T
	VisibleFields []string
	GroupBy       string
	OnItemClick   func(item T)
	OnItemMove    func(item T, group string)
	OnItemReorder func(from, to int)
}

// Renderer renders one layout of a view.
type Renderer[T any] func(w io.Writer, data ViewData[T]) error

// Config is the domain configuration contract: everything the generic
// manager needs to run views over one catalog.
type Config[T any] struct {
	Source         viewstore.Source
	Layouts        map[viewstore.Layout]Renderer[T]
	DefaultLayout  viewstore.Layout
	FilterFields   []FilterField[T]
	SortFields     []SortField
	Properties     []PropertyRef
	DefaultVisible []string
}

// Field returns the filter field with the given ID, or nil.
func (c *Config[T]) Field(id string) *FilterField[T] {
	for i := range c.FilterFields {
		if c.FilterFields[i].ID == id {
			return &c.FilterFields[i]
		}
	}
	return nil
}

// ApplyFilters returns the items passing every active filter.
//
// Pass-through semantics: an empty value deactivates its filter, and values
// keyed by unknown filter IDs are inert. The result is always a fresh slice.
func (c *Config[T]) ApplyFilters(items []T, filters viewstore.FilterMap) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if c.matchesAll(item, filters) {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config[T]) matchesAll(item T, filters viewstore.FilterMap) bool {
	for id, v := range filters {
		if v.IsEmpty() {
			continue
		}
		field := c.Field(id)
		if field == nil {
			continue // unknown filter IDs are inert
		}
		if !field.matches(item, v) {
			return false
		}
	}
	return true
}

func (f *FilterField[T]) matches(item T, v viewstore.FilterValue) bool {
	if f.Match != nil {
		return f.Match(item, v)
	}
	value := NestedValue(item, f.Path)
	switch f.Kind {
	case viewstore.FilterMultiselect:
		return matchSelection(value, v.Selected)
	case viewstore.FilterRange:
		return matchRange(value, v.Min, v.Max)
	case viewstore.FilterText:
		return matchText(value, v.Text)
	case viewstore.FilterDateRange:
		return matchDateRange(value, v.From, v.To)
	default:
		return true
	}
}

// matchSelection passes when the item value (or any element of a list
// value) is one of the selected options.
func matchSelection(value any, selected []string) bool {
	switch x := value.(type) {
	case nil:
		return false
	case []string:
		for _, s := range x {
			if slices.Contains(selected, s) {
				return true
			}
		}
		return false
	case []any:
		for _, e := range x {
			if s, ok := e.(string); ok && slices.Contains(selected, s) {
				return true
			}
		}
		return false
	default:
		s, ok := asString(value)
		return ok && slices.Contains(selected, s)
	}
}

func matchRange(value any, minVal, maxVal *float64) bool {
	f, ok := asFloat(value)
	if !ok {
		return false
	}
	if minVal != nil && f < *minVal {
		return false
	}
	if maxVal != nil && f > *maxVal {
		return false
	}
	return true
}

func matchText(value any, query string) bool {
	s, ok := asString(value)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(query)))
}

func matchDateRange(value any, from, to *time.Time) bool {
	ts, ok := value.(time.Time)
	if !ok {
		return false
	}
	if from != nil && ts.Before(*from) {
		return false
	}
	if to != nil && ts.After(*to) {
		return false
	}
	return true
}
