// The persisted saved-view record.

package viewstore

import (
	"errors"
	"time"

	"github.com/maruel/ksid"
)

var (
	errViewIDRequired   = errors.New("id is required")
	errViewNameRequired = errors.New("name is required")
	errSourceInvalid    = errors.New("unknown source")
	errLayoutInvalid    = errors.New("unknown layout")
)

// View is a saved view over one catalog source.
//
// Filter, sort and field state are stored as serialized JSON text columns;
// use the accessor methods to get structured values. The legacy SortBy and
// SortOrder columns predate the multi-key ActiveSorts column and are still
// honored when ActiveSorts is empty.
type View struct {
	ID          ksid.ID `json:"id" jsonschema:"description=Unique view ID"`
	Name        string  `json:"name" jsonschema:"description=Display name"`
	Description string  `json:"description,omitempty" jsonschema:"description=Optional free-form description"`
	Source      Source  `json:"source" jsonschema:"description=Catalog this view belongs to"`
	Layout      Layout  `json:"layout" jsonschema:"description=Presentation mode (grid list table kanban)"`
	Default     bool    `json:"is_default,omitempty" jsonschema:"description=Whether this view opens by default for its source"`

	Filters       string `json:"filters,omitempty" jsonschema:"description=Legacy serialized filter payload"`
	ActiveFilters string `json:"active_filters,omitempty" jsonschema:"description=Serialized active-filter map"`
	ActiveSorts   string `json:"active_sorts,omitempty" jsonschema:"description=Serialized ordered sort criteria"`
	VisibleFields string `json:"visible_fields,omitempty" jsonschema:"description=Serialized visible-field list"`

	SortBy    string    `json:"sort_by,omitempty" jsonschema:"description=Legacy single sort field"`
	SortOrder SortOrder `json:"sort_order,omitempty" jsonschema:"description=Legacy single sort direction"`
	GroupBy   string    `json:"group_by,omitempty" jsonschema:"description=Field used for kanban grouping"`

	Created  time.Time `json:"created" jsonschema:"description=Creation time"`
	Modified time.Time `json:"modified" jsonschema:"description=Last update time"`
}

// Clone returns a deep copy.
func (v *View) Clone() *View {
	c := *v
	return &c
}

// GetID returns the view's ID.
func (v *View) GetID() ksid.ID {
	return v.ID
}

// Validate checks that the view is well-formed for storage.
func (v *View) Validate() error {
	if v.ID.IsZero() {
		return errViewIDRequired
	}
	if v.Name == "" {
		return errViewNameRequired
	}
	if !v.Source.Valid() {
		return errSourceInvalid
	}
	if !v.Layout.Valid() {
		return errLayoutInvalid
	}
	return nil
}

// FilterMap returns the decoded active filters, or nil when unset or
// malformed.
func (v *View) FilterMap() FilterMap {
	return DecodeFilters(v.ActiveFilters)
}

// Sorts returns the decoded, sanitized sort criteria. When the multi-key
// column is empty the legacy single-sort columns are promoted to a
// one-element list.
func (v *View) Sorts() []SortCriterion {
	if sorts := DecodeSorts(v.ActiveSorts); sorts != nil {
		return sorts
	}
	if v.SortBy != "" {
		order := v.SortOrder
		if order != SortDesc {
			order = SortAsc
		}
		return []SortCriterion{{ID: v.SortBy, Field: v.SortBy, Order: order}}
	}
	return nil
}

// Fields returns the decoded visible-field list, or nil when unset or
// malformed.
func (v *View) Fields() []string {
	return DecodeFields(v.VisibleFields)
}

// SetFilterMap encodes and stores the active filters.
func (v *View) SetFilterMap(m FilterMap) {
	v.ActiveFilters = EncodeFilters(m)
}

// SetSorts encodes and stores the sort criteria, keeping the legacy
// single-sort columns in step with the primary criterion.
func (v *View) SetSorts(sorts []SortCriterion) {
	sorts = SanitizeSorts(sorts)
	v.ActiveSorts = EncodeSorts(sorts)
	if len(sorts) > 0 {
		v.SortBy = sorts[0].Field
		v.SortOrder = sorts[0].Order
	} else {
		v.SortBy = ""
		v.SortOrder = ""
	}
}

// SetFields encodes and stores the visible-field list.
func (v *View) SetFields(fields []string) {
	v.VisibleFields = EncodeFields(fields)
}
