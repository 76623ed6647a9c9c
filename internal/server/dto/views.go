// View request and response types.

package dto

import (
	"time"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// View is the wire representation of a saved view, with the serialized
// state columns decoded into structured values.
type View struct {
	ID            ksid.ID                   `json:"id"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description,omitempty"`
	Source        viewstore.Source          `json:"source"`
	Layout        viewstore.Layout          `json:"layout"`
	IsDefault     bool                      `json:"is_default"`
	Filters       viewstore.FilterMap       `json:"active_filters,omitempty"`
	Sorts         []viewstore.SortCriterion `json:"active_sorts,omitempty"`
	VisibleFields []string                  `json:"visible_fields,omitempty"`
	GroupBy       string                    `json:"group_by,omitempty"`
	Created       time.Time                 `json:"created"`
	Modified      time.Time                 `json:"modified"`
}

// ListViewsRequest asks for all views of one source.
type ListViewsRequest struct {
	Source viewstore.Source `query:"source"`
}

// Validate implements Validatable.
func (r *ListViewsRequest) Validate() error {
	if r.Source == "" {
		return MissingField("source")
	}
	if !r.Source.Valid() {
		return InvalidField("source", "unknown source")
	}
	return nil
}

// ListViewsResponse is the view list envelope.
type ListViewsResponse struct {
	Success bool   `json:"success"`
	Data    []View `json:"data"`
	Count   int    `json:"count"`
}

// GetViewRequest asks for one view by ID.
type GetViewRequest struct {
	ID ksid.ID `path:"id"`
}

// Validate implements Validatable.
func (r *GetViewRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	return nil
}

// ViewResponse is the single-view envelope.
type ViewResponse struct {
	Success bool `json:"success"`
	Data    View `json:"data"`
}

// CreateViewRequest creates a new view. An empty name receives the
// placeholder name; an empty layout receives the source default.
type CreateViewRequest struct {
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	Source        viewstore.Source          `json:"source"`
	Layout        viewstore.Layout          `json:"layout"`
	IsDefault     bool                      `json:"is_default"`
	Filters       viewstore.FilterMap       `json:"active_filters"`
	Sorts         []viewstore.SortCriterion `json:"active_sorts"`
	VisibleFields []string                  `json:"visible_fields"`
	GroupBy       string                    `json:"group_by"`
}

// Validate implements Validatable.
func (r *CreateViewRequest) Validate() error {
	if r.Source == "" {
		return MissingField("source")
	}
	if !r.Source.Valid() {
		return InvalidField("source", "unknown source")
	}
	if r.Layout != "" && !r.Layout.Valid() {
		return InvalidField("layout", "unknown layout")
	}
	return nil
}

// UpdateViewRequest partially updates a view. Nil fields are left
// unchanged; a null filter value inside Filters deactivates that filter.
type UpdateViewRequest struct {
	ID            ksid.ID                    `path:"id"`
	Name          *string                    `json:"name"`
	Description   *string                    `json:"description"`
	IsDefault     *bool                      `json:"is_default"`
	Layout        *viewstore.Layout          `json:"layout"`
	Filters       *viewstore.FilterMap       `json:"active_filters"`
	Sorts         *[]viewstore.SortCriterion `json:"active_sorts"`
	VisibleFields *[]string                  `json:"visible_fields"`
	GroupBy       *string                    `json:"group_by"`
}

// Validate implements Validatable.
func (r *UpdateViewRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	if r.Name != nil && *r.Name == "" {
		return InvalidField("name", "must not be empty")
	}
	if r.Layout != nil && !r.Layout.Valid() {
		return InvalidField("layout", "unknown layout")
	}
	return nil
}

// DeleteViewRequest removes a view.
type DeleteViewRequest struct {
	ID ksid.ID `path:"id"`
}

// Validate implements Validatable.
func (r *DeleteViewRequest) Validate() error {
	if r.ID.IsZero() {
		return MissingField("id")
	}
	return nil
}

// DeleteViewResponse acknowledges a deletion.
type DeleteViewResponse struct {
	Success bool `json:"success"`
}
