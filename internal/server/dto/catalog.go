// Catalog request and response types.

package dto

import (
	"time"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// ListRecordsRequest asks for the records of one catalog, optionally run
// through the state of a saved view plus an ad-hoc search query.
type ListRecordsRequest struct {
	// Search is a free-text query applied before filters.
	Search string `query:"q"`
	// ViewID selects the saved view whose filters and sorts shape the
	// result. Empty means raw creation order.
	ViewID string `query:"view"`
	// Limit truncates the result; 0 means no limit.
	Limit int `query:"limit"`
}

// Validate implements Validatable.
func (r *ListRecordsRequest) Validate() error {
	if r.Limit < 0 {
		return InvalidField("limit", "must be non-negative")
	}
	return nil
}

// QueryRecordsRequest runs the full derivation pipeline over one catalog
// with ad-hoc state: either the filters and sorts of a saved view, or
// explicit criteria carried in the body.
type QueryRecordsRequest struct {
	// Search is a free-text query applied before filters.
	Search string `json:"search,omitempty"`
	// ViewID selects a saved view whose filters and sorts shape the
	// result. Mutually exclusive with ActiveFilters/ActiveSorts.
	ViewID string `json:"view_id,omitempty"`
	// ActiveFilters holds explicit filter state keyed by field ID.
	ActiveFilters viewstore.FilterMap `json:"active_filters,omitempty"`
	// ActiveSorts holds explicit sort criteria, applied in order.
	ActiveSorts []viewstore.SortCriterion `json:"active_sorts,omitempty"`
	// Limit truncates the result; 0 means no limit.
	Limit int `json:"limit,omitempty"`
}

// Validate implements Validatable.
func (r *QueryRecordsRequest) Validate() error {
	if r.Limit < 0 {
		return InvalidField("limit", "must be non-negative")
	}
	if r.ViewID != "" && (len(r.ActiveFilters) > 0 || len(r.ActiveSorts) > 0) {
		return InvalidField("view_id", "mutually exclusive with active_filters and active_sorts")
	}
	return nil
}

// SearchRequest asks for a cross-catalog substring search.
type SearchRequest struct {
	Query string `json:"query"`
	// Limit caps the total number of results; 0 means no limit.
	Limit int `json:"limit,omitempty"`
}

// Validate implements Validatable.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return MissingField("query")
	}
	if r.Limit < 0 {
		return InvalidField("limit", "must be non-negative")
	}
	return nil
}

// SearchResult is one cross-catalog search hit.
type SearchResult struct {
	// Type is the source catalog: personas, value-propositions or
	// business-models.
	Type     string    `json:"type"`
	ID       ksid.ID   `json:"id"`
	Title    string    `json:"title"`
	Modified time.Time `json:"modified"`
}

// SearchResponse is the cross-catalog search envelope.
type SearchResponse struct {
	Success bool           `json:"success"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// PersonaProfile mirrors the demographic slice of a persona.
type PersonaProfile struct {
	Age        int    `json:"age,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Location   string `json:"location,omitempty"`
	Income     string `json:"income,omitempty"`
}

// Persona is the wire representation of a persona.
type Persona struct {
	ID           ksid.ID        `json:"id"`
	Name         string         `json:"name"`
	Segment      string         `json:"segment,omitempty"`
	Status       string         `json:"status,omitempty"`
	Priority     int            `json:"priority,omitempty"`
	Profile      PersonaProfile `json:"profile"`
	Goals        []string       `json:"goals,omitempty"`
	Frustrations []string       `json:"frustrations,omitempty"`
	Channels     []string       `json:"channels,omitempty"`
	Created      time.Time      `json:"created"`
	Modified     time.Time      `json:"modified"`
}

// ListPersonasResponse is the persona list envelope.
type ListPersonasResponse struct {
	Success bool      `json:"success"`
	Data    []Persona `json:"data"`
	Count   int       `json:"count"`
}

// CreatePersonaRequest creates a persona.
type CreatePersonaRequest struct {
	Name         string         `json:"name"`
	Segment      string         `json:"segment"`
	Status       string         `json:"status"`
	Priority     int            `json:"priority"`
	Profile      PersonaProfile `json:"profile"`
	Goals        []string       `json:"goals"`
	Frustrations []string       `json:"frustrations"`
	Channels     []string       `json:"channels"`
}

// Validate implements Validatable.
func (r *CreatePersonaRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// PersonaResponse is the single-persona envelope.
type PersonaResponse struct {
	Success bool    `json:"success"`
	Data    Persona `json:"data"`
}

// PropositionFit mirrors a proposition's fit assessment.
type PropositionFit struct {
	Score float64 `json:"score,omitempty"`
	Stage string  `json:"stage,omitempty"`
}

// Proposition is the wire representation of a value proposition.
type Proposition struct {
	ID            ksid.ID        `json:"id"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary,omitempty"`
	Segment       string         `json:"segment,omitempty"`
	Fit           PropositionFit `json:"fit"`
	Products      []string       `json:"products,omitempty"`
	PainRelievers []string       `json:"pain_relievers,omitempty"`
	GainCreators  []string       `json:"gain_creators,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Created       time.Time      `json:"created"`
	Modified      time.Time      `json:"modified"`
}

// ListPropositionsResponse is the proposition list envelope.
type ListPropositionsResponse struct {
	Success bool          `json:"success"`
	Data    []Proposition `json:"data"`
	Count   int           `json:"count"`
}

// CreatePropositionRequest creates a value proposition.
type CreatePropositionRequest struct {
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Segment       string         `json:"segment"`
	Fit           PropositionFit `json:"fit"`
	Products      []string       `json:"products"`
	PainRelievers []string       `json:"pain_relievers"`
	GainCreators  []string       `json:"gain_creators"`
	Tags          []string       `json:"tags"`
}

// Validate implements Validatable.
func (r *CreatePropositionRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// PropositionResponse is the single-proposition envelope.
type PropositionResponse struct {
	Success bool        `json:"success"`
	Data    Proposition `json:"data"`
}

// RevenueModel mirrors how a business model earns.
type RevenueModel struct {
	Model     string `json:"model,omitempty"`
	Recurring bool   `json:"recurring,omitempty"`
}

// BusinessModel is the wire representation of a business model.
type BusinessModel struct {
	ID          ksid.ID      `json:"id"`
	Name        string       `json:"name"`
	Industry    string       `json:"industry,omitempty"`
	Maturity    string       `json:"maturity,omitempty"`
	Risk        int          `json:"risk,omitempty"`
	Revenue     RevenueModel `json:"revenue"`
	KeyPartners []string     `json:"key_partners,omitempty"`
	Segments    []string     `json:"segments,omitempty"`
	Channels    []string     `json:"channels,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Created     time.Time    `json:"created"`
	Modified    time.Time    `json:"modified"`
}

// ListModelsResponse is the business model list envelope.
type ListModelsResponse struct {
	Success bool            `json:"success"`
	Data    []BusinessModel `json:"data"`
	Count   int             `json:"count"`
}

// CreateModelRequest creates a business model.
type CreateModelRequest struct {
	Name        string       `json:"name"`
	Industry    string       `json:"industry"`
	Maturity    string       `json:"maturity"`
	Risk        int          `json:"risk"`
	Revenue     RevenueModel `json:"revenue"`
	KeyPartners []string     `json:"key_partners"`
	Segments    []string     `json:"segments"`
	Channels    []string     `json:"channels"`
	Tags        []string     `json:"tags"`
}

// Validate implements Validatable.
func (r *CreateModelRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// ModelResponse is the single-model envelope.
type ModelResponse struct {
	Success bool          `json:"success"`
	Data    BusinessModel `json:"data"`
}

// FieldsRequest asks for the filterable and sortable fields of a catalog.
type FieldsRequest struct{}

// Validate implements Validatable.
func (r *FieldsRequest) Validate() error { return nil }

// FilterOption is one selectable multiselect value with its live count.
type FilterOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FilterField describes one filterable dimension.
type FilterField struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Kind        string         `json:"kind"`
	Icon        string         `json:"icon,omitempty"`
	Options     []FilterOption `json:"options,omitempty"`
}

// SortField describes one sortable dimension.
type SortField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Field string `json:"field"`
	Icon  string `json:"icon,omitempty"`
}

// Property names one displayable record property.
type Property struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FieldsResponse lists a catalog's filter fields (with options computed
// from the current dataset), sort fields and properties.
type FieldsResponse struct {
	Success    bool          `json:"success"`
	Filters    []FilterField `json:"filters"`
	Sorts      []SortField   `json:"sorts"`
	Properties []Property    `json:"properties"`
}
