// Handles catalog record listing, creation and field discovery. Listing
// runs the full view pipeline server-side: a saved view's filters and
// sorts plus an ad-hoc search query shape the result.

package handlers

import (
	"context"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/domains"
	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

// CatalogHandler handles persona, value proposition and business model
// requests.
type CatalogHandler struct {
	Svc *Services
	Cfg *Config

	personas     *viewcore.Config[*catalog.Persona]
	propositions *viewcore.Config[*catalog.ValueProposition]
	models       *viewcore.Config[*catalog.BusinessModel]
}

// NewCatalogHandler creates a catalog handler with the three domain
// configurations.
func NewCatalogHandler(svc *Services, cfg *Config) *CatalogHandler {
	return &CatalogHandler{
		Svc:          svc,
		Cfg:          cfg,
		personas:     domains.Personas(),
		propositions: domains.Propositions(),
		models:       domains.Models(),
	}
}

// viewState resolves the optional view query parameter into the filters
// and sorts of the referenced view.
func (h *CatalogHandler) viewState(req *dto.ListRecordsRequest, source viewstore.Source) (viewstore.FilterMap, []viewstore.SortCriterion, error) {
	if req.ViewID == "" {
		return nil, nil, nil
	}
	id, err := ksid.Parse(req.ViewID)
	if err != nil {
		return nil, nil, dto.InvalidField("view", "malformed view ID")
	}
	v, err := h.Svc.Views.Get(id)
	if err != nil {
		return nil, nil, dto.NotFound("view")
	}
	if v.Source != source {
		return nil, nil, dto.BadRequest("view belongs to a different catalog")
	}
	return v.FilterMap(), v.Sorts(), nil
}

// queryState resolves a query body into filters and sorts: the
// referenced view's state when view_id is set, the explicit criteria
// otherwise.
func (h *CatalogHandler) queryState(req *dto.QueryRecordsRequest, source viewstore.Source) (viewstore.FilterMap, []viewstore.SortCriterion, error) {
	if req.ViewID == "" {
		return req.ActiveFilters, req.ActiveSorts, nil
	}
	id, err := ksid.Parse(req.ViewID)
	if err != nil {
		return nil, nil, dto.InvalidField("view_id", "malformed view ID")
	}
	v, err := h.Svc.Views.Get(id)
	if err != nil {
		return nil, nil, dto.NotFound("view")
	}
	if v.Source != source {
		return nil, nil, dto.BadRequest("view belongs to a different catalog")
	}
	return v.FilterMap(), v.Sorts(), nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (h *CatalogHandler) checkRecordQuota(source string) error {
	maxRecords := h.Cfg.Quotas.MaxRecordsPerCatalog
	if maxRecords > 0 && h.Svc.Catalog.Counts()[source] >= maxRecords {
		return dto.QuotaExceeded(source)
	}
	return nil
}

// ListPersonas returns personas, optionally shaped by a saved view.
func (h *CatalogHandler) ListPersonas(ctx context.Context, user *identity.User, req *dto.ListRecordsRequest) (*dto.ListPersonasResponse, error) {
	filters, sorts, err := h.viewState(req, viewstore.SourcePersonas)
	if err != nil {
		return nil, err
	}
	items := truncate(viewcore.Derive(h.personas, h.Svc.Catalog.ListPersonas(), req.Search, filters, sorts), req.Limit)
	out := make([]dto.Persona, 0, len(items))
	for _, p := range items {
		out = append(out, personaToResponse(p))
	}
	return &dto.ListPersonasResponse{Success: true, Data: out, Count: len(out)}, nil
}

// QueryPersonas runs the pipeline over personas with explicit or
// view-supplied state.
func (h *CatalogHandler) QueryPersonas(ctx context.Context, user *identity.User, req *dto.QueryRecordsRequest) (*dto.ListPersonasResponse, error) {
	filters, sorts, err := h.queryState(req, viewstore.SourcePersonas)
	if err != nil {
		return nil, err
	}
	items := truncate(viewcore.Derive(h.personas, h.Svc.Catalog.ListPersonas(), req.Search, filters, sorts), req.Limit)
	out := make([]dto.Persona, 0, len(items))
	for _, p := range items {
		out = append(out, personaToResponse(p))
	}
	return &dto.ListPersonasResponse{Success: true, Data: out, Count: len(out)}, nil
}

// CreatePersona stores a new persona.
func (h *CatalogHandler) CreatePersona(ctx context.Context, user *identity.User, req *dto.CreatePersonaRequest) (*dto.PersonaResponse, error) {
	if err := h.checkRecordQuota("personas"); err != nil {
		return nil, err
	}
	stored, err := h.Svc.Catalog.CreatePersona(personaFromRequest(req))
	if err != nil {
		return nil, dto.InternalWithError("Failed to create persona", err)
	}
	return &dto.PersonaResponse{Success: true, Data: personaToResponse(stored)}, nil
}

// PersonaFields returns the filterable and sortable persona fields.
func (h *CatalogHandler) PersonaFields(ctx context.Context, user *identity.User, req *dto.FieldsRequest) (*dto.FieldsResponse, error) {
	return fieldsResponse(h.personas, h.Svc.Catalog.ListPersonas()), nil
}

// ListPropositions returns value propositions, optionally shaped by a
// saved view.
func (h *CatalogHandler) ListPropositions(ctx context.Context, user *identity.User, req *dto.ListRecordsRequest) (*dto.ListPropositionsResponse, error) {
	filters, sorts, err := h.viewState(req, viewstore.SourceValueProps)
	if err != nil {
		return nil, err
	}
	items := truncate(viewcore.Derive(h.propositions, h.Svc.Catalog.ListPropositions(), req.Search, filters, sorts), req.Limit)
	out := make([]dto.Proposition, 0, len(items))
	for _, v := range items {
		out = append(out, propositionToResponse(v))
	}
	return &dto.ListPropositionsResponse{Success: true, Data: out, Count: len(out)}, nil
}

// QueryPropositions runs the pipeline over value propositions with
// explicit or view-supplied state.
func (h *CatalogHandler) QueryPropositions(ctx context.Context, user *identity.User, req *dto.QueryRecordsRequest) (*dto.ListPropositionsResponse, error) {
	filters, sorts, err := h.queryState(req, viewstore.SourceValueProps)
	if err != nil {
		return nil, err
	}
	items := truncate(viewcore.Derive(h.propositions, h.Svc.Catalog.ListPropositions(), req.Search, filters, sorts), req.Limit)
	out := make([]dto.Proposition, 0, len(items))
	for _, v := range items {
		out = append(out, propositionToResponse(v))
	}
	return &dto.ListPropositionsResponse{Success: true, Data: out, Count: len(out)}, nil
}

// CreateProposition stores a new value proposition.
func (h *CatalogHandler) CreateProposition(ctx context.Context, user *identity.User, req *dto.CreatePropositionRequest) (*dto.PropositionResponse, error) {
	if err := h.checkRecordQuota("value-propositions"); err != nil {
		return nil, err
	}
	stored, err := h.Svc.Catalog.CreateProposition(propositionFromRequest(req))
	if err != nil {
		return nil, dto.InternalWithError("Failed to create proposition", err)
	}
	return &dto.PropositionResponse{Success: true, Data: propositionToResponse(stored)}, nil
}

// PropositionFields returns the filterable and sortable proposition fields.
func (h *CatalogHandler) PropositionFields(ctx context.Context, user *identity.User, req *dto.FieldsRequest) (*dto.FieldsResponse, error) {
	return fieldsResponse(h.propositions, h.Svc.Catalog.ListPropositions()), nil
}

// ListModels returns business models, optionally shaped by a saved view.
func (h *CatalogHandler) ListModels(ctx context.Context, user *identity.User, req *dto.ListRecordsRequest) (*dto.ListModelsResponse, error) {
	filters, sorts, err := h.viewState(req, viewstore.SourceBusinessModels)
	if err != nil {
		return nil, err
	}
	items := truncate(viewcore.Derive(h.models, h.Svc.Catalog.ListModels(), req.Search, filters, sorts), req.Limit)
	out := make([]dto.BusinessModel, 0, len(items))
	for _, m := range items {
		out = append(out, modelToResponse(m))
	}
	return &dto.ListModelsResponse{Success: true, Data: out, Count: len(out)}, nil
}

// QueryModels runs the pipeline over business models with explicit or
// view-supplied state.
func (h *CatalogHandler) QueryModels(ctx context.Context, user *identity.User, req *dto.QueryRecordsRequest) (*dto.ListModelsResponse, error) {
	filters, sorts, err := h.queryState(req, viewstore.SourceBusinessModels)
	if err != nil {
		return nil, err
	}
	items := truncate(viewcore.Derive(h.models, h.Svc.Catalog.ListModels(), req.Search, filters, sorts), req.Limit)
	out := make([]dto.BusinessModel, 0, len(items))
	for _, m := range items {
		out = append(out, modelToResponse(m))
	}
	return &dto.ListModelsResponse{Success: true, Data: out, Count: len(out)}, nil
}

// CreateModel stores a new business model.
func (h *CatalogHandler) CreateModel(ctx context.Context, user *identity.User, req *dto.CreateModelRequest) (*dto.ModelResponse, error) {
	if err := h.checkRecordQuota("business-models"); err != nil {
		return nil, err
	}
	stored, err := h.Svc.Catalog.CreateModel(modelFromRequest(req))
	if err != nil {
		return nil, dto.InternalWithError("Failed to create model", err)
	}
	return &dto.ModelResponse{Success: true, Data: modelToResponse(stored)}, nil
}

// ModelFields returns the filterable and sortable business model fields.
func (h *CatalogHandler) ModelFields(ctx context.Context, user *identity.User, req *dto.FieldsRequest) (*dto.FieldsResponse, error) {
	return fieldsResponse(h.models, h.Svc.Catalog.ListModels()), nil
}

// Search runs the substring search stage across all three catalogs.
func (h *CatalogHandler) Search(ctx context.Context, user *identity.User, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	results := []dto.SearchResult{}
	for _, p := range viewcore.Derive(h.personas, h.Svc.Catalog.ListPersonas(), req.Query, nil, nil) {
		results = append(results, dto.SearchResult{Type: "personas", ID: p.ID, Title: p.Name, Modified: p.Modified})
	}
	for _, v := range viewcore.Derive(h.propositions, h.Svc.Catalog.ListPropositions(), req.Query, nil, nil) {
		results = append(results, dto.SearchResult{Type: "value-propositions", ID: v.ID, Title: v.Title, Modified: v.Modified})
	}
	for _, m := range viewcore.Derive(h.models, h.Svc.Catalog.ListModels(), req.Query, nil, nil) {
		results = append(results, dto.SearchResult{Type: "business-models", ID: m.ID, Title: m.Name, Modified: m.Modified})
	}
	results = truncate(results, req.Limit)
	return &dto.SearchResponse{Success: true, Results: results, Count: len(results)}, nil
}
