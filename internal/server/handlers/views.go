// Handles saved view CRUD.

package handlers

import (
	"context"
	"errors"

	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// ViewHandler handles view requests.
type ViewHandler struct {
	Svc *Services
	Cfg *Config
}

// ListViews returns all views of one source in creation order.
func (h *ViewHandler) ListViews(ctx context.Context, user *identity.User, req *dto.ListViewsRequest) (*dto.ListViewsResponse, error) {
	views := h.Svc.Views.ListBySource(req.Source)
	out := make([]dto.View, 0, len(views))
	for _, v := range views {
		out = append(out, viewToResponse(v))
	}
	return &dto.ListViewsResponse{Success: true, Data: out, Count: len(out)}, nil
}

// GetView returns one view by ID.
func (h *ViewHandler) GetView(ctx context.Context, user *identity.User, req *dto.GetViewRequest) (*dto.ViewResponse, error) {
	v, err := h.Svc.Views.Get(req.ID)
	if err != nil {
		return nil, dto.NotFound("view")
	}
	return &dto.ViewResponse{Success: true, Data: viewToResponse(v)}, nil
}

// CreateView stores a new view and returns the canonical record.
func (h *ViewHandler) CreateView(ctx context.Context, user *identity.User, req *dto.CreateViewRequest) (*dto.ViewResponse, error) {
	v := &viewstore.View{
		Name:        req.Name,
		Description: req.Description,
		Source:      req.Source,
		Layout:      req.Layout,
		Default:     req.IsDefault,
		GroupBy:     req.GroupBy,
	}
	if req.Filters != nil {
		v.SetFilterMap(req.Filters)
	}
	if req.Sorts != nil {
		v.SetSorts(req.Sorts)
	}
	if req.VisibleFields != nil {
		v.SetFields(req.VisibleFields)
	}

	stored, err := h.Svc.Views.Create(v)
	if err != nil {
		if errors.Is(err, viewstore.ErrQuotaExceeded) {
			return nil, dto.QuotaExceeded("views")
		}
		return nil, dto.InternalWithError("Failed to create view", err)
	}
	return &dto.ViewResponse{Success: true, Data: viewToResponse(stored)}, nil
}

// UpdateView applies a partial update and returns the full stored record.
func (h *ViewHandler) UpdateView(ctx context.Context, user *identity.User, req *dto.UpdateViewRequest) (*dto.ViewResponse, error) {
	patch := &viewstore.Patch{
		Name:          req.Name,
		Description:   req.Description,
		Default:       req.IsDefault,
		Layout:        req.Layout,
		ActiveFilters: req.Filters,
		ActiveSorts:   req.Sorts,
		VisibleFields: req.VisibleFields,
		GroupBy:       req.GroupBy,
	}
	updated, err := h.Svc.Views.Update(req.ID, patch)
	if err != nil {
		if errors.Is(err, viewstore.ErrNotFound) {
			return nil, dto.NotFound("view")
		}
		return nil, dto.InternalWithError("Failed to update view", err)
	}
	return &dto.ViewResponse{Success: true, Data: viewToResponse(updated)}, nil
}

// DeleteView removes a view.
func (h *ViewHandler) DeleteView(ctx context.Context, user *identity.User, req *dto.DeleteViewRequest) (*dto.DeleteViewResponse, error) {
	if err := h.Svc.Views.Delete(req.ID); err != nil {
		if errors.Is(err, viewstore.ErrNotFound) {
			return nil, dto.NotFound("view")
		}
		return nil, dto.InternalWithError("Failed to delete view", err)
	}
	return &dto.DeleteViewResponse{Success: true}, nil
}
