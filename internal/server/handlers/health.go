// Handles health, edit history and server stats.

package handlers

import (
	"context"

	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
)

const defaultHistoryLimit = 50

// HealthHandler handles health check and server metadata requests.
type HealthHandler struct {
	Svc *Services
	Cfg *Config
}

// Health handles health check requests.
func (h *HealthHandler) Health(ctx context.Context, req *dto.HealthRequest) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{
		Status:  "ok",
		Version: h.Cfg.Version,
	}, nil
}

// History returns the data directory's commit history, newest first.
func (h *HealthHandler) History(ctx context.Context, user *identity.User, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	commits, err := h.Svc.Repo.History(ctx, "", limit)
	if err != nil {
		return nil, dto.InternalWithError("Failed to read history", err)
	}
	out := make([]dto.CommitInfo, 0, len(commits))
	for _, c := range commits {
		out = append(out, dto.CommitInfo{
			Hash:    c.Hash,
			Message: c.Message,
			Author:  c.Author,
			Date:    c.AuthorDate,
		})
	}
	return &dto.HistoryResponse{Success: true, Data: out, Count: len(out)}, nil
}

// Stats returns server-wide record counts.
func (h *HealthHandler) Stats(ctx context.Context, user *identity.User, req *dto.StatsRequest) (*dto.StatsResponse, error) {
	commits, err := h.Svc.Repo.CommitCount(ctx)
	if err != nil {
		return nil, dto.InternalWithError("Failed to count commits", err)
	}
	counts := h.Svc.Catalog.Counts()
	return &dto.StatsResponse{
		Personas:     counts["personas"],
		Propositions: counts["value-propositions"],
		Models:       counts["business-models"],
		Views:        len(h.Svc.Views.List()),
		Users:        h.Svc.User.Len(),
		Commits:      commits,
	}, nil
}
