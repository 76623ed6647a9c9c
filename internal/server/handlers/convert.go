// Conversions between storage records and wire types.

package handlers

import (
	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

func viewToResponse(v *viewstore.View) dto.View {
	return dto.View{
		ID:            v.ID,
		Name:          v.Name,
		Description:   v.Description,
		Source:        v.Source,
		Layout:        v.Layout,
		IsDefault:     v.Default,
		Filters:       v.FilterMap(),
		Sorts:         v.Sorts(),
		VisibleFields: v.Fields(),
		GroupBy:       v.GroupBy,
		Created:       v.Created,
		Modified:      v.Modified,
	}
}

func personaToResponse(p *catalog.Persona) dto.Persona {
	return dto.Persona{
		ID:       p.ID,
		Name:     p.Name,
		Segment:  p.Segment,
		Status:   p.Status,
		Priority: p.Priority,
		Profile: dto.PersonaProfile{
			Age:        p.Profile.Age,
			Occupation: p.Profile.Occupation,
			Location:   p.Profile.Location,
			Income:     p.Profile.Income,
		},
		Goals:        p.Goals,
		Frustrations: p.Frustrations,
		Channels:     p.Channels,
		Created:      p.Created,
		Modified:     p.Modified,
	}
}

func personaFromRequest(req *dto.CreatePersonaRequest) *catalog.Persona {
	return &catalog.Persona{
		Name:     req.Name,
		Segment:  req.Segment,
		Status:   req.Status,
		Priority: req.Priority,
		Profile: catalog.PersonaProfile{
			Age:        req.Profile.Age,
			Occupation: req.Profile.Occupation,
			Location:   req.Profile.Location,
			Income:     req.Profile.Income,
		},
		Goals:        req.Goals,
		Frustrations: req.Frustrations,
		Channels:     req.Channels,
	}
}

func propositionToResponse(v *catalog.ValueProposition) dto.Proposition {
	return dto.Proposition{
		ID:      v.ID,
		Title:   v.Title,
		Summary: v.Summary,
		Segment: v.Segment,
		Fit: dto.PropositionFit{
			Score: v.Fit.Score,
			Stage: v.Fit.Stage,
		},
		Products:      v.Products,
		PainRelievers: v.PainRelievers,
		GainCreators:  v.GainCreators,
		Tags:          v.Tags,
		Created:       v.Created,
		Modified:      v.Modified,
	}
}

func propositionFromRequest(req *dto.CreatePropositionRequest) *catalog.ValueProposition {
	return &catalog.ValueProposition{
		Title:   req.Title,
		Summary: req.Summary,
		Segment: req.Segment,
		Fit: catalog.PropositionFit{
			Score: req.Fit.Score,
			Stage: req.Fit.Stage,
		},
		Products:      req.Products,
		PainRelievers: req.PainRelievers,
		GainCreators:  req.GainCreators,
		Tags:          req.Tags,
	}
}

func modelToResponse(m *catalog.BusinessModel) dto.BusinessModel {
	return dto.BusinessModel{
		ID:       m.ID,
		Name:     m.Name,
		Industry: m.Industry,
		Maturity: m.Maturity,
		Risk:     m.Risk,
		Revenue: dto.RevenueModel{
			Model:     m.Revenue.Model,
			Recurring: m.Revenue.Recurring,
		},
		KeyPartners: m.KeyPartners,
		Segments:    m.Segments,
		Channels:    m.Channels,
		Tags:        m.Tags,
		Created:     m.Created,
		Modified:    m.Modified,
	}
}

func modelFromRequest(req *dto.CreateModelRequest) *catalog.BusinessModel {
	return &catalog.BusinessModel{
		Name:     req.Name,
		Industry: req.Industry,
		Maturity: req.Maturity,
		Risk:     req.Risk,
		Revenue: catalog.RevenueModel{
			Model:     req.Revenue.Model,
			Recurring: req.Revenue.Recurring,
		},
		KeyPartners: req.KeyPartners,
		Segments:    req.Segments,
		Channels:    req.Channels,
		Tags:        req.Tags,
	}
}

// fieldsResponse builds the field catalog of a domain configuration,
// computing multiselect options from the live dataset.
func fieldsResponse[T any](cfg *viewcore.Config[T], items []T) *dto.FieldsResponse {
	resp := &dto.FieldsResponse{
		Success:    true,
		Filters:    make([]dto.FilterField, 0, len(cfg.FilterFields)),
		Sorts:      make([]dto.SortField, 0, len(cfg.SortFields)),
		Properties: make([]dto.Property, 0, len(cfg.Properties)),
	}
	for i := range cfg.FilterFields {
		f := &cfg.FilterFields[i]
		field := dto.FilterField{
			ID:          f.ID,
			Label:       f.Label,
			Description: f.Description,
			Kind:        string(f.Kind),
			Icon:        f.Icon,
		}
		if f.Options != nil {
			for _, o := range f.Options(items) {
				field.Options = append(field.Options, dto.FilterOption{
					ID:    o.ID,
					Label: o.Label,
					Value: o.Value,
					Count: o.Count,
				})
			}
		}
		resp.Filters = append(resp.Filters, field)
	}
	for _, s := range cfg.SortFields {
		resp.Sorts = append(resp.Sorts, dto.SortField{ID: s.ID, Label: s.Label, Field: s.Field, Icon: s.Icon})
	}
	for _, p := range cfg.Properties {
		resp.Properties = append(resp.Properties, dto.Property{ID: p.ID, Label: p.Label})
	}
	return resp
}
