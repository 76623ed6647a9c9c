// Package domains instantiates the generic view configuration for each
// catalog: which fields filter, which sort, and how each layout renders.
package domains

import (
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

// Personas returns the view configuration for the persona catalog.
func Personas() *viewcore.Config[*catalog.Persona] {
	return &viewcore.Config[*catalog.Persona]{
		Source:        viewstore.SourcePersonas,
		DefaultLayout: viewstore.LayoutGrid,
		Layouts: map[viewstore.Layout]viewcore.Renderer[*catalog.Persona]{
			viewstore.LayoutGrid:   gridRenderer[*catalog.Persona]("name"),
			viewstore.LayoutList:   listRenderer[*catalog.Persona]("name", "segment"),
			viewstore.LayoutTable:  tableRenderer[*catalog.Persona](),
			viewstore.LayoutKanban: kanbanRenderer[*catalog.Persona]("name"),
		},
		FilterFields: []viewcore.FilterField[*catalog.Persona]{
			{
				ID:          "segment",
				Label:       "Segment",
				Description: "Customer segment the persona belongs to",
				Kind:        viewstore.FilterMultiselect,
				Path:        "segment",
				Icon:        "target",
				Options:     viewcore.OptionsByPath[*catalog.Persona]("segment"),
			},
			{
				ID:      "status",
				Label:   "Status",
				Kind:    viewstore.FilterMultiselect,
				Path:    "status",
				Icon:    "flag",
				Options: viewcore.OptionsByPath[*catalog.Persona]("status"),
			},
			{
				ID:      "location",
				Label:   "Location",
				Kind:    viewstore.FilterMultiselect,
				Path:    "profile.location",
				Icon:    "globe",
				Options: viewcore.OptionsByPath[*catalog.Persona]("profile.location"),
			},
			{
				ID:      "channels",
				Label:   "Channels",
				Kind:    viewstore.FilterMultiselect,
				Path:    "channels",
				Icon:    "channel",
				Options: viewcore.OptionsByFlatten[*catalog.Persona]("channels"),
			},
			{
				ID:          "priority",
				Label:       "Priority",
				Description: "Relative priority, 1 to 5",
				Kind:        viewstore.FilterRange,
				Path:        "priority",
				Icon:        "gauge",
			},
			{
				ID:    "age",
				Label: "Age",
				Kind:  viewstore.FilterRange,
				Path:  "profile.age",
				Icon:  "user",
			},
			{
				ID:    "name",
				Label: "Name",
				Kind:  viewstore.FilterText,
				Path:  "name",
				Icon:  "text",
			},
			{
				ID:    "created",
				Label: "Created",
				Kind:  viewstore.FilterDateRange,
				Path:  "created",
				Icon:  "calendar",
			},
		},
		SortFields: []viewcore.SortField{
			{ID: "name", Label: "Name", Field: "name", Icon: "text"},
			{ID: "priority", Label: "Priority", Field: "priority", Icon: "gauge"},
			{ID: "age", Label: "Age", Field: "profile.age", Icon: "user"},
			{ID: "created", Label: "Created", Field: "created", Icon: "calendar"},
		},
		Properties: []viewcore.PropertyRef{
			{ID: "name", Label: "Name"},
			{ID: "segment", Label: "Segment"},
			{ID: "status", Label: "Status"},
			{ID: "priority", Label: "Priority"},
			{ID: "profile.age", Label: "Age"},
			{ID: "profile.occupation", Label: "Occupation"},
			{ID: "profile.location", Label: "Location"},
			{ID: "channels", Label: "Channels"},
			{ID: "created", Label: "Created"},
		},
		DefaultVisible: []string{"name", "segment", "status", "priority"},
	}
}
