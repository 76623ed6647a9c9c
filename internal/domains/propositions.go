package domains

import (
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

// Propositions returns the view configuration for the value proposition
// catalog.
func Propositions() *viewcore.Config[*catalog.ValueProposition] {
	return &viewcore.Config[*catalog.ValueProposition]{
		Source:        viewstore.SourceValueProps,
		DefaultLayout: viewstore.LayoutTable,
		Layouts: map[viewstore.Layout]viewcore.Renderer[*catalog.ValueProposition]{
			viewstore.LayoutGrid:   gridRenderer[*catalog.ValueProposition]("title"),
			viewstore.LayoutList:   listRenderer[*catalog.ValueProposition]("title", "summary"),
			viewstore.LayoutTable:  tableRenderer[*catalog.ValueProposition](),
			viewstore.LayoutKanban: kanbanRenderer[*catalog.ValueProposition]("title"),
		},
		FilterFields: []viewcore.FilterField[*catalog.ValueProposition]{
			{
				ID:      "segment",
				Label:   "Segment",
				Kind:    viewstore.FilterMultiselect,
				Path:    "segment",
				Icon:    "target",
				Options: viewcore.OptionsByPath[*catalog.ValueProposition]("segment"),
			},
			{
				ID:          "stage",
				Label:       "Stage",
				Description: "Validation stage of the fit assessment",
				Kind:        viewstore.FilterMultiselect,
				Path:        "fit.stage",
				Icon:        "stage",
				Options:     viewcore.OptionsByPath[*catalog.ValueProposition]("fit.stage"),
			},
			{
				ID:      "tags",
				Label:   "Tags",
				Kind:    viewstore.FilterMultiselect,
				Path:    "tags",
				Icon:    "tag",
				Options: viewcore.OptionsByFlatten[*catalog.ValueProposition]("tags"),
			},
			{
				ID:          "score",
				Label:       "Fit score",
				Description: "Problem-solution fit, 0 to 10",
				Kind:        viewstore.FilterRange,
				Path:        "fit.score",
				Icon:        "gauge",
			},
			{
				ID:    "title",
				Label: "Title",
				Kind:  viewstore.FilterText,
				Path:  "title",
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
			{ID: "title", Label: "Title", Field: "title", Icon: "text"},
			{ID: "score", Label: "Fit score", Field: "fit.score", Icon: "gauge"},
			{ID: "created", Label: "Created", Field: "created", Icon: "calendar"},
		},
		Properties: []viewcore.PropertyRef{
			{ID: "title", Label: "Title"},
			{ID: "summary", Label: "Summary"},
			{ID: "segment", Label: "Segment"},
			{ID: "fit.score", Label: "Fit score"},
			{ID: "fit.stage", Label: "Stage"},
			{ID: "products", Label: "Products"},
			{ID: "tags", Label: "Tags"},
			{ID: "created", Label: "Created"},
		},
		DefaultVisible: []string{"title", "segment", "fit.score", "fit.stage"},
	}
}
