package domains

import (
	"slices"
	"strconv"

	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

// Models returns the view configuration for the business model catalog.
func Models() *viewcore.Config[*catalog.BusinessModel] {
	return &viewcore.Config[*catalog.BusinessModel]{
		Source:        viewstore.SourceBusinessModels,
		DefaultLayout: viewstore.LayoutGrid,
		Layouts: map[viewstore.Layout]viewcore.Renderer[*catalog.BusinessModel]{
			viewstore.LayoutGrid:   gridRenderer[*catalog.BusinessModel]("name"),
			viewstore.LayoutList:   listRenderer[*catalog.BusinessModel]("name", "industry"),
			viewstore.LayoutTable:  tableRenderer[*catalog.BusinessModel](),
			viewstore.LayoutKanban: kanbanRenderer[*catalog.BusinessModel]("name"),
		},
		FilterFields: []viewcore.FilterField[*catalog.BusinessModel]{
			{
				ID:      "industry",
				Label:   "Industry",
				Kind:    viewstore.FilterMultiselect,
				Path:    "industry",
				Icon:    "factory",
				Options: viewcore.OptionsByPath[*catalog.BusinessModel]("industry"),
			},
			{
				ID:      "maturity",
				Label:   "Maturity",
				Kind:    viewstore.FilterMultiselect,
				Path:    "maturity",
				Icon:    "stage",
				Options: viewcore.OptionsByPath[*catalog.BusinessModel]("maturity"),
			},
			{
				ID:      "revenue",
				Label:   "Revenue model",
				Kind:    viewstore.FilterMultiselect,
				Path:    "revenue.model",
				Icon:    "coins",
				Options: viewcore.OptionsByPath[*catalog.BusinessModel]("revenue.model"),
			},
			{
				ID:          "recurring",
				Label:       "Recurring revenue",
				Description: "Whether revenue recurs",
				Kind:        viewstore.FilterMultiselect,
				Icon:        "coins",
				// The underlying value is a bool; match it against the
				// stringified selection.
				Match: func(m *catalog.BusinessModel, v viewstore.FilterValue) bool {
					return slices.Contains(v.Selected, strconv.FormatBool(m.Revenue.Recurring))
				},
			},
			{
				ID:      "tags",
				Label:   "Tags",
				Kind:    viewstore.FilterMultiselect,
				Path:    "tags",
				Icon:    "tag",
				Options: viewcore.OptionsByFlatten[*catalog.BusinessModel]("tags"),
			},
			{
				ID:          "risk",
				Label:       "Risk",
				Description: "Risk score, 1 to 10",
				Kind:        viewstore.FilterRange,
				Path:        "risk",
				Icon:        "risk",
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
			{ID: "risk", Label: "Risk", Field: "risk", Icon: "risk"},
			{ID: "created", Label: "Created", Field: "created", Icon: "calendar"},
		},
		Properties: []viewcore.PropertyRef{
			{ID: "name", Label: "Name"},
			{ID: "industry", Label: "Industry"},
			{ID: "maturity", Label: "Maturity"},
			{ID: "risk", Label: "Risk"},
			{ID: "revenue.model", Label: "Revenue model"},
			{ID: "revenue.recurring", Label: "Recurring"},
			{ID: "segments", Label: "Segments"},
			{ID: "tags", Label: "Tags"},
			{ID: "created", Label: "Created"},
		},
		DefaultVisible: []string{"name", "industry", "maturity", "risk"},
	}
}
