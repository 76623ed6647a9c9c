// Package viewstore persists saved views in a JSONL table.
package viewstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/jsonldb"
)

// ErrNotFound is returned when a view does not exist.
var ErrNotFound = errors.New("view not found")

// ErrQuotaExceeded is returned when a source already holds the maximum
// number of views.
var ErrQuotaExceeded = errors.New("view quota exceeded")

// DefaultViewName is the placeholder name for newly created views.
const DefaultViewName = "Untitled view"

// Patch is a partial view update. Nil fields are left unchanged.
type Patch struct {
	Name          *string
	Description   *string
	Default       *bool
	Layout        *Layout
	Filters       *string // legacy raw payload
	ActiveFilters *FilterMap
	ActiveSorts   *[]SortCriterion
	VisibleFields *[]string
	GroupBy       *string
}

// Service persists saved views.
type Service struct {
	table        *jsonldb.Table[*View]
	bySource     *jsonldb.Index[Source, *View]
	maxPerSource int
}

// NewService creates the view store under rootDir/db. maxPerSource of 0
// means unlimited.
func NewService(rootDir string, maxPerSource int) (*Service, error) {
	dbDir := filepath.Join(rootDir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	table, err := jsonldb.NewTable[*View](filepath.Join(dbDir, "views.jsonl"))
	if err != nil {
		return nil, err
	}

	return &Service{
		table:        table,
		bySource:     jsonldb.NewIndex(table, func(v *View) Source { return v.Source }),
		maxPerSource: maxPerSource,
	}, nil
}

// List returns all views in ID (creation) order.
func (s *Service) List() []*View {
	out := make([]*View, 0, s.table.Len())
	for v := range s.table.Iter(0) {
		out = append(out, v)
	}
	return out
}

// ListBySource returns all views for one source in ID (creation) order.
func (s *Service) ListBySource(source Source) []*View {
	var out []*View
	for v := range s.bySource.Iter(source) {
		out = append(out, v)
	}
	// Index iteration order is undefined; restore creation order.
	slices.SortFunc(out, func(a, b *View) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Get returns the view with the given ID.
func (s *Service) Get(id ksid.ID) (*View, error) {
	v := s.table.Get(id)
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// Create stores a new view. Zero ID, empty name and empty layout receive
// defaults. It returns the stored record.
func (s *Service) Create(v *View) (*View, error) {
	stored := v.Clone()
	if stored.ID.IsZero() {
		stored.ID = ksid.NewID()
	}
	if stored.Name == "" {
		stored.Name = DefaultViewName
	}
	if stored.Layout == "" {
		stored.Layout = LayoutGrid
	}
	now := time.Now()
	stored.Created = now
	stored.Modified = now

	if s.maxPerSource > 0 {
		n := 0
		for range s.bySource.Iter(stored.Source) {
			n++
		}
		if n >= s.maxPerSource {
			return nil, ErrQuotaExceeded
		}
	}

	if err := s.table.Append(stored); err != nil {
		return nil, err
	}
	if stored.Default {
		if err := s.clearOtherDefaults(stored.Source, stored.ID); err != nil {
			return nil, err
		}
	}
	return stored.Clone(), nil
}

// Update applies a partial update and returns the full stored record.
func (s *Service) Update(id ksid.ID, patch *Patch) (*View, error) {
	updated, err := s.table.Modify(id, func(v *View) error {
		if patch.Name != nil {
			v.Name = *patch.Name
		}
		if patch.Description != nil {
			v.Description = *patch.Description
		}
		if patch.Default != nil {
			v.Default = *patch.Default
		}
		if patch.Layout != nil {
			v.Layout = *patch.Layout
		}
		if patch.Filters != nil {
			v.Filters = *patch.Filters
		}
		if patch.ActiveFilters != nil {
			v.SetFilterMap(*patch.ActiveFilters)
		}
		if patch.ActiveSorts != nil {
			v.SetSorts(*patch.ActiveSorts)
		}
		if patch.VisibleFields != nil {
			v.SetFields(*patch.VisibleFields)
		}
		if patch.GroupBy != nil {
			v.GroupBy = *patch.GroupBy
		}
		v.Modified = time.Now()
		return nil
	})
	if err != nil {
		if errors.Is(err, jsonldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if patch.Default != nil && *patch.Default {
		if err := s.clearOtherDefaults(updated.Source, id); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// Delete removes a view.
func (s *Service) Delete(id ksid.ID) error {
	found, err := s.table.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// clearOtherDefaults keeps at most one default view per source.
func (s *Service) clearOtherDefaults(source Source, keep ksid.ID) error {
	var stale []ksid.ID
	for v := range s.bySource.Iter(source) {
		if v.Default && v.ID != keep {
			stale = append(stale, v.ID)
		}
	}
	for _, id := range stale {
		if _, err := s.table.Modify(id, func(v *View) error {
			v.Default = false
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
