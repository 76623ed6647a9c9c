// The generic view lifecycle manager.

package viewcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// ErrNoView is returned by operations that need a selected view when none
// is selected.
var ErrNoView = errors.New("no view selected")

// Store is the persistence surface the manager drives. It is implemented
// locally by the view store and remotely by the API client.
type Store interface {
	ListViews(ctx context.Context, source viewstore.Source) ([]*viewstore.View, error)
	CreateView(ctx context.Context, v *viewstore.View) (*viewstore.View, error)
	UpdateView(ctx context.Context, id ksid.ID, patch *viewstore.Patch) (*viewstore.View, error)
	DeleteView(ctx context.Context, id ksid.ID) error
}

// Manager owns the view state of one catalog source: the loaded view list,
// the selected view, and the working search/filter/sort/layout state.
//
// Filter and sort changes apply locally first and persist asynchronously;
// a failed persist keeps the local state (no rollback) so the user's screen
// never snaps back. Settings edits (name, visible fields, layout, default
// flag) persist synchronously and revert the edited field on failure.
// Responses of in-flight updates carry a per-view sequence number; stale
// responses are discarded so out-of-order completions cannot clobber newer
// state.
//
// All methods are safe for concurrent use.
type Manager[T any] struct {
	cfg   *Config[T]
	store Store

	mu      sync.Mutex
	wg      sync.WaitGroup
	views   []*viewstore.View
	current *viewstore.View
	search  string
	filters viewstore.FilterMap
	sorts   []viewstore.SortCriterion
	layout  viewstore.Layout
	seq     map[ksid.ID]uint64
	applied map[ksid.ID]uint64
}

// NewManager creates a manager for one domain configuration.
func NewManager[T any](cfg *Config[T], store Store) *Manager[T] {
	return &Manager[T]{
		cfg:     cfg,
		store:   store,
		seq:     map[ksid.ID]uint64{},
		applied: map[ksid.ID]uint64{},
	}
}

// Load fetches the source's views and selects the default one (or the
// first, when no view carries the default flag). On failure the manager
// stays usable with an empty view list.
func (m *Manager[T]) Load(ctx context.Context) error {
	views, err := m.store.ListViews(ctx, m.cfg.Source)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.views = nil
		m.current = nil
		m.filters = nil
		m.sorts = nil
		m.layout = m.cfg.DefaultLayout
		slog.ErrorContext(ctx, "failed to load views", "source", m.cfg.Source, "error", err)
		return fmt.Errorf("failed to load views for %s: %w", m.cfg.Source, err)
	}

	m.views = views
	selected := (*viewstore.View)(nil)
	for _, v := range views {
		if v.Default {
			selected = v
			break
		}
	}
	if selected == nil && len(views) > 0 {
		selected = views[0]
	}
	m.adoptLocked(selected)
	return nil
}

// adoptLocked makes v the selected view and resets the working filter,
// sort and layout state from its (sanitized) persisted columns.
func (m *Manager[T]) adoptLocked(v *viewstore.View) {
	m.current = v
	if v == nil {
		m.filters = nil
		m.sorts = nil
		m.layout = m.cfg.DefaultLayout
		return
	}
	m.filters = v.FilterMap()
	m.sorts = v.Sorts()
	if v.Layout.Valid() {
		m.layout = v.Layout
	} else {
		m.layout = m.cfg.DefaultLayout
	}
}

// Views returns the loaded view list.
func (m *Manager[T]) Views() []*viewstore.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*viewstore.View, len(m.views))
	for i, v := range m.views {
		out[i] = v.Clone()
	}
	return out
}

// Current returns the selected view, or nil.
func (m *Manager[T]) Current() *viewstore.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.Clone()
}

// Layout returns the working layout.
func (m *Manager[T]) Layout() viewstore.Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout
}

// Filters returns the working filter state.
func (m *Manager[T]) Filters() viewstore.FilterMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters.Clone()
}

// Sorts returns the working sort state.
func (m *Manager[T]) Sorts() []viewstore.SortCriterion {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]viewstore.SortCriterion, len(m.sorts))
	copy(out, m.sorts)
	return out
}

// SetSearch updates the transient search query. Search is never persisted.
func (m *Manager[T]) SetSearch(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search = query
}

// SwitchView selects another loaded view and resets the working state from
// its persisted columns.
func (m *Manager[T]) SwitchView(id ksid.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.views {
		if v.ID == id {
			m.adoptLocked(v)
			return nil
		}
	}
	return fmt.Errorf("view %s: %w", id, viewstore.ErrNotFound)
}

// SetLayout switches the working layout locally. Layout changes are
// deliberately not auto-persisted; an explicit [Manager.PersistLayout]
// (the settings editor's save) writes it through.
func (m *Manager[T]) SetLayout(layout viewstore.Layout) {
	if !layout.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layout = layout
}

// SetFilters applies a new active-filter map locally and persists it
// asynchronously. On persistence failure the local state is kept.
func (m *Manager[T]) SetFilters(ctx context.Context, filters viewstore.FilterMap) {
	m.mu.Lock()
	m.filters = filters.Clone()
	if m.current == nil {
		m.mu.Unlock()
		return
	}
	id := m.current.ID
	patch := &viewstore.Patch{ActiveFilters: &filters}
	m.persistAsyncLocked(ctx, id, patch)
	m.mu.Unlock()
}

// SetSorts applies a new sort list locally and persists it asynchronously.
// On persistence failure the local state is kept.
func (m *Manager[T]) SetSorts(ctx context.Context, sorts []viewstore.SortCriterion) {
	sorts = viewstore.SanitizeSorts(sorts)
	m.mu.Lock()
	m.sorts = sorts
	if m.current == nil {
		m.mu.Unlock()
		return
	}
	id := m.current.ID
	patch := &viewstore.Patch{ActiveSorts: &sorts}
	m.persistAsyncLocked(ctx, id, patch)
	m.mu.Unlock()
}

// persistAsyncLocked issues a sequence-numbered partial update in the
// background. Must be called with the lock held.
func (m *Manager[T]) persistAsyncLocked(ctx context.Context, id ksid.ID, patch *viewstore.Patch) {
	m.seq[id]++
	seq := m.seq[id]
	ctx = context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		updated, err := m.store.UpdateView(ctx, id, patch)

		m.mu.Lock()
		defer m.mu.Unlock()
		if seq <= m.applied[id] {
			// A newer update already completed; this response is stale.
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to persist view state", "view", id, "error", err)
			return
		}
		m.applied[id] = seq
		m.replaceRecordLocked(updated)
	}()
}

// replaceRecordLocked swaps the canonical record into the view list and,
// when it is the selected view, into current. The working filter/sort
// state is left alone; it already reflects the user's latest intent.
func (m *Manager[T]) replaceRecordLocked(updated *viewstore.View) {
	for i, v := range m.views {
		if v.ID == updated.ID {
			m.views[i] = updated
			break
		}
	}
	if m.current != nil && m.current.ID == updated.ID {
		m.current = updated
	}
}

// Flush waits for all in-flight persistence. Intended for tests and
// shutdown.
func (m *Manager[T]) Flush() {
	m.wg.Wait()
}

// CreateView creates a view with the given layout (and a placeholder name
// when name is empty), appends it to the list and selects it.
func (m *Manager[T]) CreateView(ctx context.Context, name string, layout viewstore.Layout) (*viewstore.View, error) {
	if !layout.Valid() {
		layout = m.cfg.DefaultLayout
	}
	created, err := m.store.CreateView(ctx, &viewstore.View{
		Name:   name,
		Source: m.cfg.Source,
		Layout: layout,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.views = append(m.views, created)
	m.adoptLocked(created)
	m.mu.Unlock()
	return created.Clone(), nil
}

// DeleteView removes a view. When the selected view is deleted the manager
// falls back to the default (or first) remaining view.
func (m *Manager[T]) DeleteView(ctx context.Context, id ksid.ID) error {
	if err := m.store.DeleteView(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.views[:0]
	for _, v := range m.views {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	m.views = kept
	if m.current != nil && m.current.ID == id {
		selected := (*viewstore.View)(nil)
		for _, v := range m.views {
			if v.Default {
				selected = v
				break
			}
		}
		if selected == nil && len(m.views) > 0 {
			selected = m.views[0]
		}
		m.adoptLocked(selected)
	}
	return nil
}

// SetName renames the selected view with an immediate save. On failure the
// name reverts.
func (m *Manager[T]) SetName(ctx context.Context, name string) error {
	return m.editField(ctx, func(patch *viewstore.Patch) { patch.Name = &name })
}

// SetVisibleFields updates the selected view's visible-field list with an
// immediate save. On failure the field list reverts.
func (m *Manager[T]) SetVisibleFields(ctx context.Context, fields []string) error {
	return m.editField(ctx, func(patch *viewstore.Patch) { patch.VisibleFields = &fields })
}

// SetDefault flips the selected view's default flag with an immediate save.
func (m *Manager[T]) SetDefault(ctx context.Context, isDefault bool) error {
	return m.editField(ctx, func(patch *viewstore.Patch) { patch.Default = &isDefault })
}

// PersistLayout writes the working layout to the selected view. This is
// the only path that persists a layout change.
func (m *Manager[T]) PersistLayout(ctx context.Context) error {
	m.mu.Lock()
	layout := m.layout
	m.mu.Unlock()
	return m.editField(ctx, func(patch *viewstore.Patch) { patch.Layout = &layout })
}

// editField performs a synchronous single-field settings edit. The edit is
// applied optimistically via the canonical response; on error the selected
// view keeps its previous record, which reverts the field.
func (m *Manager[T]) editField(ctx context.Context, apply func(patch *viewstore.Patch)) error {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return ErrNoView
	}
	id := m.current.ID
	m.mu.Unlock()

	patch := &viewstore.Patch{}
	apply(patch)
	updated, err := m.store.UpdateView(ctx, id, patch)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save view settings", "view", id, "error", err)
		return err
	}

	m.mu.Lock()
	m.replaceRecordLocked(updated)
	if patch.Default != nil && *patch.Default {
		// The store keeps one default view per source.
		for i, v := range m.views {
			if v.ID != id && v.Default {
				clone := v.Clone()
				clone.Default = false
				m.views[i] = clone
			}
		}
	}
	m.mu.Unlock()
	return nil
}

// Items runs the derived-data pipeline over a caller-owned snapshot.
func (m *Manager[T]) Items(raw []T) []T {
	m.mu.Lock()
	search := m.search
	filters := m.filters
	sorts := m.sorts
	m.mu.Unlock()
	return Derive(m.cfg, raw, search, filters, sorts)
}

// Render runs the pipeline and dispatches to the renderer of the working
// layout.
func (m *Manager[T]) Render(w io.Writer, raw []T) error {
	m.mu.Lock()
	layout := m.layout
	var fields []string
	var groupBy string
	if m.current != nil {
		fields = m.current.Fields()
		groupBy = m.current.GroupBy
	}
	m.mu.Unlock()

	renderer := m.cfg.Layouts[layout]
	if renderer == nil {
		renderer = m.cfg.Layouts[m.cfg.DefaultLayout]
	}
	if renderer == nil {
		return fmt.Errorf("no renderer for layout %q", layout)
	}
	if fields == nil {
		fields = m.cfg.DefaultVisible
	}
	return renderer(w, ViewData[T]{
		Items:         m.Items(raw),
		VisibleFields: fields,
		GroupBy:       groupBy,
	})
}

// LocalStore adapts the view store service to the [Store] interface for
// in-process use.
type LocalStore struct {
	Svc *viewstore.Service
}

// ListViews implements [Store].
func (s LocalStore) ListViews(_ context.Context, source viewstore.Source) ([]*viewstore.View, error) {
	return s.Svc.ListBySource(source), nil
}

// CreateView implements [Store].
func (s LocalStore) CreateView(_ context.Context, v *viewstore.View) (*viewstore.View, error) {
	return s.Svc.Create(v)
}

// UpdateView implements [Store].
func (s LocalStore) UpdateView(_ context.Context, id ksid.ID, patch *viewstore.Patch) (*viewstore.View, error) {
	return s.Svc.Update(id, patch)
}

// DeleteView implements [Store].
func (s LocalStore) DeleteView(_ context.Context, id ksid.ID) error {
	return s.Svc.Delete(id)
}
