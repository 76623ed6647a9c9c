package apiclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizcanvas/bizcanvas/internal/domains"
	"github.com/bizcanvas/bizcanvas/internal/server"
	"github.com/bizcanvas/bizcanvas/internal/server/handlers"
	"github.com/bizcanvas/bizcanvas/internal/server/ratelimit"
	"github.com/bizcanvas/bizcanvas/internal/storage"
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/git"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
	"github.com/bizcanvas/bizcanvas/internal/viewcore"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.New(dir, "server", "server@localhost")
	if err != nil {
		t.Fatalf("git.New: %v", err)
	}
	users, err := identity.NewUserService(dir)
	if err != nil {
		t.Fatalf("NewUserService: %v", err)
	}
	views, err := viewstore.NewService(dir, 0)
	if err != nil {
		t.Fatalf("viewstore.NewService: %v", err)
	}
	cat, err := catalog.NewService(dir)
	if err != nil {
		t.Fatalf("catalog.NewService: %v", err)
	}

	svc := &handlers.Services{User: users, Views: views, Catalog: cat, Repo: repo}
	cfg := &handlers.Config{
		JWTSecret: []byte("0123456789abcdef0123456789abcdef"),
		Version:   "test",
		Quotas:    storage.DefaultServerQuotas(),
	}
	limiters := ratelimit.NewConfig(storage.RateLimits{})
	t.Cleanup(limiters.Close)

	srv := httptest.NewServer(server.NewRouter(svc, cfg, limiters))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientViews(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := t.Context()

	if _, err := c.Register(ctx, "client@example.com", "correct horse", "Client"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	created, err := c.CreateView(ctx, &viewstore.View{
		Name:   "Pipeline",
		Source: viewstore.SourcePersonas,
		Layout: viewstore.LayoutTable,
	})
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("created view has zero ID")
	}

	t.Run("List", func(t *testing.T) {
		views, err := c.ListViews(ctx, viewstore.SourcePersonas)
		if err != nil {
			t.Fatalf("ListViews: %v", err)
		}
		if len(views) != 1 || views[0].Name != "Pipeline" {
			t.Errorf("views = %+v", views)
		}
	})

	t.Run("Update", func(t *testing.T) {
		name := "Renamed"
		sorts := []viewstore.SortCriterion{{ID: "priority", Field: "priority", Order: viewstore.SortDesc}}
		updated, err := c.UpdateView(ctx, created.ID, &viewstore.Patch{Name: &name, ActiveSorts: &sorts})
		if err != nil {
			t.Fatalf("UpdateView: %v", err)
		}
		if updated.Name != "Renamed" {
			t.Errorf("name = %q", updated.Name)
		}
		got := updated.Sorts()
		if len(got) != 1 || got[0].Field != "priority" || got[0].Order != viewstore.SortDesc {
			t.Errorf("sorts = %+v", got)
		}
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		name := "x"
		_, err := c.UpdateView(ctx, created.ID+1, &viewstore.Patch{Name: &name})
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %v, want *Error", err)
		}
		if apiErr.Status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", apiErr.Status)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.DeleteView(ctx, created.ID); err != nil {
			t.Fatalf("DeleteView: %v", err)
		}
		views, err := c.ListViews(ctx, viewstore.SourcePersonas)
		if err != nil {
			t.Fatalf("ListViews: %v", err)
		}
		if len(views) != 0 {
			t.Errorf("views = %+v, want empty", views)
		}
	})
}

func TestClientUnauthorized(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	_, err := c.ListViews(t.Context(), viewstore.SourcePersonas)
	if err == nil {
		t.Fatal("expected error without token")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.Status)
	}
}

// TestManagerOverHTTP drives the generic view manager against a live
// server through the client, the same way a local store would back it.
func TestManagerOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := t.Context()

	if _, err := c.Register(ctx, "manager@example.com", "correct horse", "Manager"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	seed, err := c.CreateView(ctx, &viewstore.View{
		Name:    "Everyone",
		Source:  viewstore.SourcePersonas,
		Default: true,
	})
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}

	m := viewcore.NewManager(domains.Personas(), c)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	current := m.Current()
	if current == nil || current.ID != seed.ID {
		t.Fatalf("current = %+v, want seeded default", current)
	}

	m.SetFilters(ctx, viewstore.FilterMap{
		"segment": viewstore.Multiselect("startups"),
	})
	m.Flush()

	views, err := c.ListViews(ctx, viewstore.SourcePersonas)
	if err != nil {
		t.Fatalf("ListViews: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	persisted := views[0].FilterMap()
	if got := persisted["segment"].Selected; len(got) != 1 || got[0] != "startups" {
		t.Errorf("persisted filters = %+v", persisted)
	}
}
