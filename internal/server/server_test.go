package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/server/handlers"
	"github.com/bizcanvas/bizcanvas/internal/server/ratelimit"
	"github.com/bizcanvas/bizcanvas/internal/storage"
	"github.com/bizcanvas/bizcanvas/internal/storage/catalog"
	"github.com/bizcanvas/bizcanvas/internal/storage/git"
	"github.com/bizcanvas/bizcanvas/internal/storage/identity"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

func newTestRouter(t *testing.T, limits storage.RateLimits, quotas storage.ServerQuotas) http.Handler {
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
	views, err := viewstore.NewService(dir, quotas.MaxViewsPerSource)
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
		Quotas:    quotas,
	}
	limiters := ratelimit.NewConfig(limits)
	t.Cleanup(limiters.Close)
	return NewRouter(svc, cfg, limiters)
}

func defaultTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouter(t, storage.RateLimits{}, storage.DefaultServerQuotas())
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func registerUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email:    email,
		Password: "correct horse",
		Name:     "Test User",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	var resp dto.AuthResponse
	decodeInto(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	h := defaultTestRouter(t)
	w := doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	var resp dto.HealthResponse
	decodeInto(t, w, &resp)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("health = %+v", resp)
	}
}

func TestAuthFlow(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "maya@example.com")

	t.Run("Me", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("me = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.UserResponse
		decodeInto(t, w, &resp)
		if resp.Data.Email != "maya@example.com" {
			t.Errorf("email = %q", resp.Data.Email)
		}
	})

	t.Run("Login", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
			Email:    "maya@example.com",
			Password: "correct horse",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("login = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
			Email:    "maya@example.com",
			Password: "wrong",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login = %d, want 401", w.Code)
		}
	})

	t.Run("DuplicateRegister", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Email:    "maya@example.com",
			Password: "correct horse",
			Name:     "Maya Again",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("register = %d, want 409", w.Code)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/views?source=personas", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("views without token = %d, want 401", w.Code)
		}
	})

	t.Run("GarbageToken", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/views?source=personas", "not-a-token", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("views with bad token = %d, want 401", w.Code)
		}
	})
}

func TestViewCRUD(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "viktor@example.com")

	var created dto.ViewResponse
	t.Run("CreateDefaultsName", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/views", token, dto.CreateViewRequest{
			Source: viewstore.SourcePersonas,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("create = %d: %s", w.Code, w.Body.String())
		}
		decodeInto(t, w, &created)
		if created.Data.Name != viewstore.DefaultViewName {
			t.Errorf("name = %q, want %q", created.Data.Name, viewstore.DefaultViewName)
		}
		if created.Data.Layout != viewstore.LayoutGrid {
			t.Errorf("layout = %q, want grid", created.Data.Layout)
		}
	})

	t.Run("ListBySource", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/views?source=personas", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ListViewsResponse
		decodeInto(t, w, &resp)
		if resp.Count != 1 || len(resp.Data) != 1 {
			t.Fatalf("count = %d, len = %d", resp.Count, len(resp.Data))
		}
	})

	t.Run("ListMissingSource", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/views", token, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("list = %d, want 400", w.Code)
		}
	})

	t.Run("Update", func(t *testing.T) {
		name := "Priority personas"
		layout := viewstore.LayoutTable
		sorts := []viewstore.SortCriterion{{ID: "priority", Field: "priority", Order: viewstore.SortDesc}}
		w := doJSON(t, h, http.MethodPut, "/api/views/"+created.Data.ID.String(), token, dto.UpdateViewRequest{
			Name:   &name,
			Layout: &layout,
			Sorts:  &sorts,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("update = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ViewResponse
		decodeInto(t, w, &resp)
		if resp.Data.Name != name || resp.Data.Layout != layout {
			t.Errorf("updated = %+v", resp.Data)
		}
		if len(resp.Data.Sorts) != 1 || resp.Data.Sorts[0].Field != "priority" {
			t.Errorf("sorts = %+v", resp.Data.Sorts)
		}
	})

	t.Run("Get", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/views/"+created.Data.ID.String(), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("get = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		w := doJSON(t, h, http.MethodDelete, "/api/views/"+created.Data.ID.String(), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("delete = %d: %s", w.Code, w.Body.String())
		}
		w = doJSON(t, h, http.MethodGet, "/api/views/"+created.Data.ID.String(), token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("get after delete = %d, want 404", w.Code)
		}
	})
}

func TestViewQuota(t *testing.T) {
	quotas := storage.DefaultServerQuotas()
	quotas.MaxViewsPerSource = 2
	h := newTestRouter(t, storage.RateLimits{}, quotas)
	token := registerUser(t, h, "aline@example.com")

	for range 2 {
		w := doJSON(t, h, http.MethodPost, "/api/views", token, dto.CreateViewRequest{Source: viewstore.SourcePersonas})
		if w.Code != http.StatusOK {
			t.Fatalf("create = %d: %s", w.Code, w.Body.String())
		}
	}
	w := doJSON(t, h, http.MethodPost, "/api/views", token, dto.CreateViewRequest{Source: viewstore.SourcePersonas})
	if w.Code != http.StatusForbidden {
		t.Fatalf("third create = %d, want 403", w.Code)
	}
	var resp dto.ErrorResponse
	decodeInto(t, w, &resp)
	if resp.Error.Code != dto.ErrorCodeQuotaExceeded {
		t.Errorf("code = %q, want %q", resp.Error.Code, dto.ErrorCodeQuotaExceeded)
	}
}

func TestRecordListingWithView(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "records@example.com")

	personas := []dto.CreatePersonaRequest{
		{Name: "Atlas", Segment: "startups", Priority: 5},
		{Name: "Borealis", Segment: "enterprise", Priority: 2},
		{Name: "Cinder", Segment: "startups", Priority: 4},
	}
	for _, p := range personas {
		w := doJSON(t, h, http.MethodPost, "/api/personas", token, p)
		if w.Code != http.StatusOK {
			t.Fatalf("create persona = %d: %s", w.Code, w.Body.String())
		}
	}

	var view dto.ViewResponse
	w := doJSON(t, h, http.MethodPost, "/api/views", token, dto.CreateViewRequest{
		Name:    "Startup focus",
		Source:  viewstore.SourcePersonas,
		Filters: viewstore.FilterMap{"segment": viewstore.Multiselect("startups")},
		Sorts:   []viewstore.SortCriterion{{ID: "priority", Field: "priority", Order: viewstore.SortDesc}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create view = %d: %s", w.Code, w.Body.String())
	}
	decodeInto(t, w, &view)

	t.Run("ViewApplied", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/personas?view="+view.Data.ID.String(), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ListPersonasResponse
		decodeInto(t, w, &resp)
		if resp.Count != 2 {
			t.Fatalf("count = %d, want 2", resp.Count)
		}
		if resp.Data[0].Name != "Atlas" || resp.Data[1].Name != "Cinder" {
			t.Errorf("order = %q, %q", resp.Data[0].Name, resp.Data[1].Name)
		}
	})

	t.Run("SearchNarrows", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/personas?view="+view.Data.ID.String()+"&q=cinder", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ListPersonasResponse
		decodeInto(t, w, &resp)
		if resp.Count != 1 || resp.Data[0].Name != "Cinder" {
			t.Errorf("search result = %+v", resp.Data)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/personas?limit=1", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ListPersonasResponse
		decodeInto(t, w, &resp)
		if resp.Count != 1 {
			t.Errorf("count = %d, want 1", resp.Count)
		}
	})

	t.Run("WrongSourceView", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/business-models?view="+view.Data.ID.String(), token, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("list = %d, want 400", w.Code)
		}
	})

	t.Run("UnknownView", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/personas?view=vvvvvvvvvvvvv", token, nil)
		if w.Code != http.StatusNotFound && w.Code != http.StatusBadRequest {
			t.Errorf("list = %d, want 404 or 400", w.Code)
		}
	})
}

func TestQueryEndpoint(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "query@example.com")

	for _, p := range []dto.CreatePersonaRequest{
		{Name: "Atlas", Segment: "startups", Priority: 5},
		{Name: "Borealis", Segment: "enterprise", Priority: 2},
		{Name: "Cinder", Segment: "startups", Priority: 4},
	} {
		w := doJSON(t, h, http.MethodPost, "/api/personas", token, p)
		if w.Code != http.StatusOK {
			t.Fatalf("create persona = %d: %s", w.Code, w.Body.String())
		}
	}

	t.Run("AdHocCriteria", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/personas/query", token, dto.QueryRecordsRequest{
			ActiveFilters: viewstore.FilterMap{"segment": viewstore.Multiselect("startups")},
			ActiveSorts:   []viewstore.SortCriterion{{ID: "priority", Field: "priority", Order: viewstore.SortAsc}},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("query = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ListPersonasResponse
		decodeInto(t, w, &resp)
		if resp.Count != 2 || resp.Data[0].Name != "Cinder" || resp.Data[1].Name != "Atlas" {
			t.Errorf("result = %+v", resp.Data)
		}
	})

	t.Run("ByView", func(t *testing.T) {
		var view dto.ViewResponse
		w := doJSON(t, h, http.MethodPost, "/api/views", token, dto.CreateViewRequest{
			Name:    "Enterprise",
			Source:  viewstore.SourcePersonas,
			Filters: viewstore.FilterMap{"segment": viewstore.Multiselect("enterprise")},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("create view = %d: %s", w.Code, w.Body.String())
		}
		decodeInto(t, w, &view)

		w = doJSON(t, h, http.MethodPost, "/api/personas/query", token, dto.QueryRecordsRequest{ViewID: view.Data.ID.String()})
		if w.Code != http.StatusOK {
			t.Fatalf("query = %d: %s", w.Code, w.Body.String())
		}
		var resp dto.ListPersonasResponse
		decodeInto(t, w, &resp)
		if resp.Count != 1 || resp.Data[0].Name != "Borealis" {
			t.Errorf("result = %+v", resp.Data)
		}

		w = doJSON(t, h, http.MethodPost, "/api/personas/query", token, dto.QueryRecordsRequest{
			ViewID:        view.Data.ID.String(),
			ActiveFilters: viewstore.FilterMap{"segment": viewstore.Multiselect("startups")},
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("view plus criteria = %d, want 400", w.Code)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "search@example.com")

	if w := doJSON(t, h, http.MethodPost, "/api/personas", token, dto.CreatePersonaRequest{Name: "Quartz analyst"}); w.Code != http.StatusOK {
		t.Fatalf("create persona = %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, h, http.MethodPost, "/api/value-propositions", token, dto.CreatePropositionRequest{Title: "Quartz dashboards"}); w.Code != http.StatusOK {
		t.Fatalf("create proposition = %d: %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, h, http.MethodPost, "/api/business-models", token, dto.CreateModelRequest{Name: "Subscription SaaS"}); w.Code != http.StatusOK {
		t.Fatalf("create model = %d: %s", w.Code, w.Body.String())
	}

	w := doJSON(t, h, http.MethodPost, "/api/search", token, dto.SearchRequest{Query: "quartz"})
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d: %s", w.Code, w.Body.String())
	}
	var resp dto.SearchResponse
	decodeInto(t, w, &resp)
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2: %+v", resp.Count, resp.Results)
	}
	types := map[string]string{}
	for _, r := range resp.Results {
		types[r.Type] = r.Title
	}
	if types["personas"] != "Quartz analyst" || types["value-propositions"] != "Quartz dashboards" {
		t.Errorf("results = %v", types)
	}

	w = doJSON(t, h, http.MethodPost, "/api/search", token, dto.SearchRequest{Query: ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty query = %d, want 400", w.Code)
	}
}

func TestFieldsEndpoint(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "fields@example.com")

	for _, p := range []dto.CreatePersonaRequest{
		{Name: "Atlas", Segment: "startups"},
		{Name: "Borealis", Segment: "enterprise"},
		{Name: "Cinder", Segment: "startups"},
	} {
		w := doJSON(t, h, http.MethodPost, "/api/personas", token, p)
		if w.Code != http.StatusOK {
			t.Fatalf("create persona = %d: %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, h, http.MethodGet, "/api/personas/filter-fields", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fields = %d: %s", w.Code, w.Body.String())
	}
	var resp dto.FieldsResponse
	decodeInto(t, w, &resp)
	if len(resp.Filters) == 0 || len(resp.Sorts) == 0 {
		t.Fatalf("fields = %+v", resp)
	}
	var segment *dto.FilterField
	for i := range resp.Filters {
		if resp.Filters[i].ID == "segment" {
			segment = &resp.Filters[i]
		}
	}
	if segment == nil {
		t.Fatal("segment filter missing")
	}
	counts := map[string]int{}
	for _, o := range segment.Options {
		counts[o.Value] = o.Count
	}
	if counts["startups"] != 2 || counts["enterprise"] != 1 {
		t.Errorf("option counts = %v", counts)
	}
}

func TestRateLimiting(t *testing.T) {
	limits := storage.RateLimits{AuthRatePerMin: 2}
	h := newTestRouter(t, limits, storage.DefaultServerQuotas())

	creds := dto.LoginRequest{Email: "nobody@example.com", Password: "whatever1"}
	for i := range 2 {
		w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", creds)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") == "" {
			t.Error("missing X-RateLimit-Limit header")
		}
	}

	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", creds)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	var resp dto.ErrorResponse
	decodeInto(t, w, &resp)
	if resp.Error.Code != dto.ErrorCodeRateLimited {
		t.Errorf("code = %q, want %q", resp.Error.Code, dto.ErrorCodeRateLimited)
	}
}

func TestBodySizeLimit(t *testing.T) {
	quotas := storage.DefaultServerQuotas()
	quotas.MaxRequestBodyBytes = 256
	h := newTestRouter(t, storage.RateLimits{}, quotas)
	token := registerUser(t, h, "big@example.com")

	big := make([]byte, 1024)
	for i := range big {
		big[i] = 'x'
	}
	req := dto.CreatePersonaRequest{Name: string(big)}
	w := doJSON(t, h, http.MethodPost, "/api/personas", token, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized create = %d, want 413", w.Code)
	}
	var resp dto.ErrorResponse
	decodeInto(t, w, &resp)
	if resp.Error.Code != dto.ErrorCodePayloadTooLarge {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestUnknownBodyFieldRejected(t *testing.T) {
	h := defaultTestRouter(t)
	token := registerUser(t, h, "strict@example.com")

	w := doJSON(t, h, http.MethodPost, "/api/views", token, map[string]any{
		"source":  "personas",
		"bogus":   true,
		"another": 1,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown field = %d, want 400", w.Code)
	}
}
