// Package apiclient is a Go client for the HTTP API. It satisfies
// [viewcore.Store], so a remote server can back the generic view manager
// the same way the local view store does.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maruel/ksid"

	"github.com/bizcanvas/bizcanvas/internal/server/dto"
	"github.com/bizcanvas/bizcanvas/internal/storage/viewstore"
)

// Error is a decoded API error response.
type Error struct {
	Status  int
	Code    dto.ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
}

// Client talks to a running server. Safe for concurrent use once the
// token is set.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", &req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, email, password, name string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.RegisterRequest{Email: email, Password: password, Name: name}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", &req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Health reports server liveness.
func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListViews implements viewcore.Store.
func (c *Client) ListViews(ctx context.Context, source viewstore.Source) ([]*viewstore.View, error) {
	var resp dto.ListViewsResponse
	path := "/api/views?source=" + url.QueryEscape(string(source))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*viewstore.View, 0, len(resp.Data))
	for i := range resp.Data {
		out = append(out, viewFromWire(&resp.Data[i]))
	}
	return out, nil
}

// CreateView implements viewcore.Store.
func (c *Client) CreateView(ctx context.Context, v *viewstore.View) (*viewstore.View, error) {
	req := dto.CreateViewRequest{
		Name:          v.Name,
		Description:   v.Description,
		Source:        v.Source,
		Layout:        v.Layout,
		IsDefault:     v.Default,
		Filters:       v.FilterMap(),
		Sorts:         v.Sorts(),
		VisibleFields: v.Fields(),
		GroupBy:       v.GroupBy,
	}
	var resp dto.ViewResponse
	if err := c.do(ctx, http.MethodPost, "/api/views", &req, &resp); err != nil {
		return nil, err
	}
	return viewFromWire(&resp.Data), nil
}

// viewPatchBody is the wire shape of a partial view update. Nil fields
// are omitted so the server leaves them unchanged.
type viewPatchBody struct {
	Name          *string                    `json:"name,omitempty"`
	Description   *string                    `json:"description,omitempty"`
	IsDefault     *bool                      `json:"is_default,omitempty"`
	Layout        *viewstore.Layout          `json:"layout,omitempty"`
	Filters       *viewstore.FilterMap       `json:"active_filters,omitempty"`
	Sorts         *[]viewstore.SortCriterion `json:"active_sorts,omitempty"`
	VisibleFields *[]string                  `json:"visible_fields,omitempty"`
	GroupBy       *string                    `json:"group_by,omitempty"`
}

// UpdateView implements viewcore.Store.
func (c *Client) UpdateView(ctx context.Context, id ksid.ID, patch *viewstore.Patch) (*viewstore.View, error) {
	body := viewPatchBody{
		Name:          patch.Name,
		Description:   patch.Description,
		IsDefault:     patch.Default,
		Layout:        patch.Layout,
		Filters:       patch.ActiveFilters,
		Sorts:         patch.ActiveSorts,
		VisibleFields: patch.VisibleFields,
		GroupBy:       patch.GroupBy,
	}
	var resp dto.ViewResponse
	if err := c.do(ctx, http.MethodPut, "/api/views/"+id.String(), &body, &resp); err != nil {
		return nil, err
	}
	return viewFromWire(&resp.Data), nil
}

// DeleteView implements viewcore.Store.
func (c *Client) DeleteView(ctx context.Context, id ksid.ID) error {
	var resp dto.DeleteViewResponse
	return c.do(ctx, http.MethodDelete, "/api/views/"+id.String(), nil, &resp)
}

func viewFromWire(v *dto.View) *viewstore.View {
	out := &viewstore.View{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Source:      v.Source,
		Layout:      v.Layout,
		Default:     v.IsDefault,
		GroupBy:     v.GroupBy,
		Created:     v.Created,
		Modified:    v.Modified,
	}
	if v.Filters != nil {
		out.SetFilterMap(v.Filters)
	}
	if v.Sorts != nil {
		out.SetSorts(v.Sorts)
	}
	if v.VisibleFields != nil {
		out.SetFields(v.VisibleFields)
	}
	return out
}

// do runs one JSON round trip. A non-2xx response decodes into *Error.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode, Message: resp.Status}
		var wire dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&wire); err == nil && wire.Error.Message != "" {
			apiErr.Code = wire.Error.Code
			apiErr.Message = wire.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
