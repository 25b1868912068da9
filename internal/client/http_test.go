package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method      string
	path        string
	query       string
	body        string
	contentType string
	authHeader  string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.contentType = r.Header.Get("Content-Type")
	h.authHeader = r.Header.Get("Authorization")
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, "")
	return c, srv
}

func TestHTTPClient_CreateProduct(t *testing.T) {
	h := &testHandler{
		statusCode: http.StatusCreated,
		responseBody: `{
			"id": "prd-abc",
			"serial": "SN-1001",
			"model_name": "Drill X200",
			"status": "active",
			"created_at": "2026-01-15T10:00:00Z",
			"updated_at": "2026-01-15T10:00:00Z"
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	p, err := c.CreateProduct(context.Background(), &CreateProductRequest{
		Serial:    "SN-1001",
		ModelName: "Drill X200",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.ID != "prd-abc" || p.Serial != "SN-1001" {
		t.Fatalf("got id=%q serial=%q", p.ID, p.Serial)
	}
	if h.method != "POST" || h.path != "/v1/products" {
		t.Fatalf("got %s %s", h.method, h.path)
	}
	if h.contentType != "application/json" {
		t.Fatalf("got Content-Type %q", h.contentType)
	}
	if !strings.Contains(h.body, `"serial":"SN-1001"`) {
		t.Fatalf("request body missing serial: %s", h.body)
	}
}

func TestHTTPClient_ListIssues_QueryEncoding(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"data": [{"id": "iss-1", "product_id": "prd-a", "title": "Motor whine", "status": "open"}],
			"meta": {"pagination": {"page": 2, "pageSize": 10, "pageCount": 4, "total": 31}}
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	opts := query.Options{
		Filter:   query.Filter{"status": {query.OpIn: []string{"open", "in_repair"}}},
		Search:   "whine",
		Sort:     &query.SortSpec{Field: "reported_at", Desc: true},
		Page:     2,
		PageSize: 10,
	}
	issues, meta, err := c.ListIssues(context.Background(), opts)
	if err != nil {
		t.Fatalf("ListIssues: %v", err)
	}
	if len(issues) != 1 || issues[0].ID != "iss-1" {
		t.Fatalf("got issues %+v", issues)
	}
	if meta.Total != 31 || meta.Page != 2 || meta.PageCount != 4 {
		t.Fatalf("got meta %+v", meta)
	}

	for _, want := range []string{
		"filters%5Bstatus%5D%5B%24in%5D=open",
		"filters%5Bstatus%5D%5B%24in%5D=in_repair",
		"search=whine",
		"sort=-reported_at",
		"pagination%5Bpage%5D=2",
		"pagination%5BpageSize%5D=10",
	} {
		if !strings.Contains(h.query, want) {
			t.Fatalf("query %q missing %q", h.query, want)
		}
	}
}

func TestHTTPClient_GetProduct_PathEscape(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "prd-a b"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	if _, err := c.GetProduct(context.Background(), "prd-a b"); err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if h.path != "/v1/products/prd-a b" {
		t.Fatalf("got path %q", h.path)
	}
}

func TestHTTPClient_DeleteIssue(t *testing.T) {
	h := &testHandler{statusCode: http.StatusNoContent}
	c, srv := newTestClient(h)
	defer srv.Close()

	if err := c.DeleteIssue(context.Background(), "iss-1"); err != nil {
		t.Fatalf("DeleteIssue: %v", err)
	}
	if h.method != "DELETE" || h.path != "/v1/issues/iss-1" {
		t.Fatalf("got %s %s", h.method, h.path)
	}
}

func TestHTTPClient_ResolveIssue(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "iss-1", "status": "resolved"}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	issue, err := c.ResolveIssue(context.Background(), "iss-1", "kaan")
	if err != nil {
		t.Fatalf("ResolveIssue: %v", err)
	}
	if issue.Status != model.IssueResolved {
		t.Fatalf("got status %q", issue.Status)
	}
	if h.path != "/v1/issues/iss-1/resolve" {
		t.Fatalf("got path %q", h.path)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(h.body), &body); err != nil {
		t.Fatalf("unmarshaling body: %v", err)
	}
	if body["resolved_by"] != "kaan" {
		t.Fatalf("got body %v", body)
	}
}

func TestHTTPClient_ListNotifications(t *testing.T) {
	h := &testHandler{responseBody: `{"notifications": [{"id": "ntf-1", "type": "issue_created"}]}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	ns, err := c.ListNotifications(context.Background(), true, 5)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(ns) != 1 || ns[0].ID != "ntf-1" {
		t.Fatalf("got notifications %+v", ns)
	}
	if !strings.Contains(h.query, "unread=true") || !strings.Contains(h.query, "limit=5") {
		t.Fatalf("got query %q", h.query)
	}
}

func TestHTTPClient_APIError(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusNotFound,
		responseBody: `{"error": "product not found"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetProduct(context.Background(), "prd-nope")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Message != "product not found" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestHTTPClient_AuthHeader(t *testing.T) {
	h := &testHandler{responseBody: `{"status": "ok"}`}
	srv := httptest.NewServer(h)
	defer srv.Close()
	c := NewHTTPClient(srv.URL, "secret")

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.authHeader != "Bearer secret" {
		t.Fatalf("got Authorization %q", h.authHeader)
	}
}

func TestHTTPClient_GetStats(t *testing.T) {
	h := &testHandler{responseBody: `{"open_issues": 3, "total_products": 12}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	stats, err := c.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.OpenIssues != 3 || stats.TotalProducts != 12 {
		t.Fatalf("got stats %+v", stats)
	}
}
