package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// HTTPClient implements FixlogClient using the fixlog HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// listEnvelope mirrors the server's list response shape.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		Pagination query.PageMeta `json:"pagination"`
	} `json:"meta"`
}

// listPath appends encoded query options to a collection path.
func listPath(base string, opts query.Options) string {
	if q := opts.Encode().Encode(); q != "" {
		return base + "?" + q
	}
	return base
}

// --- Products ---

func (c *HTTPClient) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodPost, "/v1/products", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodGet, "/v1/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context, opts query.Options) ([]*model.Product, query.PageMeta, error) {
	var env listEnvelope[*model.Product]
	if err := c.doJSON(ctx, http.MethodGet, listPath("/v1/products", opts), nil, &env); err != nil {
		return nil, query.PageMeta{}, err
	}
	return env.Data, env.Meta.Pagination, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*model.Product, error) {
	var p model.Product
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/products/"+url.PathEscape(id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/products/"+url.PathEscape(id), nil, nil)
}

// --- Issues ---

func (c *HTTPClient) CreateIssue(ctx context.Context, req *CreateIssueRequest) (*model.Issue, error) {
	var i model.Issue
	if err := c.doJSON(ctx, http.MethodPost, "/v1/issues", req, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *HTTPClient) GetIssue(ctx context.Context, id string) (*model.Issue, error) {
	var i model.Issue
	if err := c.doJSON(ctx, http.MethodGet, "/v1/issues/"+url.PathEscape(id), nil, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *HTTPClient) ListIssues(ctx context.Context, opts query.Options) ([]*model.Issue, query.PageMeta, error) {
	var env listEnvelope[*model.Issue]
	if err := c.doJSON(ctx, http.MethodGet, listPath("/v1/issues", opts), nil, &env); err != nil {
		return nil, query.PageMeta{}, err
	}
	return env.Data, env.Meta.Pagination, nil
}

func (c *HTTPClient) UpdateIssue(ctx context.Context, id string, req *UpdateIssueRequest) (*model.Issue, error) {
	var i model.Issue
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/issues/"+url.PathEscape(id), req, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *HTTPClient) ResolveIssue(ctx context.Context, id, resolvedBy string) (*model.Issue, error) {
	body := map[string]string{"resolved_by": resolvedBy}
	var i model.Issue
	if err := c.doJSON(ctx, http.MethodPost, "/v1/issues/"+url.PathEscape(id)+"/resolve", body, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *HTTPClient) DeleteIssue(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/issues/"+url.PathEscape(id), nil, nil)
}

// --- Shipments ---

func (c *HTTPClient) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*model.Shipment, error) {
	var s model.Shipment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/shipments", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) GetShipment(ctx context.Context, id string) (*model.Shipment, error) {
	var s model.Shipment
	if err := c.doJSON(ctx, http.MethodGet, "/v1/shipments/"+url.PathEscape(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) ListShipments(ctx context.Context, opts query.Options) ([]*model.Shipment, query.PageMeta, error) {
	var env listEnvelope[*model.Shipment]
	if err := c.doJSON(ctx, http.MethodGet, listPath("/v1/shipments", opts), nil, &env); err != nil {
		return nil, query.PageMeta{}, err
	}
	return env.Data, env.Meta.Pagination, nil
}

func (c *HTTPClient) UpdateShipment(ctx context.Context, id string, req *UpdateShipmentRequest) (*model.Shipment, error) {
	var s model.Shipment
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/shipments/"+url.PathEscape(id), req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) DeleteShipment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/shipments/"+url.PathEscape(id), nil, nil)
}

// --- Companies ---

func (c *HTTPClient) CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*model.Company, error) {
	var co model.Company
	if err := c.doJSON(ctx, http.MethodPost, "/v1/companies", req, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *HTTPClient) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var co model.Company
	if err := c.doJSON(ctx, http.MethodGet, "/v1/companies/"+url.PathEscape(id), nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *HTTPClient) ListCompanies(ctx context.Context, opts query.Options) ([]*model.Company, query.PageMeta, error) {
	var env listEnvelope[*model.Company]
	if err := c.doJSON(ctx, http.MethodGet, listPath("/v1/companies", opts), nil, &env); err != nil {
		return nil, query.PageMeta{}, err
	}
	return env.Data, env.Meta.Pagination, nil
}

func (c *HTTPClient) UpdateCompany(ctx context.Context, id string, req *UpdateCompanyRequest) (*model.Company, error) {
	var co model.Company
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/companies/"+url.PathEscape(id), req, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

func (c *HTTPClient) DeleteCompany(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/companies/"+url.PathEscape(id), nil, nil)
}

// --- Notifications ---

func (c *HTTPClient) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*model.Notification, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unread", "true")
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/v1/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Notifications []*model.Notification `json:"notifications"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *HTTPClient) MarkAllNotificationsRead(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/notifications/read-all", nil, nil)
}

// --- Events ---

func (c *HTTPClient) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/entities/"+url.PathEscape(entityID)+"/events", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Stats ---

func (c *HTTPClient) GetStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
