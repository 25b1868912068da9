package server

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
	"github.com/ozgurkzlkaya/fixlog/internal/store"
)

// mockStore is an in-memory store.Store for handler tests. List methods
// honor $eq/$in filters on string fields, free-text search, and pagination.
type mockStore struct {
	products      map[string]*model.Product
	issues        map[string]*model.Issue
	shipments     map[string]*model.Shipment
	companies     map[string]*model.Company
	notifications map[string]*model.Notification
	events        []*model.Event

	// createIssueErr, when non-nil, is returned by CreateIssue.
	createIssueErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		products:      make(map[string]*model.Product),
		issues:        make(map[string]*model.Issue),
		shipments:     make(map[string]*model.Shipment),
		companies:     make(map[string]*model.Company),
		notifications: make(map[string]*model.Notification),
	}
}

// matchClause evaluates $eq and $in against a string field value. Other
// operators are treated as matching; handler tests only exercise these two.
func matchClause(clause query.Clause, val string) bool {
	for op, arg := range clause {
		switch op {
		case query.OpEq:
			if s, ok := arg.(string); ok && s != val {
				return false
			}
		case query.OpIn:
			list, ok := arg.([]string)
			if !ok {
				continue
			}
			found := false
			for _, s := range list {
				if s == val {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func matchFilter(f query.Filter, fields map[string]string) bool {
	for field, clause := range f {
		val, ok := fields[field]
		if !ok {
			return false
		}
		if !matchClause(clause, val) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// paginate slices ids into the requested page and builds the metadata.
func paginate(ids []string, opts query.Options) ([]string, query.PageMeta) {
	sort.Strings(ids)
	total := len(ids)
	meta := query.NewPageMeta(opts.Page, opts.PageSize, total)
	start := opts.Offset()
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}
	return ids[start:end], meta
}

func (m *mockStore) CreateProduct(_ context.Context, p *model.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockStore) GetProduct(_ context.Context, id string) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (m *mockStore) ListProducts(_ context.Context, opts query.Options) ([]*model.Product, query.PageMeta, error) {
	var ids []string
	for id, p := range m.products {
		fields := map[string]string{
			"serial":     p.Serial,
			"model_name": p.ModelName,
			"model_type": p.ModelType,
			"status":     string(p.Status),
			"company_id": p.CompanyID,
		}
		if !matchFilter(opts.Filter, fields) {
			continue
		}
		if opts.Search != "" && !containsFold(p.Serial, opts.Search) && !containsFold(p.ModelName, opts.Search) {
			continue
		}
		ids = append(ids, id)
	}
	page, meta := paginate(ids, opts)
	var result []*model.Product
	for _, id := range page {
		result = append(result, m.products[id])
	}
	return result, meta, nil
}

func (m *mockStore) UpdateProduct(_ context.Context, p *model.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockStore) DeleteProduct(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.products, id)
	return nil
}

func (m *mockStore) CreateIssue(_ context.Context, i *model.Issue) error {
	if m.createIssueErr != nil {
		return m.createIssueErr
	}
	m.issues[i.ID] = i
	return nil
}

func (m *mockStore) GetIssue(_ context.Context, id string) (*model.Issue, error) {
	i, ok := m.issues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *i
	return &clone, nil
}

func (m *mockStore) ListIssues(_ context.Context, opts query.Options) ([]*model.Issue, query.PageMeta, error) {
	var ids []string
	for id, i := range m.issues {
		fields := map[string]string{
			"product_id": i.ProductID,
			"company_id": i.CompanyID,
			"status":     string(i.Status),
			"category":   i.Category,
			"assignee":   i.Assignee,
		}
		if !matchFilter(opts.Filter, fields) {
			continue
		}
		if opts.Search != "" && !containsFold(i.Title, opts.Search) && !containsFold(i.Description, opts.Search) {
			continue
		}
		ids = append(ids, id)
	}
	page, meta := paginate(ids, opts)
	var result []*model.Issue
	for _, id := range page {
		result = append(result, m.issues[id])
	}
	return result, meta, nil
}

func (m *mockStore) UpdateIssue(_ context.Context, i *model.Issue) error {
	if _, ok := m.issues[i.ID]; !ok {
		return sql.ErrNoRows
	}
	m.issues[i.ID] = i
	return nil
}

func (m *mockStore) ResolveIssue(_ context.Context, id, resolvedBy string) (*model.Issue, error) {
	i, ok := m.issues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	now := time.Now().UTC()
	i.Status = model.IssueResolved
	i.ResolvedAt = &now
	if resolvedBy != "" {
		i.Assignee = resolvedBy
	}
	i.UpdatedAt = now
	clone := *i
	return &clone, nil
}

func (m *mockStore) DeleteIssue(_ context.Context, id string) error {
	if _, ok := m.issues[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.issues, id)
	return nil
}

func (m *mockStore) CreateShipment(_ context.Context, s *model.Shipment) error {
	m.shipments[s.ID] = s
	return nil
}

func (m *mockStore) GetShipment(_ context.Context, id string) (*model.Shipment, error) {
	s, ok := m.shipments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (m *mockStore) ListShipments(_ context.Context, opts query.Options) ([]*model.Shipment, query.PageMeta, error) {
	var ids []string
	for id, s := range m.shipments {
		fields := map[string]string{
			"issue_id":  s.IssueID,
			"direction": string(s.Direction),
			"status":    string(s.Status),
			"carrier":   s.Carrier,
		}
		if !matchFilter(opts.Filter, fields) {
			continue
		}
		if opts.Search != "" && !containsFold(s.Carrier, opts.Search) && !containsFold(s.Tracking, opts.Search) {
			continue
		}
		ids = append(ids, id)
	}
	page, meta := paginate(ids, opts)
	var result []*model.Shipment
	for _, id := range page {
		result = append(result, m.shipments[id])
	}
	return result, meta, nil
}

func (m *mockStore) UpdateShipment(_ context.Context, s *model.Shipment) error {
	if _, ok := m.shipments[s.ID]; !ok {
		return sql.ErrNoRows
	}
	m.shipments[s.ID] = s
	return nil
}

func (m *mockStore) DeleteShipment(_ context.Context, id string) error {
	if _, ok := m.shipments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.shipments, id)
	return nil
}

func (m *mockStore) CreateCompany(_ context.Context, c *model.Company) error {
	m.companies[c.ID] = c
	return nil
}

func (m *mockStore) GetCompany(_ context.Context, id string) (*model.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (m *mockStore) ListCompanies(_ context.Context, opts query.Options) ([]*model.Company, query.PageMeta, error) {
	var ids []string
	for id, c := range m.companies {
		fields := map[string]string{
			"name": c.Name,
			"kind": string(c.Kind),
		}
		if !matchFilter(opts.Filter, fields) {
			continue
		}
		if opts.Search != "" && !containsFold(c.Name, opts.Search) {
			continue
		}
		ids = append(ids, id)
	}
	page, meta := paginate(ids, opts)
	var result []*model.Company
	for _, id := range page {
		result = append(result, m.companies[id])
	}
	return result, meta, nil
}

func (m *mockStore) UpdateCompany(_ context.Context, c *model.Company) error {
	if _, ok := m.companies[c.ID]; !ok {
		return sql.ErrNoRows
	}
	m.companies[c.ID] = c
	return nil
}

func (m *mockStore) DeleteCompany(_ context.Context, id string) error {
	if _, ok := m.companies[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.companies, id)
	return nil
}

func (m *mockStore) CreateNotification(_ context.Context, n *model.Notification) error {
	m.notifications[n.ID] = n
	return nil
}

func (m *mockStore) ListNotifications(_ context.Context, unreadOnly bool, limit int) ([]*model.Notification, error) {
	var ids []string
	for id, n := range m.notifications {
		if unreadOnly && n.Read {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	var result []*model.Notification
	for _, id := range ids {
		result = append(result, m.notifications[id])
	}
	return result, nil
}

func (m *mockStore) MarkNotificationRead(_ context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return sql.ErrNoRows
	}
	n.Read = true
	return nil
}

func (m *mockStore) MarkAllNotificationsRead(_ context.Context) error {
	for _, n := range m.notifications {
		n.Read = true
	}
	return nil
}

func (m *mockStore) RecordEvent(_ context.Context, event *model.Event) error {
	event.ID = int64(len(m.events) + 1)
	event.CreatedAt = time.Now().UTC()
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) GetEvents(_ context.Context, entityID string) ([]*model.Event, error) {
	var result []*model.Event
	for _, e := range m.events {
		if e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockStore) GetStats(_ context.Context) (*model.Stats, error) {
	stats := &model.Stats{TotalProducts: len(m.products)}
	for _, i := range m.issues {
		switch i.Status {
		case model.IssueOpen:
			stats.OpenIssues++
		case model.IssueInRepair:
			stats.InRepair++
		case model.IssueWaitingParts:
			stats.WaitingParts++
		case model.IssueResolved:
			stats.ResolvedIssues++
		case model.IssueClosed:
			stats.ClosedIssues++
		}
	}
	for _, n := range m.notifications {
		if !n.Read {
			stats.UnreadNotifications++
		}
	}
	return stats, nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error {
	return nil
}
