package store

import (
	"context"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// Store defines the persistence interface for fixlog entities. List methods
// take composite query options (filter, search, sort, pagination) and return
// the matching page plus its pagination metadata.
type Store interface {
	// Product CRUD
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, opts query.Options) ([]*model.Product, query.PageMeta, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// Issue CRUD
	CreateIssue(ctx context.Context, i *model.Issue) error
	GetIssue(ctx context.Context, id string) (*model.Issue, error)
	ListIssues(ctx context.Context, opts query.Options) ([]*model.Issue, query.PageMeta, error)
	UpdateIssue(ctx context.Context, i *model.Issue) error
	ResolveIssue(ctx context.Context, id, resolvedBy string) (*model.Issue, error)
	DeleteIssue(ctx context.Context, id string) error

	// Shipment CRUD
	CreateShipment(ctx context.Context, s *model.Shipment) error
	GetShipment(ctx context.Context, id string) (*model.Shipment, error)
	ListShipments(ctx context.Context, opts query.Options) ([]*model.Shipment, query.PageMeta, error)
	UpdateShipment(ctx context.Context, s *model.Shipment) error
	DeleteShipment(ctx context.Context, id string) error

	// Company CRUD
	CreateCompany(ctx context.Context, c *model.Company) error
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context, opts query.Options) ([]*model.Company, query.PageMeta, error)
	UpdateCompany(ctx context.Context, c *model.Company) error
	DeleteCompany(ctx context.Context, id string) error

	// Notifications
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Stats
	GetStats(ctx context.Context) (*model.Stats, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
