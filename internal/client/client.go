// Package client provides a transport-agnostic interface for the fixlog
// service and an HTTP/JSON implementation that talks to the fixlog REST API.
package client

import (
	"context"
	"time"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// FixlogClient is the interface that all fixlog CLI commands use to
// communicate with the server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type FixlogClient interface {
	// Products
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, opts query.Options) ([]*model.Product, query.PageMeta, error)
	UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Issues
	CreateIssue(ctx context.Context, req *CreateIssueRequest) (*model.Issue, error)
	GetIssue(ctx context.Context, id string) (*model.Issue, error)
	ListIssues(ctx context.Context, opts query.Options) ([]*model.Issue, query.PageMeta, error)
	UpdateIssue(ctx context.Context, id string, req *UpdateIssueRequest) (*model.Issue, error)
	ResolveIssue(ctx context.Context, id, resolvedBy string) (*model.Issue, error)
	DeleteIssue(ctx context.Context, id string) error

	// Shipments
	CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*model.Shipment, error)
	GetShipment(ctx context.Context, id string) (*model.Shipment, error)
	ListShipments(ctx context.Context, opts query.Options) ([]*model.Shipment, query.PageMeta, error)
	UpdateShipment(ctx context.Context, id string, req *UpdateShipmentRequest) (*model.Shipment, error)
	DeleteShipment(ctx context.Context, id string) error

	// Companies
	CreateCompany(ctx context.Context, req *CreateCompanyRequest) (*model.Company, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context, opts query.Options) ([]*model.Company, query.PageMeta, error)
	UpdateCompany(ctx context.Context, id string, req *UpdateCompanyRequest) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	// Notifications
	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error

	// Events
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Stats
	GetStats(ctx context.Context) (*model.Stats, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateProductRequest holds parameters for registering a product unit.
type CreateProductRequest struct {
	Serial        string     `json:"serial"`
	ModelName     string     `json:"model_name"`
	ModelType     string     `json:"model_type,omitempty"`
	CompanyID     string     `json:"company_id,omitempty"`
	Status        string     `json:"status,omitempty"`
	WarrantyStart *time.Time `json:"warranty_start,omitempty"`
	WarrantyEnd   *time.Time `json:"warranty_end,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Actor         string     `json:"actor,omitempty"`
}

// UpdateProductRequest holds optional parameters for updating a product.
// Nil pointer fields mean "don't change".
type UpdateProductRequest struct {
	ModelName     *string    `json:"model_name,omitempty"`
	ModelType     *string    `json:"model_type,omitempty"`
	CompanyID     *string    `json:"company_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	WarrantyStart *time.Time `json:"warranty_start,omitempty"`
	WarrantyEnd   *time.Time `json:"warranty_end,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Actor         string     `json:"actor,omitempty"`
}

// CreateIssueRequest holds parameters for reporting an issue.
type CreateIssueRequest struct {
	ProductID   string     `json:"product_id"`
	CompanyID   string     `json:"company_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	Category    string     `json:"category,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	ReportedAt  *time.Time `json:"reported_at,omitempty"`
	Actor       string     `json:"actor,omitempty"`
}

// UpdateIssueRequest holds optional parameters for updating an issue.
type UpdateIssueRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	Actor       string  `json:"actor,omitempty"`
}

// CreateShipmentRequest holds parameters for creating a shipment.
type CreateShipmentRequest struct {
	IssueID   string     `json:"issue_id"`
	Direction string     `json:"direction"`
	Carrier   string     `json:"carrier,omitempty"`
	Tracking  string     `json:"tracking,omitempty"`
	Status    string     `json:"status,omitempty"`
	ShippedAt *time.Time `json:"shipped_at,omitempty"`
	Actor     string     `json:"actor,omitempty"`
}

// UpdateShipmentRequest holds optional parameters for updating a shipment.
type UpdateShipmentRequest struct {
	Carrier     *string    `json:"carrier,omitempty"`
	Tracking    *string    `json:"tracking,omitempty"`
	Status      *string    `json:"status,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	Actor       string     `json:"actor,omitempty"`
}

// CreateCompanyRequest holds parameters for creating a company.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Actor   string `json:"actor,omitempty"`
}

// UpdateCompanyRequest holds optional parameters for updating a company.
type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty"`
	Kind    *string `json:"kind,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Actor   string  `json:"actor,omitempty"`
}
