package events

import (
	"context"

	"github.com/ozgurkzlkaya/fixlog/internal/model"
)

// Event topic constants
const (
	TopicProductCreated = "fixlog.product.created"
	TopicProductUpdated = "fixlog.product.updated"
	TopicProductDeleted = "fixlog.product.deleted"

	TopicIssueCreated  = "fixlog.issue.created"
	TopicIssueUpdated  = "fixlog.issue.updated"
	TopicIssueResolved = "fixlog.issue.resolved"
	TopicIssueDeleted  = "fixlog.issue.deleted"

	TopicShipmentCreated = "fixlog.shipment.created"
	TopicShipmentUpdated = "fixlog.shipment.updated"
	TopicShipmentDeleted = "fixlog.shipment.deleted"

	TopicCompanyCreated = "fixlog.company.created"
	TopicCompanyUpdated = "fixlog.company.updated"
	TopicCompanyDeleted = "fixlog.company.deleted"

	TopicNotificationCreated = "fixlog.notification.created"
)

// Event types

type ProductCreated struct {
	Product *model.Product `json:"product"`
}

type ProductUpdated struct {
	Product *model.Product `json:"product"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

type IssueCreated struct {
	Issue *model.Issue `json:"issue"`
}

type IssueUpdated struct {
	Issue   *model.Issue   `json:"issue"`
	Changes map[string]any `json:"changes"`
}

type IssueResolved struct {
	Issue      *model.Issue `json:"issue"`
	ResolvedBy string       `json:"resolved_by,omitempty"`
}

type IssueDeleted struct {
	IssueID string `json:"issue_id"`
}

type ShipmentCreated struct {
	Shipment *model.Shipment `json:"shipment"`
}

type ShipmentUpdated struct {
	Shipment *model.Shipment `json:"shipment"`
	Changes  map[string]any  `json:"changes"`
}

type ShipmentDeleted struct {
	ShipmentID string `json:"shipment_id"`
}

type CompanyCreated struct {
	Company *model.Company `json:"company"`
}

type CompanyUpdated struct {
	Company *model.Company `json:"company"`
	Changes map[string]any `json:"changes"`
}

type CompanyDeleted struct {
	CompanyID string `json:"company_id"`
}

type NotificationCreated struct {
	Notification *model.Notification `json:"notification"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
