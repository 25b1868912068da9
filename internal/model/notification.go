package model

import "time"

// NotificationType categorizes a notification. Types are extensible;
// well-known constants are provided below.
type NotificationType string

const (
	NotifyIssueCreated     NotificationType = "issue_created"
	NotifyIssueResolved    NotificationType = "issue_resolved"
	NotifyShipmentArrived  NotificationType = "shipment_arrived"
	NotifyWarrantyExpiring NotificationType = "warranty_expiring"
)

// String returns the string representation of the type.
func (t NotificationType) String() string {
	return string(t)
}

// IsValid reports whether the type is a non-empty string.
// Notification types are extensible, so any non-empty value is accepted.
func (t NotificationType) IsValid() bool {
	return t != ""
}

// Notification is an in-app alert shown to operators.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	Priority  int              `json:"priority"`
	EntityID  string           `json:"entity_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
