package model

import "time"

// IssueStatus represents the repair-workflow state of an issue.
type IssueStatus string

const (
	IssueOpen         IssueStatus = "open"
	IssueInRepair     IssueStatus = "in_repair"
	IssueWaitingParts IssueStatus = "waiting_parts"
	IssueResolved     IssueStatus = "resolved"
	IssueClosed       IssueStatus = "closed"
)

// String returns the string representation of the status.
func (s IssueStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueOpen, IssueInRepair, IssueWaitingParts, IssueResolved, IssueClosed:
		return true
	}
	return false
}

// IssueStatuses lists the valid statuses in workflow order.
func IssueStatuses() []IssueStatus {
	return []IssueStatus{IssueOpen, IssueInRepair, IssueWaitingParts, IssueResolved, IssueClosed}
}

// Terminal reports whether the status ends the repair workflow.
func (s IssueStatus) Terminal() bool {
	return s == IssueResolved || s == IssueClosed
}

// Issue-category constants. Categories are extensible; these are the
// well-known values the UI offers by default.
const (
	CategoryMechanical = "mechanical"
	CategoryElectrical = "electrical"
	CategorySoftware   = "software"
	CategoryCosmetic   = "cosmetic"
	CategoryOther      = "other"
)

// Issue is a reported fault against a product unit.
type Issue struct {
	ID          string      `json:"id"`
	ProductID   string      `json:"product_id"`
	CompanyID   string      `json:"company_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      IssueStatus `json:"status"`
	Priority    int         `json:"priority"`
	Category    string      `json:"category,omitempty"`
	Assignee    string      `json:"assignee,omitempty"`
	ReportedAt  time.Time   `json:"reported_at"`
	ResolvedAt  *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relational data -- populated by queries, not stored in the issues table.
	Shipments []*Shipment `json:"shipments,omitempty"`
}
