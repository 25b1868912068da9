package model

// Stats is the dashboard summary: issue counts by status plus a few
// headline totals.
type Stats struct {
	OpenIssues          int `json:"open_issues"`
	InRepair            int `json:"in_repair"`
	WaitingParts        int `json:"waiting_parts"`
	ResolvedIssues      int `json:"resolved_issues"`
	ClosedIssues        int `json:"closed_issues"`
	TotalProducts       int `json:"total_products"`
	UnreadNotifications int `json:"unread_notifications"`
}
