package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) addf(field, format string, args ...any) {
	e.add(field, fmt.Sprintf(format, args...))
}

// ValidateProduct checks a Product for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the product is valid.
func ValidateProduct(p *Product) error {
	var ve ValidationError

	if strings.TrimSpace(p.Serial) == "" {
		ve.add("serial", "is required")
	}

	name := strings.TrimSpace(p.ModelName)
	if name == "" {
		ve.add("model_name", "is required")
	} else if len([]rune(name)) > 200 {
		ve.add("model_name", "must be 200 characters or fewer")
	}

	if !p.Status.IsValid() {
		ve.addf("status", "invalid value %q", p.Status)
	}

	// Warranty window: both ends or neither, and start must not follow end.
	switch {
	case p.WarrantyStart != nil && p.WarrantyEnd == nil:
		ve.add("warranty_end", "is required when warranty_start is set")
	case p.WarrantyStart == nil && p.WarrantyEnd != nil:
		ve.add("warranty_start", "is required when warranty_end is set")
	case p.WarrantyStart != nil && p.WarrantyEnd != nil && p.WarrantyEnd.Before(*p.WarrantyStart):
		ve.add("warranty_end", "must not precede warranty_start")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateIssue checks an Issue for constraint violations.
func ValidateIssue(i *Issue) error {
	var ve ValidationError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		ve.add("title", "is required")
	} else if len([]rune(title)) > 500 {
		ve.add("title", "must be 500 characters or fewer")
	}

	if strings.TrimSpace(i.ProductID) == "" {
		ve.add("product_id", "is required")
	}

	if !i.Status.IsValid() {
		ve.addf("status", "invalid value %q", i.Status)
	}

	if i.Priority < 0 || i.Priority > 4 {
		ve.addf("priority", "must be between 0 and 4, got %d", i.Priority)
	}

	// ResolvedAt consistency with Status.
	if i.Status.Terminal() && i.ResolvedAt == nil {
		ve.addf("resolved_at", "is required when status is %s", i.Status)
	}
	if !i.Status.Terminal() && i.ResolvedAt != nil {
		ve.add("resolved_at", "must be nil until the issue is resolved")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateShipment checks a Shipment for constraint violations.
func ValidateShipment(s *Shipment) error {
	var ve ValidationError

	if strings.TrimSpace(s.IssueID) == "" {
		ve.add("issue_id", "is required")
	}

	if !s.Direction.IsValid() {
		ve.addf("direction", "invalid value %q", s.Direction)
	}

	if !s.Status.IsValid() {
		ve.addf("status", "invalid value %q", s.Status)
	}

	// A shipment past the preparing stage must carry transit details.
	if s.Status == ShipmentShipped || s.Status == ShipmentDelivered {
		if strings.TrimSpace(s.Carrier) == "" {
			ve.addf("carrier", "is required when status is %s", s.Status)
		}
		if s.ShippedAt == nil {
			ve.addf("shipped_at", "is required when status is %s", s.Status)
		}
	}
	if s.Status == ShipmentDelivered && s.DeliveredAt == nil {
		ve.add("delivered_at", "is required when status is delivered")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateCompany checks a Company for constraint violations.
func ValidateCompany(c *Company) error {
	var ve ValidationError

	name := strings.TrimSpace(c.Name)
	if name == "" {
		ve.add("name", "is required")
	} else if len([]rune(name)) > 200 {
		ve.add("name", "must be 200 characters or fewer")
	}

	if !c.Kind.IsValid() {
		ve.addf("kind", "invalid value %q", c.Kind)
	}

	if c.Email != "" && !strings.Contains(c.Email, "@") {
		ve.addf("email", "invalid address %q", c.Email)
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateNotification checks a Notification for constraint violations.
func ValidateNotification(n *Notification) error {
	var ve ValidationError

	if !n.Type.IsValid() {
		ve.add("type", "is required")
	}

	if strings.TrimSpace(n.Title) == "" {
		ve.add("title", "is required")
	}

	if n.Priority < 0 || n.Priority > 4 {
		ve.addf("priority", "must be between 0 and 4, got %d", n.Priority)
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
