package model

import "time"

// ProductStatus represents the lifecycle state of a tracked product unit.
type ProductStatus string

const (
	ProductActive    ProductStatus = "active"
	ProductInService ProductStatus = "in_service"
	ProductRetired   ProductStatus = "retired"
	ProductScrapped  ProductStatus = "scrapped"
)

// String returns the string representation of the status.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductActive, ProductInService, ProductRetired, ProductScrapped:
		return true
	}
	return false
}

// ProductStatuses lists the valid statuses in lifecycle order.
func ProductStatuses() []ProductStatus {
	return []ProductStatus{ProductActive, ProductInService, ProductRetired, ProductScrapped}
}

// Product is a serialed unit under warranty tracking.
type Product struct {
	ID            string        `json:"id"`
	Serial        string        `json:"serial"`
	ModelName     string        `json:"model_name"`
	ModelType     string        `json:"model_type,omitempty"`
	CompanyID     string        `json:"company_id,omitempty"`
	Status        ProductStatus `json:"status"`
	WarrantyStart *time.Time    `json:"warranty_start,omitempty"`
	WarrantyEnd   *time.Time    `json:"warranty_end,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// UnderWarranty reports whether the product is in warranty at the given time.
func (p *Product) UnderWarranty(at time.Time) bool {
	if p.WarrantyStart == nil || p.WarrantyEnd == nil {
		return false
	}
	return !at.Before(*p.WarrantyStart) && !at.After(*p.WarrantyEnd)
}
