package model

import "time"

// CompanyKind distinguishes the customers sending units in from the
// manufacturers units are escalated to.
type CompanyKind string

const (
	CompanyCustomer     CompanyKind = "customer"
	CompanyManufacturer CompanyKind = "manufacturer"
)

// String returns the string representation of the kind.
func (k CompanyKind) String() string {
	return string(k)
}

// IsValid checks whether the kind is a known value.
func (k CompanyKind) IsValid() bool {
	return k == CompanyCustomer || k == CompanyManufacturer
}

// Company is a counterparty in the repair workflow.
type Company struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Kind      CompanyKind `json:"kind"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Address   string      `json:"address,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
