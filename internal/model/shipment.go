package model

import "time"

// Direction distinguishes units coming in for repair from units going back.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	return string(d)
}

// IsValid checks whether the direction is a known value.
func (d Direction) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// ShipmentStatus represents the transit state of a shipment.
type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "preparing"
	ShipmentShipped   ShipmentStatus = "shipped"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentLost      ShipmentStatus = "lost"
)

// String returns the string representation of the status.
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentPreparing, ShipmentShipped, ShipmentDelivered, ShipmentLost:
		return true
	}
	return false
}

// ShipmentStatuses lists the valid statuses in transit order.
func ShipmentStatuses() []ShipmentStatus {
	return []ShipmentStatus{ShipmentPreparing, ShipmentShipped, ShipmentDelivered, ShipmentLost}
}

// Shipment is a physical movement of a unit tied to a repair issue.
type Shipment struct {
	ID          string         `json:"id"`
	IssueID     string         `json:"issue_id"`
	Direction   Direction      `json:"direction"`
	Carrier     string         `json:"carrier,omitempty"`
	Tracking    string         `json:"tracking,omitempty"`
	Status      ShipmentStatus `json:"status"`
	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
