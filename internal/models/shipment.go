// Package models defines shipment record types shared across modules.
package models

import (
	"strings"
	"time"
)

// ShipmentStatus represents the lifecycle status of a shipment.
type ShipmentStatus string

const (
	// ShipmentStatusPending is the default status before booking completes.
	ShipmentStatusPending ShipmentStatus = "pending"
	// ShipmentStatusBooked indicates the shipment was booked.
	ShipmentStatusBooked ShipmentStatus = "booked"
	// ShipmentStatusRescheduled indicates the delivery date or time changed.
	ShipmentStatusRescheduled ShipmentStatus = "rescheduled"
	// ShipmentStatusModified indicates an address changed.
	ShipmentStatusModified ShipmentStatus = "modified"
	// ShipmentStatusCancelled is terminal; cancelling again is an error.
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// IsValidShipmentStatus checks if the given status is supported.
func IsValidShipmentStatus(s ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusBooked, ShipmentStatusRescheduled,
		ShipmentStatusModified, ShipmentStatusCancelled:
		return true
	default:
		return false
	}
}

// Shipment is the record held by the shipment store. TrackingID is the natural
// key: an 8-digit numeric string.
type Shipment struct {
	TrackingID      string         `json:"tracking_id"`
	CustomerName    string         `json:"customer_name"`
	PickupAddress   string         `json:"pickup_address"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryDate    string         `json:"delivery_date"` // YYYY-MM-DD
	Status          ShipmentStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// City extracts the city component from the delivery address, falling back to a
// generic destination when the address has no comma-separated parts.
func (s *Shipment) City() string {
	parts := strings.Split(s.DeliveryAddress, ",")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[len(parts)-2])
	}
	return "your destination"
}

// CallLog records one host-level call interaction for analytics.
type CallLog struct {
	ID         string    `json:"id"`
	CallSID    string    `json:"call_sid"`
	FromNumber string    `json:"from_number,omitempty"`
	Action     string    `json:"action,omitempty"`
	TrackingID string    `json:"tracking_id,omitempty"`
	Details    string    `json:"details,omitempty"` // JSON blob
	CreatedAt  time.Time `json:"created_at"`
}
