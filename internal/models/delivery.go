package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus is the fulfilment state of a single delivery
type DeliveryStatus string

const (
	DeliveryStatusScheduled DeliveryStatus = "scheduled"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusMissed    DeliveryStatus = "missed"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// IsValid reports whether s is a known delivery status
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusScheduled, DeliveryStatusDelivered, DeliveryStatusMissed, DeliveryStatusCancelled:
		return true
	}
	return false
}

// Delivery is one materialized drop for a subscription on a date
type Delivery struct {
	ID             uuid.UUID       `json:"id"`
	SubscriptionID uuid.UUID       `json:"subscription_id"`
	ZoneID         *uuid.UUID      `json:"zone_id,omitempty"`
	DeliveryDate   Date            `json:"delivery_date" swaggertype:"string" example:"2024-01-11"`
	Product        string          `json:"product"`
	Quantity       int             `json:"quantity"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"55.00"`
	Status         DeliveryStatus  `json:"status" example:"scheduled"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UpdateDeliveryStatusRequest represents a delivery status change
type UpdateDeliveryStatusRequest struct {
	Status DeliveryStatus `json:"status" binding:"required,oneof=scheduled delivered missed cancelled" example:"delivered"`
}
