package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cadence determines which days inside a subscription's active period are
// delivery days
type Cadence string

const (
	CadenceDaily        Cadence = "daily"
	CadenceAlternateDay Cadence = "alternate_day"
	CadenceWeekly       Cadence = "weekly"
	CadenceCustom       Cadence = "custom"
)

// Normalize maps the hyphenated spelling of alternate_day onto the stored form
func (c Cadence) Normalize() Cadence {
	if c == "alternate-day" {
		return CadenceAlternateDay
	}
	return c
}

// IsValid reports whether c is a known cadence
func (c Cadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceAlternateDay, CadenceWeekly, CadenceCustom:
		return true
	}
	return false
}

// SubscriptionStatus is the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusActive: {SubscriptionStatusPaused, SubscriptionStatusCancelled, SubscriptionStatusExpired},
	SubscriptionStatusPaused: {SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired},
}

// IsValid reports whether s is a known status
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled || s == SubscriptionStatusExpired
}

// CanTransitionTo reports whether a subscription in state s may move to next
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Subscription represents a recurring delivery of one product
type Subscription struct {
	ID            uuid.UUID          `json:"id"`
	CustomerName  string             `json:"customer_name" example:"Anjali Menon"`
	Phone         string             `json:"phone" example:"+919847000000"`
	ZoneID        *uuid.UUID         `json:"zone_id,omitempty"`
	Product       string             `json:"product" example:"Toned milk 500ml"`
	Quantity      int                `json:"quantity" example:"2"`
	UnitPrice     decimal.Decimal    `json:"unit_price" swaggertype:"string" example:"27.50"`
	StartDate     Date               `json:"start_date" swaggertype:"string" example:"2024-01-10"`
	Cadence       Cadence            `json:"cadence" example:"daily"`
	Weekdays      []time.Weekday     `json:"weekdays" swaggertype:"array,integer"`
	VacationStart *Date              `json:"vacation_start,omitempty" swaggertype:"string"`
	VacationEnd   *Date              `json:"vacation_end,omitempty" swaggertype:"string"`
	Status        SubscriptionStatus `json:"status" example:"active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Vacation returns the vacation hold range. ok is false when no hold is set
// or when the range is inverted.
func (s *Subscription) Vacation() (start, end Date, ok bool) {
	if s.VacationStart == nil || s.VacationEnd == nil {
		return Date{}, Date{}, false
	}
	if s.VacationEnd.Before(*s.VacationStart) {
		return Date{}, Date{}, false
	}
	return *s.VacationStart, *s.VacationEnd, true
}

// IsActive reports whether the subscription currently produces deliveries
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// CreateSubscriptionRequest represents the request to create a subscription
type CreateSubscriptionRequest struct {
	CustomerName string          `json:"customer_name" binding:"required,min=2,max=100,nospaces"`
	Phone        string          `json:"phone" binding:"omitempty,e164"`
	ZoneID       *uuid.UUID      `json:"zone_id"`
	Product      string          `json:"product" binding:"required,max=100,nospaces"`
	Quantity     int             `json:"quantity" binding:"required,min=1,max=100"`
	UnitPrice    decimal.Decimal `json:"unit_price" swaggertype:"string"`
	StartDate    Date            `json:"start_date" swaggertype:"string"`
	Cadence      Cadence         `json:"cadence" binding:"required,cadence"`
	Weekdays     []int           `json:"weekdays" binding:"omitempty,dive,weekday"`
}

// UpdateSubscriptionRequest represents the request to update a subscription.
// Status and vacation have their own endpoints.
type UpdateSubscriptionRequest = CreateSubscriptionRequest

// Apply copies the request fields onto sub
func (r *CreateSubscriptionRequest) Apply(sub *Subscription) {
	sub.CustomerName = r.CustomerName
	sub.Phone = r.Phone
	sub.ZoneID = r.ZoneID
	sub.Product = r.Product
	sub.Quantity = r.Quantity
	sub.UnitPrice = r.UnitPrice
	sub.StartDate = r.StartDate
	sub.Cadence = r.Cadence.Normalize()
	sub.Weekdays = make([]time.Weekday, 0, len(r.Weekdays))
	for _, d := range r.Weekdays {
		sub.Weekdays = append(sub.Weekdays, time.Weekday(d))
	}
}

// UpdateSubscriptionStatusRequest represents a status change
type UpdateSubscriptionStatusRequest struct {
	Status SubscriptionStatus `json:"status" binding:"required,oneof=active paused cancelled expired" example:"paused"`
}

// VacationRequest sets an inclusive vacation hold
type VacationRequest struct {
	Start Date `json:"start" swaggertype:"string" example:"2024-01-15"`
	End   Date `json:"end" swaggertype:"string" example:"2024-01-20"`
}
