package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DaySchedule is one calendar day of a subscription's month schedule
type DaySchedule struct {
	Date          Date         `json:"date" swaggertype:"string" example:"2024-01-10"`
	Day           int          `json:"day" example:"10"`
	Weekday       time.Weekday `json:"weekday" swaggertype:"integer" example:"3"`
	IsDeliveryDay bool         `json:"is_delivery_day"`
	IsVacationDay bool         `json:"is_vacation_day"`
	IsToday       bool         `json:"is_today"`
	IsPast        bool         `json:"is_past"`
}

// Schedule is the delivery calendar of a subscription for one month
type Schedule struct {
	SubscriptionID  uuid.UUID       `json:"subscription_id"`
	Month           int             `json:"month" example:"1"`
	Year            int             `json:"year" example:"2024"`
	FirstDayOffset  int             `json:"first_day_offset" example:"1"`
	Days            []DaySchedule   `json:"days"`
	TotalDeliveries int             `json:"total_deliveries" example:"22"`
	VacationDays    int             `json:"vacation_days" example:"0"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount" swaggertype:"string" example:"1210.00"`
}

// UpcomingDeliveriesResponse lists the next delivery dates of a subscription
type UpcomingDeliveriesResponse struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Dates          []Date    `json:"dates" swaggertype:"array,string"`
}
