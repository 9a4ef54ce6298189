// Package schedule computes subscription delivery calendars.
//
// Every function here is pure: the caller supplies the subscription snapshot
// and the reference time, and all dates are compared as civil dates in the
// location of that reference time.
package schedule

import (
	"iter"
	"milkroute/internal/models"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Bounds of a month schedule request
const (
	MinYear = 1970
	MaxYear = 2100
)

// DefaultLookaheadDays bounds the forward scan of Deliveries (two years)
const DefaultLookaheadDays = 730

var (
	// ErrInvalidPeriod is returned for a month outside 1-12 or a year outside
	// MinYear-MaxYear
	ErrInvalidPeriod = errors.New("invalid schedule period")
	// ErrMissingSubscription is returned when no subscription is supplied
	ErrMissingSubscription = errors.New("subscription is required")
)

// Calculator produces month calendars and upcoming delivery dates
type Calculator struct {
	lookaheadDays int
}

// NewCalculator creates a calculator whose forward scans cover today and the
// following lookaheadDays days. Non-positive values use DefaultLookaheadDays.
func NewCalculator(lookaheadDays int) *Calculator {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	return &Calculator{lookaheadDays: lookaheadDays}
}

// MonthSchedule returns one DaySchedule per day of the given month
func (c *Calculator) MonthSchedule(sub *models.Subscription, month, year int, now time.Time) (*models.Schedule, error) {
	if sub == nil {
		return nil, ErrMissingSubscription
	}
	if month < 1 || month > 12 {
		return nil, errors.Wrapf(ErrInvalidPeriod, "month %d is outside 1-12", month)
	}
	if year < MinYear || year > MaxYear {
		return nil, errors.Wrapf(ErrInvalidPeriod, "year %d is outside %d-%d", year, MinYear, MaxYear)
	}

	today := models.DateOf(now)
	first := models.NewDate(year, time.Month(month), 1)
	daysInMonth := first.DaysInMonth()

	sched := &models.Schedule{
		SubscriptionID: sub.ID,
		Month:          month,
		Year:           year,
		FirstDayOffset: int(first.Weekday()),
		Days:           make([]models.DaySchedule, 0, daysInMonth),
	}

	for i := 0; i < daysInMonth; i++ {
		date := first.AddDays(i)
		day := models.DaySchedule{
			Date:          date,
			Day:           date.Day(),
			Weekday:       date.Weekday(),
			IsDeliveryDay: IsDeliveryDay(sub, date),
			IsVacationDay: IsVacationDay(sub, date),
			IsToday:       date.Equal(today),
			IsPast:        date.Before(today),
		}
		if day.IsDeliveryDay {
			sched.TotalDeliveries++
		}
		if day.IsVacationDay {
			sched.VacationDays++
		}
		sched.Days = append(sched.Days, day)
	}

	units := decimal.NewFromInt(int64(sched.TotalDeliveries) * int64(sub.Quantity))
	sched.EstimatedAmount = sub.UnitPrice.Mul(units)

	return sched, nil
}

// Deliveries yields delivery dates in order starting today. The sequence
// ends after the lookahead horizon, so a subscription that never delivers
// yields nothing. Each call starts a fresh scan.
func (c *Calculator) Deliveries(sub *models.Subscription, now time.Time) iter.Seq[models.Date] {
	return func(yield func(models.Date) bool) {
		if sub == nil || !sub.IsActive() {
			return
		}
		today := models.DateOf(now)
		for i := 0; i <= c.lookaheadDays; i++ {
			date := today.AddDays(i)
			if !IsDeliveryDay(sub, date) {
				continue
			}
			if !yield(date) {
				return
			}
		}
	}
}

// UpcomingDeliveries returns at most count delivery dates starting today
func (c *Calculator) UpcomingDeliveries(sub *models.Subscription, now time.Time, count int) []models.Date {
	if count <= 0 {
		return []models.Date{}
	}
	dates := make([]models.Date, 0, count)
	for date := range c.Deliveries(sub, now) {
		dates = append(dates, date)
		if len(dates) == count {
			break
		}
	}
	return dates
}

// IsDeliveryDay reports whether sub delivers on date
func IsDeliveryDay(sub *models.Subscription, date models.Date) bool {
	if sub == nil || !sub.IsActive() {
		return false
	}
	if date.Before(sub.StartDate) {
		return false
	}
	if IsVacationDay(sub, date) {
		return false
	}
	return matchesCadence(sub, date)
}

// IsVacationDay reports whether date falls inside sub's vacation hold,
// regardless of status or cadence
func IsVacationDay(sub *models.Subscription, date models.Date) bool {
	if sub == nil {
		return false
	}
	start, end, ok := sub.Vacation()
	if !ok {
		return false
	}
	return !date.Before(start) && !date.After(end)
}
