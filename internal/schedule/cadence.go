package schedule

import (
	"milkroute/internal/models"

	"github.com/samber/lo"
)

// matchesCadence assumes date is on or after the start date
func matchesCadence(sub *models.Subscription, date models.Date) bool {
	switch sub.Cadence {
	case models.CadenceDaily:
		return true
	case models.CadenceAlternateDay:
		return date.DaysSince(sub.StartDate)%2 == 0
	case models.CadenceWeekly:
		// a weekly plan with no chosen weekday repeats on the start weekday
		if len(sub.Weekdays) == 0 {
			return date.Weekday() == sub.StartDate.Weekday()
		}
		return lo.Contains(sub.Weekdays, date.Weekday())
	case models.CadenceCustom:
		return lo.Contains(sub.Weekdays, date.Weekday())
	default:
		return false
	}
}
