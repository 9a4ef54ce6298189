package testutil

import (
	"milkroute/internal/models"
	"time"
)

// String returns a pointer to the given string
func String(s string) *string {
	return &s
}

// Bool returns a pointer to the given bool
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to the given int
func Int(i int) *int {
	return &i
}

// Float returns a pointer to the given float64
func Float(f float64) *float64 {
	return &f
}

// Date returns a pointer to the given calendar date
func Date(year int, month time.Month, day int) *models.Date {
	d := models.NewDate(year, month, day)
	return &d
}
