package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as minutes since midnight
type ClockTime int

const minutesPerDay = 24 * 60

// ParseClockTime parses a time of day in HH:MM form
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// ClockTimeOf returns the time of day of t in t's own location
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	m := int(c) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ServiceWindow is the part of the day during which a zone accepts orders.
// Start is inclusive and End exclusive. A window whose start is after its
// end wraps past midnight; equal bounds mean the zone never closes.
type ServiceWindow struct {
	Start ClockTime `json:"start" swaggertype:"string" example:"06:00"`
	End   ClockTime `json:"end" swaggertype:"string" example:"22:00"`
}

// Contains reports whether the time of day c falls inside the window
func (w ServiceWindow) Contains(c ClockTime) bool {
	switch {
	case w.Start == w.End:
		return true
	case w.Start < w.End:
		return c >= w.Start && c < w.End
	default:
		return c >= w.Start || c < w.End
	}
}
