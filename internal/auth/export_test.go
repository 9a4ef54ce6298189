package auth

import "time"

// SetClock replaces the service clock
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
