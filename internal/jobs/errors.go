package jobs

import "github.com/cockroachdb/errors"

var (
	// ErrJobNotFound is returned when a job cannot be found by name
	ErrJobNotFound = errors.New("job not found")
	// ErrJobDisabled is returned when a disabled job is run manually
	ErrJobDisabled = errors.New("job is disabled")
)
