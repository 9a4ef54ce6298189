package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, "  - "+err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n%s", len(e), strings.Join(msgs, "\n"))
}

// Validate checks the configuration and returns every problem found, or nil
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if c.Auth.JWTSecret == "" {
		add("JWT_SECRET", "required")
	}
	if c.Auth.AccessTokenDuration <= 0 {
		add("ACCESS_TOKEN_DURATION", "must be positive")
	}
	if c.RateLimit.Requests <= 0 {
		add("RATE_LIMIT_REQUESTS", "must be positive")
	}
	if c.RateLimit.Window <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		add("RATE_LIMIT_BURST", "must be positive")
	}
	if c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "text" {
		add("LOG_FORMAT", fmt.Sprintf("must be 'json' or 'text', got %q", c.Log.Format))
	}
	if c.Schedule.LookaheadDays <= 0 {
		add("SCHEDULE_LOOKAHEAD_DAYS", "must be positive")
	}
	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			add("SCHEDULE_TIMEZONE", fmt.Sprintf("unknown time zone: %v", err))
		}
	}
	if c.Jobs.DeliveryLeadDays < 0 {
		add("JOB_DELIVERY_LEAD_DAYS", "must not be negative")
	}
	if _, err := cron.ParseStandard(c.Jobs.DeliveryRunSchedule); err != nil {
		add("JOB_DELIVERY_RUN_SCHEDULE", fmt.Sprintf("invalid cron spec: %v", err))
	}
	if _, err := cron.ParseStandard(c.Jobs.TokenCleanupSchedule); err != nil {
		add("JOB_TOKEN_CLEANUP_SCHEDULE", fmt.Sprintf("invalid cron spec: %v", err))
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		add("ADMIN_PASSWORD", "admin username and password must be set together")
	}
	if c.Admin.Password != "" && len(c.Admin.Password) < 8 {
		add("ADMIN_PASSWORD", "must be at least 8 characters")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
