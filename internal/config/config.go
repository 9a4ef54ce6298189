package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // embedded zone database for containers without one
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// RateLimit contains per-client request limits
	RateLimit RateLimitConfig
	// Log contains logger configuration
	Log LogConfig
	// Zones contains zone directory configuration
	Zones ZonesConfig
	// Schedule contains delivery calendar configuration
	Schedule ScheduleConfig
	// Jobs contains background job configuration
	Jobs JobsConfig
	// Admin is the account created on first start
	Admin AdminConfig
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign JWT tokens
	JWTSecret string
	// AccessTokenDuration is the lifetime of an access token
	AccessTokenDuration time.Duration
	// RefreshTokenDuration is the lifetime of a refresh token
	RefreshTokenDuration time.Duration
}

// RateLimitConfig contains per-IP rate limiting settings
type RateLimitConfig struct {
	Requests int           // Number of requests allowed per window
	Window   time.Duration // Refill window
	Burst    int           // Maximum burst size
	Cleanup  time.Duration // How often idle limiters are dropped
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string
	Format string
}

// ZonesConfig contains zone directory settings
type ZonesConfig struct {
	// CacheTTL is how long the active zone snapshot is reused
	CacheTTL time.Duration
}

// ScheduleConfig contains delivery calendar settings
type ScheduleConfig struct {
	// LookaheadDays bounds upcoming delivery scans
	LookaheadDays int
	// Timezone is the IANA zone in which calendar days are counted
	Timezone string
}

// Location resolves Timezone, falling back to UTC
func (s ScheduleConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// JobsConfig contains background job settings
type JobsConfig struct {
	// DeliveryRunSchedule is the cron spec of the delivery run
	DeliveryRunSchedule string
	// DeliveryRunEnabled toggles the scheduled delivery run
	DeliveryRunEnabled bool
	// DeliveryLeadDays is how many days ahead the delivery run plans
	DeliveryLeadDays int
	// TokenCleanupSchedule is the cron spec of the refresh token cleanup
	TokenCleanupSchedule string
	// TokenCleanupEnabled toggles the refresh token cleanup
	TokenCleanupEnabled bool
}

// AdminConfig holds the bootstrap administrator credentials
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port:            getEnvOrDefault("API_PORT", "8080"),
		ShutdownTimeout: getEnvAsDuration("API_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "milkroute"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("DB_MIGRATIONS_PATH", "migrations"),
	}
	c.Auth = AuthConfig{
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
		RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
	}
	c.RateLimit = RateLimitConfig{
		Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 1000),
		Window:   time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
		Burst:    getEnvAsInt("RATE_LIMIT_BURST", 50),
		Cleanup:  getEnvAsDuration("RATE_LIMIT_CLEANUP", time.Hour),
	}
	c.Log = LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}
	c.Zones = ZonesConfig{
		CacheTTL: getEnvAsDuration("ZONES_CACHE_TTL", 5*time.Minute),
	}
	c.Schedule = ScheduleConfig{
		LookaheadDays: getEnvAsInt("SCHEDULE_LOOKAHEAD_DAYS", 730),
		Timezone:      getEnvOrDefault("SCHEDULE_TIMEZONE", "Asia/Kolkata"),
	}
	c.Jobs = JobsConfig{
		DeliveryRunSchedule:  getEnvOrDefault("JOB_DELIVERY_RUN_SCHEDULE", "0 20 * * *"),
		DeliveryRunEnabled:   getEnvAsBool("JOB_DELIVERY_RUN_ENABLED", true),
		DeliveryLeadDays:     getEnvAsInt("JOB_DELIVERY_LEAD_DAYS", 1),
		TokenCleanupSchedule: getEnvOrDefault("JOB_TOKEN_CLEANUP_SCHEDULE", "0 3 * * *"),
		TokenCleanupEnabled:  getEnvAsBool("JOB_TOKEN_CLEANUP_ENABLED", true),
	}
	c.Admin = AdminConfig{
		Username: os.Getenv("ADMIN_USERNAME"),
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}

	return c.Validate()
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvAsDuration accepts Go duration strings such as "90s" or "15m"
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
