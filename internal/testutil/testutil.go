// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"database/sql"
	"milkroute/internal/auth"
	"milkroute/internal/config"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/repository/postgres"
	"milkroute/internal/testutil/db"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// LoadTestConfig loads the test configuration
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return db.LoadTestConfig(t)
}

// TestContext holds the dependencies of a database backed test
type TestContext struct {
	T                *testing.T
	DB               *sql.DB
	Config           *config.Config
	UserRepo         repository.UserRepository
	RoleRepo         repository.RoleRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ZoneRepo         repository.ZoneRepository
	SubscriptionRepo repository.SubscriptionRepository
	DeliveryRepo     repository.DeliveryRepository
	AuthService      *auth.Service
}

// NewTestContext creates a new test context backed by a freshly migrated
// database. It skips the test when no test database is configured.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	cfg := LoadTestConfig(t)
	testDB := db.SetupTestDB(t, &cfg.Database)

	refreshTokenRepo := postgres.NewRefreshTokenRepository(testDB)

	tc := &TestContext{
		T:                t,
		DB:               testDB,
		Config:           cfg,
		UserRepo:         postgres.NewUserRepository(testDB),
		RoleRepo:         postgres.NewRoleRepository(testDB),
		RefreshTokenRepo: refreshTokenRepo,
		ZoneRepo:         postgres.NewZoneRepository(testDB),
		SubscriptionRepo: postgres.NewSubscriptionRepository(testDB),
		DeliveryRepo:     postgres.NewDeliveryRepository(testDB),
		AuthService:      auth.NewService(cfg.Auth, refreshTokenRepo),
	}

	t.Cleanup(func() {
		tc.cleanup()
	})

	return tc
}

// cleanup performs necessary cleanup after tests
func (tc *TestContext) cleanup() {
	if tc.DB != nil {
		if err := db.CleanupTestDB(tc.DB); err != nil {
			tc.T.Errorf("Failed to cleanup test database: %v", err)
		}
		tc.DB.Close()
	}
}

// CreateTestUser creates a test user with the given details and returns the created user
func (tc *TestContext) CreateTestUser(username, password string, isAdmin bool) *models.User {
	tc.T.Helper()

	roleName := models.RoleStaff
	if isAdmin {
		roleName = models.RoleAdmin
	}
	role, err := tc.RoleRepo.GetByName(context.Background(), roleName)
	require.NoError(tc.T, err, "Failed to get role")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(tc.T, err, "Failed to hash password")

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		RoleID:   role.ID,
		Role:     role,
	}
	err = tc.UserRepo.Create(context.Background(), user)
	require.NoError(tc.T, err, "Failed to create test user")

	return user
}

// CreateTestZone creates an active zone with the given code and pincodes
func (tc *TestContext) CreateTestZone(code string, boundary models.Polygon, pincodes ...string) *models.Zone {
	tc.T.Helper()

	if pincodes == nil {
		pincodes = []string{}
	}
	zone := &models.Zone{
		Name:      "Zone " + code,
		Code:      code,
		Boundary:  boundary,
		Pincodes:  pincodes,
		Verticals: []string{"dairy"},
		IsActive:  true,
	}
	err := tc.ZoneRepo.Create(context.Background(), zone)
	require.NoError(tc.T, err, "Failed to create test zone")

	return zone
}

// CreateTestSubscription creates an active daily subscription
func (tc *TestContext) CreateTestSubscription(zoneID *uuid.UUID, start models.Date) *models.Subscription {
	tc.T.Helper()

	sub := NewSubscription(start)
	sub.ZoneID = zoneID
	err := tc.SubscriptionRepo.Create(context.Background(), sub)
	require.NoError(tc.T, err, "Failed to create test subscription")

	return sub
}

// ExecuteSQL executes a raw SQL query for testing
func (tc *TestContext) ExecuteSQL(query string, args ...interface{}) {
	tc.T.Helper()
	_, err := tc.DB.ExecContext(context.Background(), query, args...)
	require.NoError(tc.T, err)
}

// NewSubscription returns an unsaved active daily subscription
func NewSubscription(start models.Date) *models.Subscription {
	return &models.Subscription{
		CustomerName: "Test Customer",
		Phone:        "+919800000000",
		Product:      "Toned milk 500ml",
		Quantity:     1,
		UnitPrice:    decimal.RequireFromString("27.50"),
		StartDate:    start,
		Cadence:      models.CadenceDaily,
		Weekdays:     []time.Weekday{},
		Status:       models.SubscriptionStatusActive,
	}
}
