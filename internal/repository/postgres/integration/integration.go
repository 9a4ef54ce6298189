// Package integration provides utilities for postgres integration testing
package integration

import (
	"context"
	"milkroute/internal/models"
	"milkroute/internal/testutil"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestContext wraps testutil.TestContext to provide postgres-specific test utilities
type TestContext struct {
	*testutil.TestContext
}

// NewTestContext creates a new test context for postgres integration tests
func NewTestContext(t *testing.T) *TestContext {
	return &TestContext{TestContext: testutil.NewTestContext(t)}
}

// CleanupTestUsers removes all test users
func (tc *TestContext) CleanupTestUsers() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM users")
}

// CleanupTestZones removes all zones and everything scheduled against them
func (tc *TestContext) CleanupTestZones() {
	tc.T.Helper()
	tc.ExecuteSQL("DELETE FROM deliveries")
	tc.ExecuteSQL("DELETE FROM subscriptions")
	tc.ExecuteSQL("DELETE FROM zones")
}

// CreateTestDelivery schedules one delivery for sub on date
func (tc *TestContext) CreateTestDelivery(sub *models.Subscription, date models.Date) *models.Delivery {
	tc.T.Helper()

	_, err := tc.DeliveryRepo.CreateBatch(context.Background(), []models.Delivery{{
		SubscriptionID: sub.ID,
		ZoneID:         sub.ZoneID,
		DeliveryDate:   date,
		Product:        sub.Product,
		Quantity:       sub.Quantity,
		Amount:         sub.UnitPrice.Mul(decimal.NewFromInt(int64(sub.Quantity))),
	}})
	require.NoError(tc.T, err)

	var id uuid.UUID
	err = tc.DB.QueryRowContext(context.Background(),
		"SELECT id FROM deliveries WHERE subscription_id = $1 AND delivery_date = $2",
		sub.ID, date,
	).Scan(&id)
	require.NoError(tc.T, err)

	delivery, err := tc.DeliveryRepo.GetByID(context.Background(), id)
	require.NoError(tc.T, err)
	return delivery
}
