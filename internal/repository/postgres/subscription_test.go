package postgres_test

import (
	"context"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/repository/postgres/integration"
	"milkroute/internal/testutil"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	tc := integration.NewTestContext(t)
	zone := tc.CreateTestZone("SUB-Z", nil, "682030")

	sub := testutil.NewSubscription(models.NewDate(2024, 1, 10))
	sub.ZoneID = &zone.ID
	sub.Cadence = models.CadenceCustom
	sub.Weekdays = []time.Weekday{time.Monday, time.Thursday}
	sub.UnitPrice = decimal.RequireFromString("27.50")
	require.NoError(t, tc.SubscriptionRepo.Create(context.Background(), sub))
	require.NotEqual(t, uuid.Nil, sub.ID)

	stored, err := tc.SubscriptionRepo.GetByID(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Equal(t, zone.ID, *stored.ZoneID)
	require.Equal(t, models.NewDate(2024, 1, 10), stored.StartDate)
	require.Equal(t, []time.Weekday{time.Monday, time.Thursday}, stored.Weekdays)
	require.True(t, decimal.RequireFromString("27.5").Equal(stored.UnitPrice))
	require.Nil(t, stored.VacationStart)
	require.Equal(t, models.SubscriptionStatusActive, stored.Status)

	t.Run("Unknown Zone", func(t *testing.T) {
		missing := uuid.New()
		bad := testutil.NewSubscription(models.NewDate(2024, 1, 10))
		bad.ZoneID = &missing
		err := tc.SubscriptionRepo.Create(context.Background(), bad)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := tc.SubscriptionRepo.GetByID(context.Background(), uuid.New())
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSubscriptionRepository_UpdateStatus(t *testing.T) {
	tc := integration.NewTestContext(t)
	sub := tc.CreateTestSubscription(nil, models.NewDate(2024, 1, 1))

	steps := []struct {
		name    string
		status  models.SubscriptionStatus
		wantErr error
	}{
		{name: "Pause", status: models.SubscriptionStatusPaused},
		{name: "Resume", status: models.SubscriptionStatusActive},
		{name: "Cancel", status: models.SubscriptionStatusCancelled},
		{name: "Cancelled is terminal", status: models.SubscriptionStatusActive, wantErr: repository.ErrInvalidTransition},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			updated, err := tc.SubscriptionRepo.UpdateStatus(context.Background(), sub.ID, step.status)
			if step.wantErr != nil {
				require.ErrorIs(t, err, step.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, step.status, updated.Status)
		})
	}

	_, err := tc.SubscriptionRepo.UpdateStatus(context.Background(), uuid.New(), models.SubscriptionStatusPaused)
	require.ErrorIs(t, err, repository.ErrNotFound)

	active, err := tc.SubscriptionRepo.ListActive(context.Background())
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestSubscriptionRepository_Vacation(t *testing.T) {
	tc := integration.NewTestContext(t)
	sub := tc.CreateTestSubscription(nil, models.NewDate(2024, 1, 1))

	updated, err := tc.SubscriptionRepo.SetVacation(context.Background(), sub.ID,
		models.NewDate(2024, 1, 15), models.NewDate(2024, 1, 20))
	require.NoError(t, err)
	require.Equal(t, models.NewDate(2024, 1, 15), *updated.VacationStart)
	require.Equal(t, models.NewDate(2024, 1, 20), *updated.VacationEnd)

	cleared, err := tc.SubscriptionRepo.ClearVacation(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Nil(t, cleared.VacationStart)
	require.Nil(t, cleared.VacationEnd)

	_, err = tc.SubscriptionRepo.ClearVacation(context.Background(), uuid.New())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSubscriptionRepository_List(t *testing.T) {
	tc := integration.NewTestContext(t)
	zone := tc.CreateTestZone("LST", nil, "682030")

	inZone := tc.CreateTestSubscription(&zone.ID, models.NewDate(2024, 1, 1))
	paused := tc.CreateTestSubscription(nil, models.NewDate(2024, 1, 1))
	_, err := tc.SubscriptionRepo.UpdateStatus(context.Background(), paused.ID, models.SubscriptionStatusPaused)
	require.NoError(t, err)

	byZone, err := tc.SubscriptionRepo.List(context.Background(), repository.SubscriptionFilter{ZoneID: &zone.ID})
	require.NoError(t, err)
	require.Len(t, byZone, 1)
	require.Equal(t, inZone.ID, byZone[0].ID)

	status := models.SubscriptionStatusPaused
	byStatus, err := tc.SubscriptionRepo.List(context.Background(), repository.SubscriptionFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, paused.ID, byStatus[0].ID)

	search := "test cust"
	all, err := tc.SubscriptionRepo.List(context.Background(), repository.SubscriptionFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, all, 2)
}
