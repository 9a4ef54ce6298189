package postgres_test

import (
	"context"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/repository/postgres/integration"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDeliveryRepository_CreateBatch(t *testing.T) {
	tc := integration.NewTestContext(t)
	zone := tc.CreateTestZone("DLV", nil, "682030")
	sub := tc.CreateTestSubscription(&zone.ID, models.NewDate(2024, 1, 1))

	batch := []models.Delivery{
		{
			SubscriptionID: sub.ID,
			ZoneID:         sub.ZoneID,
			DeliveryDate:   models.NewDate(2024, 1, 11),
			Product:        sub.Product,
			Quantity:       2,
			Amount:         decimal.RequireFromString("55.00"),
		},
		{
			SubscriptionID: sub.ID,
			ZoneID:         sub.ZoneID,
			DeliveryDate:   models.NewDate(2024, 1, 12),
			Product:        sub.Product,
			Quantity:       2,
			Amount:         decimal.RequireFromString("55.00"),
		},
	}

	created, err := tc.DeliveryRepo.CreateBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	// Running the same batch again is a no-op
	created, err = tc.DeliveryRepo.CreateBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Zero(t, created)

	created, err = tc.DeliveryRepo.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, created)

	deliveries, err := tc.DeliveryRepo.ListByDate(context.Background(), models.NewDate(2024, 1, 11), repository.DeliveryFilter{})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	require.Equal(t, models.DeliveryStatusScheduled, deliveries[0].Status)
	require.True(t, decimal.RequireFromString("55").Equal(deliveries[0].Amount))
	require.Equal(t, zone.ID, *deliveries[0].ZoneID)
}

func TestDeliveryRepository_CreateBatchRollsBack(t *testing.T) {
	tc := integration.NewTestContext(t)
	sub := tc.CreateTestSubscription(nil, models.NewDate(2024, 1, 1))

	batch := []models.Delivery{
		{SubscriptionID: sub.ID, DeliveryDate: models.NewDate(2024, 2, 1), Product: "Curd", Quantity: 1, Amount: decimal.NewFromInt(30)},
		{SubscriptionID: uuid.New(), DeliveryDate: models.NewDate(2024, 2, 1), Product: "Curd", Quantity: 1, Amount: decimal.NewFromInt(30)},
	}

	_, err := tc.DeliveryRepo.CreateBatch(context.Background(), batch)
	require.Error(t, err)

	deliveries, err := tc.DeliveryRepo.ListByDate(context.Background(), models.NewDate(2024, 2, 1), repository.DeliveryFilter{})
	require.NoError(t, err)
	require.Empty(t, deliveries)
}

func TestDeliveryRepository_ListAndUpdateStatus(t *testing.T) {
	tc := integration.NewTestContext(t)
	north := tc.CreateTestZone("NORTH", nil, "682001")
	south := tc.CreateTestZone("SOUTH", nil, "682002")
	date := models.NewDate(2024, 3, 5)

	northDelivery := tc.CreateTestDelivery(tc.CreateTestSubscription(&north.ID, date), date)
	tc.CreateTestDelivery(tc.CreateTestSubscription(&south.ID, date), date)

	byZone, err := tc.DeliveryRepo.ListByDate(context.Background(), date, repository.DeliveryFilter{ZoneID: &north.ID})
	require.NoError(t, err)
	require.Len(t, byZone, 1)
	require.Equal(t, northDelivery.ID, byZone[0].ID)

	updated, err := tc.DeliveryRepo.UpdateStatus(context.Background(), northDelivery.ID, models.DeliveryStatusDelivered)
	require.NoError(t, err)
	require.Equal(t, models.DeliveryStatusDelivered, updated.Status)

	delivered := models.DeliveryStatusDelivered
	byStatus, err := tc.DeliveryRepo.ListByDate(context.Background(), date, repository.DeliveryFilter{Status: &delivered})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)

	_, err = tc.DeliveryRepo.UpdateStatus(context.Background(), uuid.New(), models.DeliveryStatusMissed)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
