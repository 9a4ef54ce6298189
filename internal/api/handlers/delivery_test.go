package handlers_test

import (
	"context"
	"milkroute/internal/api/handlers"
	"milkroute/internal/models"
	"milkroute/internal/testutil"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDeliveries(t *testing.T, repo *testutil.FakeDeliveryRepository, zoneID uuid.UUID) {
	t.Helper()

	row := func(date models.Date, zone *uuid.UUID) models.Delivery {
		return models.Delivery{
			SubscriptionID: uuid.New(),
			ZoneID:         zone,
			DeliveryDate:   date,
			Product:        "Toned milk 500ml",
			Quantity:       2,
			Amount:         decimal.NewFromInt(55),
		}
	}

	created, err := repo.CreateBatch(context.Background(), []models.Delivery{
		row(models.NewDate(2024, 1, 10), &zoneID),
		row(models.NewDate(2024, 1, 10), nil),
		row(models.NewDate(2024, 1, 11), &zoneID),
	})
	require.NoError(t, err)
	require.Equal(t, 3, created)
}

func newDeliveryRouter(t *testing.T, repo *testutil.FakeDeliveryRepository) *gin.Engine {
	h := handlers.NewDeliveryHandler(repo, kolkata(t))
	// 01:00 on 2024-01-11 in Kolkata, still the 10th in UTC
	h.SetClock(fixedClock(time.Date(2024, 1, 10, 19, 30, 0, 0, time.UTC)))

	r := gin.New()
	r.GET("/deliveries", h.ListDeliveries)
	r.PUT("/deliveries/:id/status", h.UpdateDeliveryStatus)
	return r
}

func TestDeliveryHandler_ListDeliveries(t *testing.T) {
	zoneID := uuid.New()
	repo := testutil.NewFakeDeliveryRepository()
	seedDeliveries(t, repo, zoneID)
	r := newDeliveryRouter(t, repo)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{name: "Today in the configured zone", query: "", wantStatus: http.StatusOK, wantCount: 1},
		{name: "Explicit date", query: "?date=2024-01-10", wantStatus: http.StatusOK, wantCount: 2},
		{name: "By zone", query: "?date=2024-01-10&zone_id=" + zoneID.String(), wantStatus: http.StatusOK, wantCount: 1},
		{name: "By status", query: "?date=2024-01-10&status=delivered", wantStatus: http.StatusOK, wantCount: 0},
		{name: "Unknown status", query: "?date=2024-01-10&status=lost", wantStatus: http.StatusBadRequest},
		{name: "No deliveries", query: "?date=2024-02-01", wantStatus: http.StatusOK, wantCount: 0},
		{name: "Invalid date", query: "?date=tomorrow", wantStatus: http.StatusBadRequest},
		{name: "Invalid zone", query: "?zone_id=42", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodGet, "/deliveries"+tt.query, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Len(t, decode[[]models.Delivery](t, w), tt.wantCount)
			}
		})
	}
}

func TestDeliveryHandler_UpdateDeliveryStatus(t *testing.T) {
	repo := testutil.NewFakeDeliveryRepository()
	seedDeliveries(t, repo, uuid.New())
	target := repo.All()[0]
	r := newDeliveryRouter(t, repo)

	tests := []struct {
		name       string
		id         string
		status     string
		wantStatus int
	}{
		{name: "Delivered", id: target.ID.String(), status: "delivered", wantStatus: http.StatusOK},
		{name: "Missed", id: target.ID.String(), status: "missed", wantStatus: http.StatusOK},
		{name: "Unknown status", id: target.ID.String(), status: "lost", wantStatus: http.StatusBadRequest},
		{name: "Not Found", id: uuid.NewString(), status: "delivered", wantStatus: http.StatusNotFound},
		{name: "Invalid ID", id: "abc", status: "delivered", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPut, "/deliveries/"+tt.id+"/status", map[string]string{"status": tt.status})
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusOK {
				got := decode[models.Delivery](t, w)
				assert.Equal(t, models.DeliveryStatus(tt.status), got.Status)
			}
		})
	}
}
