package repository

import (
	"context"
	"milkroute/internal/models"

	"github.com/google/uuid"
)

// DeliveryRepository defines the interface for delivery persistence
type DeliveryRepository interface {
	Repository
	// CreateBatch inserts the deliveries, skipping any subscription and date
	// pair that already exists, and returns how many rows were inserted
	CreateBatch(ctx context.Context, deliveries []models.Delivery) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	ListByDate(ctx context.Context, date models.Date, filter DeliveryFilter) ([]models.Delivery, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.DeliveryStatus) (*models.Delivery, error)
}

// DeliveryFilter narrows a day's deliveries
type DeliveryFilter struct {
	ZoneID *uuid.UUID
	Status *models.DeliveryStatus
}
