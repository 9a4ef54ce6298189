package repository

import (
	"context"
	"milkroute/internal/models"

	"github.com/google/uuid"
)

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	Repository
	Create(ctx context.Context, sub *models.Subscription) error
	Update(ctx context.Context, sub *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context, filter SubscriptionFilter) ([]models.Subscription, error)
	ListActive(ctx context.Context) ([]models.Subscription, error)
	// UpdateStatus moves the subscription to status, returning
	// ErrInvalidTransition when the current status does not allow it
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubscriptionStatus) (*models.Subscription, error)
	SetVacation(ctx context.Context, id uuid.UUID, start, end models.Date) (*models.Subscription, error)
	ClearVacation(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
}

// SubscriptionFilter defines the filter options for listing subscriptions
type SubscriptionFilter struct {
	Search *string                    // Search by customer name or phone
	Status *models.SubscriptionStatus // Filter by status
	ZoneID *uuid.UUID                 // Filter by zone
	Limit  *int                       // Limit results
	Offset *int                       // Offset results
}
