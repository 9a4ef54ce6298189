package repository

import (
	"context"
	"milkroute/internal/models"

	"github.com/google/uuid"
)

// ZoneRepository defines the interface for zone-related database operations
type ZoneRepository interface {
	Repository
	Create(ctx context.Context, zone *models.Zone) error
	Update(ctx context.Context, zone *models.Zone) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Zone, error)
	GetByCode(ctx context.Context, code string) (*models.Zone, error)
	List(ctx context.Context, filter ZoneFilter) ([]models.Zone, error)
	// ListActive returns every active zone ordered by creation time, which
	// is the tie-break order used by serviceability checks
	ListActive(ctx context.Context) ([]models.Zone, error)
}

// ZoneFilter defines the filter options for listing zones
type ZoneFilter struct {
	Search   *string // Search by name or code
	IsActive *bool   // Filter by active flag
	Vertical *string // Only zones serving this vertical
	Limit    *int    // Limit results
	Offset   *int    // Offset results
}
