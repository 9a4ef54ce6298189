package repository

import (
	"context"
	"milkroute/internal/models"

	"github.com/google/uuid"
)

// RoleRepository defines the interface for role lookups. Roles are seeded by
// migrations and are not managed through the API.
type RoleRepository interface {
	Repository
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
}
