package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names seeded by the initial migration
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Role represents a role in the system
type Role struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	IsProtected  bool      `json:"is_protected" db:"is_protected"`
	IsAdminGroup bool      `json:"is_admin_group" db:"is_admin_group"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
