package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a back-office account
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"-"`
	Email       *string    `json:"email"`
	RoleID      uuid.UUID  `json:"role_id"`
	Role        *Role      `json:"role,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user has an admin role
func (u *User) IsAdmin() bool {
	return u.Role != nil && u.Role.IsAdminGroup
}
