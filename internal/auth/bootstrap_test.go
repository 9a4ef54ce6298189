package auth_test

import (
	"context"
	"milkroute/internal/config"
	"milkroute/internal/models"
	"milkroute/internal/testutil"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdmin(t *testing.T) {
	tests := []struct {
		name      string
		admin     config.AdminConfig
		existing  []models.User
		wantErr   string
		wantUsers int
	}{
		{
			name:      "Not Configured",
			admin:     config.AdminConfig{},
			wantUsers: 0,
		},
		{
			name:      "Creates Admin",
			admin:     config.AdminConfig{Username: "admin", Email: "ops@milkroute.test", Password: "s3cret-pass"},
			wantUsers: 1,
		},
		{
			name:      "Existing Admin Untouched",
			admin:     config.AdminConfig{Username: "admin", Password: "s3cret-pass"},
			existing:  []models.User{{ID: uuid.New(), Username: "admin"}},
			wantUsers: 1,
		},
		{
			name:      "Invalid Email",
			admin:     config.AdminConfig{Username: "admin", Email: "not-an-email", Password: "s3cret-pass"},
			wantErr:   "invalid admin email",
			wantUsers: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			users := testutil.NewFakeUserRepository(tt.existing...)
			roles := testutil.NewFakeRoleRepository()
			svc := newService(nil)

			err := svc.EnsureAdmin(ctx, tt.admin, users, roles)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			u, err := users.GetByUsername(ctx, "admin")
			if tt.wantUsers == 0 {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.existing == nil {
				assert.Equal(t, roles.Admin.ID, u.RoleID)
				assert.NoError(t, svc.ComparePasswords(u.Password, tt.admin.Password))
			}
		})
	}
}
