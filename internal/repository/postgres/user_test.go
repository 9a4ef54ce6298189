package postgres_test

import (
	"context"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"milkroute/internal/repository/postgres/integration"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	admin := tc.CreateTestUser("root", "password123", true)
	staff := tc.CreateTestUser("rider", "password123", false)

	t.Run("GetByUsername loads the role", func(t *testing.T) {
		user, err := tc.UserRepo.GetByUsername(ctx, "root")
		require.NoError(t, err)
		require.Equal(t, admin.ID, user.ID)
		require.NotNil(t, user.Role)
		require.True(t, user.IsAdmin())

		user, err = tc.UserRepo.GetByID(ctx, staff.ID)
		require.NoError(t, err)
		require.False(t, user.IsAdmin())
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		dup := &models.User{Username: "root", Password: "x", RoleID: admin.RoleID}
		err := tc.UserRepo.Create(ctx, dup)
		require.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("UpdateLastLogin", func(t *testing.T) {
		at := time.Date(2024, 1, 10, 7, 30, 0, 0, time.UTC)
		require.NoError(t, tc.UserRepo.UpdateLastLogin(ctx, staff.ID, at))

		user, err := tc.UserRepo.GetByID(ctx, staff.ID)
		require.NoError(t, err)
		require.NotNil(t, user.LastLoginAt)
		require.True(t, at.Equal(*user.LastLoginAt))

		err = tc.UserRepo.UpdateLastLogin(ctx, uuid.New(), at)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := tc.UserRepo.GetByUsername(ctx, "ghost")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestRoleRepository(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	roles, err := tc.RoleRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	admin, err := tc.RoleRepo.GetByName(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.True(t, admin.IsAdminGroup)
	require.True(t, admin.IsProtected)

	byID, err := tc.RoleRepo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, admin.Name, byID.Name)

	_, err = tc.RoleRepo.GetByName(ctx, "auditor")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
