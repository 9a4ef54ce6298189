package postgres_test

import (
	"context"
	"milkroute/internal/repository"
	"milkroute/internal/repository/postgres/integration"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRepository_Create(t *testing.T) {
	tc := integration.NewTestContext(t)
	user := tc.CreateTestUser("test-user", "password123", false)

	tests := []struct {
		name    string
		userID  uuid.UUID
		wantErr error
	}{
		{
			name:   "Success",
			userID: user.ID,
		},
		{
			name:    "Non-existent User",
			userID:  uuid.New(),
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := uuid.New().String()
			expiresAt := time.Now().UTC().Add(24 * time.Hour)

			err := tc.RefreshTokenRepo.Create(context.Background(), tt.userID, token, expiresAt)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			stored, err := tc.RefreshTokenRepo.GetByToken(context.Background(), token)
			require.NoError(t, err)
			require.Equal(t, tt.userID, stored.UserID)
			require.False(t, stored.IsExpired(time.Now()))
		})
	}
}

func TestRefreshTokenRepository_Delete(t *testing.T) {
	tc := integration.NewTestContext(t)
	user := tc.CreateTestUser("test-user", "password123", false)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, tc.RefreshTokenRepo.Create(ctx, user.ID, "live", now.Add(time.Hour)))
	require.NoError(t, tc.RefreshTokenRepo.Create(ctx, user.ID, "stale-1", now.Add(-time.Hour)))
	require.NoError(t, tc.RefreshTokenRepo.Create(ctx, user.ID, "stale-2", now.Add(-2*time.Hour)))

	removed, err := tc.RefreshTokenRepo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), removed)

	_, err = tc.RefreshTokenRepo.GetByToken(ctx, "stale-1")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)

	require.NoError(t, tc.RefreshTokenRepo.DeleteByToken(ctx, "live"))
	_, err = tc.RefreshTokenRepo.GetByToken(ctx, "live")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)

	err = tc.RefreshTokenRepo.DeleteByToken(ctx, "live")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)

	require.NoError(t, tc.RefreshTokenRepo.Create(ctx, user.ID, "a", now.Add(time.Hour)))
	require.NoError(t, tc.RefreshTokenRepo.Create(ctx, user.ID, "b", now.Add(time.Hour)))
	require.NoError(t, tc.RefreshTokenRepo.DeleteByUserID(ctx, user.ID))
	_, err = tc.RefreshTokenRepo.GetByToken(ctx, "a")
	require.ErrorIs(t, err, repository.ErrTokenInvalid)
}
