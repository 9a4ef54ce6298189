package auth_test

import (
	"context"
	"milkroute/internal/auth"
	"milkroute/internal/config"
	"milkroute/internal/models"
	"milkroute/internal/testutil"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(tokens *testutil.FakeRefreshTokenRepository) *auth.Service {
	return auth.NewService(config.AuthConfig{JWTSecret: "test-secret"}, tokens)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newService(testutil.NewFakeRefreshTokenRepository())
	admin := &models.User{
		ID:       uuid.New(),
		Username: "admin",
		Role:     &models.Role{Name: models.RoleAdmin, IsAdminGroup: true},
	}

	token, err := svc.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID.String(), claims["user_id"])
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, true, claims["is_admin"])
}

func TestValidateToken_Errors(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "dispatcher"}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "Garbage",
			token:   func(*testing.T) string { return "not.a.jwt" },
			wantErr: auth.ErrInvalidToken,
		},
		{
			name: "Wrong Secret",
			token: func(t *testing.T) string {
				other := auth.NewService(config.AuthConfig{JWTSecret: "other-secret"}, nil)
				token, err := other.GenerateToken(user)
				require.NoError(t, err)
				return token
			},
			wantErr: auth.ErrInvalidToken,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				old := newService(nil)
				old.SetClock(func() time.Time { return time.Now().Add(-time.Hour) })
				token, err := old.GenerateToken(user)
				require.NoError(t, err)
				return token
			},
			wantErr: auth.ErrTokenExpired,
		},
	}

	svc := newService(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	tokens := testutil.NewFakeRefreshTokenRepository()
	svc := newService(tokens)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, tokens.Len())

	got, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = svc.ValidateRefreshToken(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, svc.DeleteRefreshToken(ctx, token))
	_, err = svc.ValidateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// Tokens issued in the past are already expired
	svc.SetClock(func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) })
	stale, err := svc.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(ctx, stale)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestPasswords(t *testing.T) {
	svc := newService(nil)

	hashed, err := svc.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)

	assert.NoError(t, svc.ComparePasswords(hashed, "correct horse"))
	assert.Error(t, svc.ComparePasswords(hashed, "battery staple"))
}

func TestGetUserFromContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, auth.GetUserFromContext(c))

	c.Set("user", "not a user")
	assert.Nil(t, auth.GetUserFromContext(c))

	user := &models.User{Username: "dispatcher"}
	c.Set("user", user)
	assert.Same(t, user, auth.GetUserFromContext(c))
}
