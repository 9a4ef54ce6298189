package middleware_test

import (
	"encoding/json"
	"milkroute/internal/api/middleware"
	"milkroute/internal/auth"
	"milkroute/internal/config"
	"milkroute/internal/models"
	"milkroute/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

type authFixture struct {
	service *auth.Service
	users   *testutil.FakeUserRepository
	admin   models.User
	staff   models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roles := testutil.NewFakeRoleRepository()
	f := &authFixture{
		service: auth.NewService(config.AuthConfig{JWTSecret: testSecret}, testutil.NewFakeRefreshTokenRepository()),
		admin:   models.User{ID: uuid.New(), Username: "admin", RoleID: roles.Admin.ID, Role: &roles.Admin},
		staff:   models.User{ID: uuid.New(), Username: "dispatcher", RoleID: roles.Staff.ID, Role: &roles.Staff},
	}
	f.users = testutil.NewFakeUserRepository(f.admin, f.staff)
	return f
}

func (f *authFixture) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := f.service.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_AuthRequired(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name        string
		header      func(t *testing.T) string
		wantStatus  int
		wantErr     string
		wantIsAdmin bool
	}{
		{
			name:        "Valid admin token",
			header:      func(t *testing.T) string { return "Bearer " + f.token(t, &f.admin) },
			wantStatus:  http.StatusOK,
			wantIsAdmin: true,
		},
		{
			name:       "Valid staff token",
			header:     func(t *testing.T) string { return "Bearer " + f.token(t, &f.staff) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing Authorization Header",
			header:     func(t *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
			wantErr:    "no authorization header",
		},
		{
			name:       "Invalid Authorization Header Format",
			header:     func(t *testing.T) string { return "Token " + f.token(t, &f.admin) },
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid authorization header",
		},
		{
			name: "Token signed with another secret",
			header: func(t *testing.T) string {
				return "Bearer " + signed(t, "wrong-secret", jwt.MapClaims{
					"user_id": f.admin.ID.String(),
					"exp":     time.Now().Add(time.Hour).Unix(),
				})
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid token",
		},
		{
			name: "Expired token",
			header: func(t *testing.T) string {
				return "Bearer " + signed(t, testSecret, jwt.MapClaims{
					"user_id": f.admin.ID.String(),
					"exp":     time.Now().Add(-time.Hour).Unix(),
				})
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "token expired",
		},
		{
			name: "Malformed user id claim",
			header: func(t *testing.T) string {
				return "Bearer " + signed(t, testSecret, jwt.MapClaims{
					"user_id": "not-a-uuid",
					"exp":     time.Now().Add(time.Hour).Unix(),
				})
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid user id in token",
		},
		{
			name: "User Not Found",
			header: func(t *testing.T) string {
				ghost := models.User{ID: uuid.New(), Username: "ghost"}
				return "Bearer " + f.token(t, &ghost)
			},
			wantStatus: http.StatusUnauthorized,
			wantErr:    "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMiddleware := middleware.NewAuthMiddleware(f.service, f.users)

			router := gin.New()
			router.GET("/test", authMiddleware.AuthRequired(), func(c *gin.Context) {
				user := auth.GetUserFromContext(c)
				require.NotNil(t, user)
				c.JSON(http.StatusOK, gin.H{"username": user.Username, "is_admin": c.GetBool("is_admin")})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/test", nil)
			if header := tt.header(t); header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)

			var resp gin.H
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
				return
			}
			assert.Equal(t, tt.wantIsAdmin, resp["is_admin"])
		})
	}
}

func TestAuthMiddleware_AdminRequired(t *testing.T) {
	f := newAuthFixture(t)

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
		wantErr    string
	}{
		{
			name:       "Admin Access Allowed",
			user:       &f.admin,
			wantStatus: http.StatusOK,
		},
		{
			name:       "Non-Admin Access Denied",
			user:       &f.staff,
			wantStatus: http.StatusForbidden,
			wantErr:    "admin access required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMiddleware := middleware.NewAuthMiddleware(f.service, f.users)

			router := gin.New()
			router.GET("/test",
				authMiddleware.AuthRequired(),
				authMiddleware.AdminRequired(),
				func(c *gin.Context) {
					c.Status(http.StatusOK)
				},
			)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+f.token(t, tt.user))
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantErr != "" {
				var resp gin.H
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantErr, resp["error"])
			}
		})
	}
}

func TestAuthMiddleware_AdminRequiredWithoutAuth(t *testing.T) {
	f := newAuthFixture(t)
	authMiddleware := middleware.NewAuthMiddleware(f.service, f.users)

	router := gin.New()
	router.GET("/test", authMiddleware.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
