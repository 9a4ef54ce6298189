package handlers

import (
	"milkroute/internal/auth"
	"milkroute/internal/models"
	"milkroute/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated account
type UserHandler struct {
	roleRepo repository.RoleRepository
}

func NewUserHandler(roleRepo repository.RoleRepository) *UserHandler {
	return &UserHandler{roleRepo: roleRepo}
}

// GetCurrentUser godoc
// @Summary Get current user
// @Description Returns the account the access token belongs to
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListRoles godoc
// @Summary List roles (Admin only)
// @Description Returns the roles accounts can hold
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Role
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Permission denied - admin only"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /roles [get]
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}
