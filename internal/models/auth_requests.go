package models

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50" example:"admin"`
	Password string `json:"password" binding:"required" example:"mypassword123"`
}

// TokenRefreshRequest represents a token refresh request
type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenRefreshResponse carries a new access token
type TokenRefreshResponse struct {
	AccessToken string `json:"access_token"`
}
