// api/models/auth_models.go
package models

import "github.com/seodash/seodash-backend/internal/auth"

// --- Auth Request/Response Structs ---

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the structure for the login response body
type LoginResponse struct {
	Token string         `json:"token"`
	User  auth.Principal `json:"user"`
}

// RefreshResponse defines the structure for the token refresh response body
type RefreshResponse struct {
	Token string `json:"token"`
}
