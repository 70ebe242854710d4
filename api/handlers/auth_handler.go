// api/handlers/auth_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seodash/seodash-backend/api/middleware"
	"github.com/seodash/seodash-backend/api/models"
	"github.com/seodash/seodash-backend/config"
	"github.com/seodash/seodash-backend/internal/auth"
	"github.com/seodash/seodash-backend/internal/logger"
	"github.com/seodash/seodash-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(db *sql.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// Login checks the supplied credentials and issues a bearer token. Unknown
// usernames and wrong passwords fail with the same message so the response
// leaks nothing about which accounts exist.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(err)
		return
	}

	account, err := storage.FindAccountByUsername(c.Request.Context(), h.DB, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			customLog.Warnf("Login attempt for unknown username %s", req.Username)
			_ = c.Error(storage.ErrInvalidCredentials)
			return
		}
		_ = c.Error(err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, account.PasswordHash) {
		customLog.Warnf("Login attempt failed for username %s: invalid password", account.Username)
		_ = c.Error(storage.ErrInvalidCredentials)
		return
	}

	principal := auth.Principal{
		ID:       account.ID,
		Username: account.Username,
		Role:     account.Role,
		ClientID: account.ClientID,
	}

	tokenString, err := auth.GenerateJWT(principal, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %s: %v", account.Username, err)
		_ = c.Error(err)
		return
	}

	customLog.Printf("Login successful for user %s", account.Username)
	c.JSON(http.StatusOK, models.LoginResponse{Token: tokenString, User: principal})
}

// Refresh re-issues a token from an already-valid principal without
// re-checking the password, preserving the same claims.
func (h *AuthHandler) Refresh(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tokenString, err := auth.GenerateJWT(*principal, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to refresh JWT for user %s: %v", principal.Username, err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.RefreshResponse{Token: tokenString})
}
