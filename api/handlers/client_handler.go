// api/handlers/client_handler.go
package handlers

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seodash/seodash-backend/api/models"
	"github.com/seodash/seodash-backend/config"
	"github.com/seodash/seodash-backend/internal/auth"
	"github.com/seodash/seodash-backend/internal/domain"
	"github.com/seodash/seodash-backend/internal/storage"
)

// ClientHandler holds dependencies for client account administration.
type ClientHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(db *sql.DB, cfg *config.Config) *ClientHandler {
	return &ClientHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// ListClients returns every client-role account.
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := storage.ListClientAccounts(c.Request.Context(), h.DB)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient registers a new client account with a hashed password and a
// unique client identifier.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("CreateClient binding error: %v", err)
		_ = c.Error(err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	account := &domain.Account{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Role:         domain.RoleClient,
		ClientID:     req.ClientID,
		StartDate:    req.StartDate,
	}

	if err := storage.CreateAccount(c.Request.Context(), h.DB, account); err != nil {
		customLog.Warnf("Failed to create client %s: %v", req.Username, err)
		_ = c.Error(err)
		return
	}

	customLog.Printf("Created client account %s (client_id %s)", account.Username, account.ClientID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Client created successfully",
		"client": gin.H{
			"id":         account.ID,
			"username":   account.Username,
			"client_id":  account.ClientID,
			"start_date": account.StartDate,
		},
	})
}

// GetClient returns one client account by client identifier.
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID := c.Param("client_id")
	account, err := storage.FindClientAccount(c.Request.Context(), h.DB, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetClientByUsername is the self-or-admin lookup keyed on username.
func (h *ClientHandler) GetClientByUsername(c *gin.Context) {
	username := c.Param("username")
	account, err := storage.FindAccountByUsername(c.Request.Context(), h.DB, username)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if account.Role != domain.RoleClient {
		_ = c.Error(storage.ErrAccountNotFound)
		return
	}
	c.JSON(http.StatusOK, account)
}

// UpdateClient applies admin edits (notes, start date, rates, reviews
// baseline) to a client account.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID := c.Param("client_id")

	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("UpdateClient binding error: %v", err)
		_ = c.Error(err)
		return
	}

	upd := storage.AccountUpdate{
		StartDate:         req.StartDate,
		Notes:             req.Notes,
		LeadValue:         req.LeadValue,
		ConversionRate:    req.ConversionRate,
		ReviewsStartCount: req.ReviewsStartCount,
	}
	if err := storage.UpdateClientAccount(c.Request.Context(), h.DB, clientID, upd); err != nil {
		_ = c.Error(err)
		return
	}

	account, err := storage.FindClientAccount(c.Request.Context(), h.DB, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully", "data": account})
}

// SetReviewsStartCount sets the baseline the cumulative-reviews series
// accumulates from.
func (h *ClientHandler) SetReviewsStartCount(c *gin.Context) {
	clientID := c.Param("client_id")

	var req models.ReviewsStartCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	upd := storage.AccountUpdate{ReviewsStartCount: req.ReviewsStartCount}
	if err := storage.UpdateClientAccount(c.Request.Context(), h.DB, clientID, upd); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reviews start count updated", "reviews_start_count": *req.ReviewsStartCount})
}

// DeleteClient removes the account and all of its dependent rows. The
// cascade is not transactional; see storage.DeleteAccountCascade.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID := c.Param("client_id")
	if err := storage.DeleteAccountCascade(c.Request.Context(), h.DB, clientID); err != nil {
		customLog.Warnf("Failed to delete client %s: %v", clientID, err)
		_ = c.Error(err)
		return
	}
	customLog.Printf("Deleted client %s and dependent data", clientID)
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// UploadMapImage stores a map screenshot on the client account as a base64
// data URL. The multipart field is "image", with "images" accepted as a
// fallback name.
func (h *ClientHandler) UploadMapImage(c *gin.Context) {
	clientID := c.Param("client_id")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		fileHeader, err = c.FormFile("images")
	}
	if err != nil {
		_ = c.Error(errors.New("image file is required"))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to open uploaded image: %w", err))
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to read uploaded image: %w", err))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(payload))

	upd := storage.AccountUpdate{MapImage: &dataURL}
	if err := storage.UpdateClientAccount(c.Request.Context(), h.DB, clientID, upd); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Stored map image for client %s (%d bytes)", clientID, len(payload))
	c.JSON(http.StatusOK, gin.H{"message": "Map image uploaded successfully", "map_image": dataURL})
}
