// api/handlers/metric_handler.go
package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/seodash/seodash-backend/api/models"
	"github.com/seodash/seodash-backend/config"
	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/domain"
	"github.com/seodash/seodash-backend/internal/storage"
)

// MetricHandler holds dependencies for metric read/write handlers.
type MetricHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// NewMetricHandler creates a new MetricHandler.
func NewMetricHandler(db *sql.DB, cfg *config.Config) *MetricHandler {
	return &MetricHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// ListMetrics returns a client's metric rows, optionally filtered by
// ?type=, ?startDate= and ?endDate=.
func (h *MetricHandler) ListMetrics(c *gin.Context) {
	clientID := c.Param("client_id")

	filter, err := core.ParseMetricFilter(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics, err := storage.ListMetrics(c.Request.Context(), h.DB, clientID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// CreateMetric records one monthly figure. The date arrives as "YYYY-MM"
// and is persisted as "YYYY-MM-01"; metric types outside the known
// enumeration are rejected rather than silently summing as zero later.
func (h *MetricHandler) CreateMetric(c *gin.Context) {
	clientID := c.Param("client_id")

	var req models.CreateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("CreateMetric binding error: %v", err)
		_ = c.Error(err)
		return
	}

	if !core.IsKnownMetricType(req.MetricType) {
		err := fmt.Errorf("unknown metric type %q", req.MetricType)
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := core.NormalizeMetricDate(req.Date)
	if err != nil {
		_ = c.Error(err)
		return
	}

	metric := &domain.Metric{
		ClientID:   clientID,
		MetricType: req.MetricType,
		Value:      *req.Value,
		Date:       date,
	}
	created, err := storage.InsertMetric(c.Request.Context(), h.DB, metric)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// DeleteMetric removes one metric row by id (admin only).
func (h *MetricHandler) DeleteMetric(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(fmt.Errorf("invalid metric id: %w", err))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid metric id"})
		return
	}

	if err := storage.DeleteMetric(c.Request.Context(), h.DB, id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Metric deleted successfully"})
}
