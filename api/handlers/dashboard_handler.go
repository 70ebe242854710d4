// api/handlers/dashboard_handler.go
package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seodash/seodash-backend/config"
	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/reporting"
	"github.com/seodash/seodash-backend/internal/storage"
)

// DashboardHandler holds dependencies for the reporting surface.
type DashboardHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *sql.DB, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// LeadPotential returns the revenue projection for a client: the most
// recently completed month, and cumulative since the first recorded metric.
func (h *DashboardHandler) LeadPotential(c *gin.Context) {
	clientID := c.Param("client_id")

	account, err := storage.FindClientAccount(c.Request.Context(), h.DB, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	metrics, err := storage.ListMetricsByTypes(c.Request.Context(), h.DB, clientID, core.RevenueMetricTypes)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reporting.ComputeLeadPotential(account, metrics, time.Now()))
}

// Reviews returns the cumulative review series, seeded from the account's
// starting count.
func (h *DashboardHandler) Reviews(c *gin.Context) {
	clientID := c.Param("client_id")

	account, err := storage.FindClientAccount(c.Request.Context(), h.DB, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	metrics, err := storage.ListMetricsByTypes(c.Request.Context(), h.DB, clientID, []string{core.MetricGBPReviews})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_id":           clientID,
		"reviews_start_count": account.ReviewsStartCount,
		"series":              reporting.CumulativeReviews(account.ReviewsStartCount, metrics),
	})
}

// Overview returns the summary card: report tally plus per-type metric
// counts over the trailing 30 days.
func (h *DashboardHandler) Overview(c *gin.Context) {
	clientID := c.Param("client_id")

	reportTotal, err := storage.CountReports(c.Request.Context(), h.DB, clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	now := time.Now()
	since := now.AddDate(0, 0, -30).Format("2006-01-02")
	metricTypes, err := storage.ListMetricTypesSince(c.Request.Context(), h.DB, clientID, since)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reporting.BuildOverview(clientID, reportTotal, metricTypes, now))
}

// CreateReport records a report entry for the overview tally (admin only).
func (h *DashboardHandler) CreateReport(c *gin.Context) {
	report, err := storage.CreateReport(c.Request.Context(), h.DB, c.Param("client_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ListReports returns a client's report entries.
func (h *DashboardHandler) ListReports(c *gin.Context) {
	reports, err := storage.ListReports(c.Request.Context(), h.DB, c.Param("client_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
