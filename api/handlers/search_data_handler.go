// api/handlers/search_data_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seodash/seodash-backend/api/models"
	"github.com/seodash/seodash-backend/config"
	"github.com/seodash/seodash-backend/internal/domain"
	"github.com/seodash/seodash-backend/internal/importer"
	"github.com/seodash/seodash-backend/internal/storage"
)

// SearchDataHandler holds dependencies for search-query/top-page handlers,
// including the CSV bulk import.
type SearchDataHandler struct {
	DB  *sql.DB
	Cfg *config.Config
}

// NewSearchDataHandler creates a new SearchDataHandler.
func NewSearchDataHandler(db *sql.DB, cfg *config.Config) *SearchDataHandler {
	return &SearchDataHandler{
		DB:  db,
		Cfg: cfg,
	}
}

// ListSearchQueries returns a client's query rows.
func (h *SearchDataHandler) ListSearchQueries(c *gin.Context) {
	records, err := storage.ListSearchQueries(c.Request.Context(), h.DB, c.Param("client_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpsertSearchQueries bulk-upserts query rows on their natural key
// (client, query, period).
func (h *SearchDataHandler) UpsertSearchQueries(c *gin.Context) {
	clientID := c.Param("client_id")

	var req models.BulkSearchDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("UpsertSearchQueries binding error: %v", err)
		_ = c.Error(err)
		return
	}

	inserted := 0
	for _, row := range req.Rows {
		if row.Query == "" {
			continue
		}
		rec := &domain.SearchQuery{
			ClientID:    clientID,
			Query:       row.Query,
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			Position:    row.Position,
			Period:      row.Period,
		}
		if err := storage.UpsertSearchQuery(c.Request.Context(), h.DB, rec); err != nil {
			customLog.Warnf("Skipping search query row for client %s: %v", clientID, err)
			continue
		}
		inserted++
	}

	c.JSON(http.StatusOK, models.ImportResult{
		RecordsInserted: inserted,
		Message:         fmt.Sprintf("Successfully imported %d records", inserted),
	})
}

// DeleteSearchQueriesByPeriod removes every query row for one period.
func (h *SearchDataHandler) DeleteSearchQueriesByPeriod(c *gin.Context) {
	clientID := c.Param("client_id")
	period := c.Param("period")

	deleted, err := storage.DeleteSearchQueriesByPeriod(c.Request.Context(), h.DB, clientID, period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Successfully deleted %d search queries for %s", deleted, period),
		"deletedCount": deleted,
	})
}

// ListTopPages returns a client's page rows.
func (h *SearchDataHandler) ListTopPages(c *gin.Context) {
	records, err := storage.ListTopPages(c.Request.Context(), h.DB, c.Param("client_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpsertTopPages bulk-upserts page rows on their natural key
// (client, page_url, period).
func (h *SearchDataHandler) UpsertTopPages(c *gin.Context) {
	clientID := c.Param("client_id")

	var req models.BulkSearchDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("UpsertTopPages binding error: %v", err)
		_ = c.Error(err)
		return
	}

	inserted := 0
	for _, row := range req.Rows {
		if row.PageURL == "" {
			continue
		}
		rec := &domain.TopPage{
			ClientID:    clientID,
			PageURL:     row.PageURL,
			Clicks:      row.Clicks,
			Impressions: row.Impressions,
			Position:    row.Position,
			Period:      row.Period,
		}
		if err := storage.UpsertTopPage(c.Request.Context(), h.DB, rec); err != nil {
			customLog.Warnf("Skipping top page row for client %s: %v", clientID, err)
			continue
		}
		inserted++
	}

	c.JSON(http.StatusOK, models.ImportResult{
		RecordsInserted: inserted,
		Message:         fmt.Sprintf("Successfully imported %d records", inserted),
	})
}

// DeleteTopPagesByPeriod removes every page row for one period.
func (h *SearchDataHandler) DeleteTopPagesByPeriod(c *gin.Context) {
	clientID := c.Param("client_id")
	period := c.Param("period")

	deleted, err := storage.DeleteTopPagesByPeriod(c.Request.Context(), h.DB, clientID, period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Successfully deleted %d top pages for %s", deleted, period),
		"deletedCount": deleted,
	})
}

// UploadCSV ingests a Search Console export. Multipart fields: "csv" (the
// file), "period" and "data_type" ("queries" or "pages"). Column mapping
// failures reject the whole file before any insert; individual row insert
// failures are logged and skipped, and the response counts rows actually
// inserted, not rows read.
func (h *SearchDataHandler) UploadCSV(c *gin.Context) {
	clientID := c.Param("client_id")

	period := c.PostForm("period")
	dataType := c.PostForm("data_type")
	fileHeader, fileErr := c.FormFile("csv")
	if fileErr != nil || period == "" || dataType == "" {
		err := errors.New("csv, period, and data_type are required")
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := importer.ParseDataKind(dataType)
	if err != nil {
		_ = c.Error(err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	rows, err := importer.Parse(file, kind)
	if err != nil {
		customLog.Warnf("CSV import rejected for client %s: %v", clientID, err)
		_ = c.Error(err)
		return
	}

	inserted := 0
	for _, row := range rows {
		var insertErr error
		switch kind {
		case importer.KindQueries:
			insertErr = storage.InsertSearchQuery(c.Request.Context(), h.DB, &domain.SearchQuery{
				ClientID:    clientID,
				Query:       row.Key,
				Clicks:      row.Clicks,
				Impressions: row.Impressions,
				Position:    row.Position,
				Period:      period,
			})
		case importer.KindPages:
			insertErr = storage.InsertTopPage(c.Request.Context(), h.DB, &domain.TopPage{
				ClientID:    clientID,
				PageURL:     row.Key,
				Clicks:      row.Clicks,
				Impressions: row.Impressions,
				Position:    row.Position,
				Period:      period,
			})
		}
		if insertErr != nil {
			customLog.Warnf("Skipping CSV row for client %s: %v", clientID, insertErr)
			continue
		}
		inserted++
	}

	customLog.Printf("CSV import for client %s: %d of %d rows inserted", clientID, inserted, len(rows))
	c.JSON(http.StatusOK, models.ImportResult{
		RecordsInserted: inserted,
		Message:         fmt.Sprintf("Successfully imported %d records", inserted),
	})
}
