// api/models/dashboard_models.go
package models

// --- Client administration ---

// CreateClientRequest defines the body for creating a client account.
type CreateClientRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	ClientID  string `json:"client_id" binding:"required"`
	StartDate string `json:"start_date"`
}

// UpdateClientRequest carries the admin-mutable account fields. Pointer
// fields distinguish "not supplied" from explicit zero values.
type UpdateClientRequest struct {
	StartDate         *string  `json:"start_date"`
	Notes             *string  `json:"notes"`
	LeadValue         *float64 `json:"lead_value" binding:"omitempty,gte=0"`
	ConversionRate    *float64 `json:"conversion_rate" binding:"omitempty,gte=0,lte=100"`
	ReviewsStartCount *int64   `json:"reviews_start_count" binding:"omitempty,gte=0"`
}

// ReviewsStartCountRequest sets the cumulative-reviews baseline.
type ReviewsStartCountRequest struct {
	ReviewsStartCount *int64 `json:"reviews_start_count" binding:"required,gte=0"`
}

// --- Metrics ---

// CreateMetricRequest defines the body for recording one monthly figure.
// Date arrives as "YYYY-MM" and is persisted as "YYYY-MM-01".
type CreateMetricRequest struct {
	MetricType string   `json:"metric_type" binding:"required"`
	Value      *float64 `json:"value" binding:"required"`
	Date       string   `json:"date" binding:"required"`
}

// --- Search data ---

// SearchDataRow is one bulk-upserted query or page record.
type SearchDataRow struct {
	Query       string  `json:"query"`
	PageURL     string  `json:"page_url"`
	Clicks      int64   `json:"clicks" binding:"gte=0"`
	Impressions int64   `json:"impressions" binding:"gte=0"`
	Position    float64 `json:"position" binding:"gte=0"`
	Period      string  `json:"period" binding:"required"`
}

// BulkSearchDataRequest defines the body for the JSON bulk upsert routes.
type BulkSearchDataRequest struct {
	Rows []SearchDataRow `json:"rows" binding:"required,min=1,dive"`
}

// ImportResult reports how many rows a bulk operation actually wrote.
type ImportResult struct {
	RecordsInserted int    `json:"recordsInserted"`
	Message         string `json:"message"`
}
