// internal/domain/models.go
package domain

import "time"

// Account roles.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Account is a login-capable user. Admins manage every client; a client
// account carries a unique ClientID scoping all of its dependent data.
type Account struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	ClientID          string    `json:"client_id,omitempty"`
	StartDate         string    `json:"start_date,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	MapImage          string    `json:"map_image,omitempty"`
	LeadValue         float64   `json:"lead_value,omitempty"`
	ConversionRate    float64   `json:"conversion_rate,omitempty"`
	ReviewsStartCount int64     `json:"reviews_start_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// Metric is one monthly figure for a client. Date is stored as the first of
// the month ("YYYY-MM-01"). Duplicate (client, type, period) rows are
// possible; call sites decide whether the latest wins or values are summed.
type Metric struct {
	ID         int64     `json:"id"`
	ClientID   string    `json:"client_id"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// SearchQuery is a Search Console query row for one period ("YYYY-MM").
// Natural key is (client_id, query, period).
type SearchQuery struct {
	ID          int64     `json:"id"`
	ClientID    string    `json:"client_id"`
	Query       string    `json:"query"`
	Clicks      int64     `json:"clicks"`
	Impressions int64     `json:"impressions"`
	Position    float64   `json:"position"`
	Period      string    `json:"period"`
	CreatedAt   time.Time `json:"created_at"`
}

// TopPage mirrors SearchQuery with a page URL instead of query text.
// Natural key is (client_id, page_url, period).
type TopPage struct {
	ID          int64     `json:"id"`
	ClientID    string    `json:"client_id"`
	PageURL     string    `json:"page_url"`
	Clicks      int64     `json:"clicks"`
	Impressions int64     `json:"impressions"`
	Position    float64   `json:"position"`
	Period      string    `json:"period"`
	CreatedAt   time.Time `json:"created_at"`
}

// Report is a count-only entity surfaced in the dashboard overview tally.
type Report struct {
	ID        int64     `json:"id"`
	ClientID  string    `json:"client_id"`
	CreatedAt time.Time `json:"created_at"`
}
