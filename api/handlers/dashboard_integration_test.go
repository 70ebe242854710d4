// api/handlers/dashboard_integration_test.go
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/seodash/seodash-backend/api"
	"github.com/seodash/seodash-backend/api/models"
	"github.com/seodash/seodash-backend/config"
	"github.com/seodash/seodash-backend/internal/auth"
	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/domain"
	"github.com/seodash/seodash-backend/internal/reporting"
	"github.com/seodash/seodash-backend/internal/storage"
)

const testJWTSecret = "test_secret_key_for_integration_tests_1234567890"

// testDBSetup creates a temporary SQLite DB for testing and returns the DB
// pool along with the test configuration.
func testDBSetup(t *testing.T) (*sql.DB, *config.Config, func()) {
	t.Helper()

	tempDir := t.TempDir()
	testCfg := &config.Config{
		ServerPort:     ":0",
		JWTSecret:      testJWTSecret,
		JWTExpiration:  time.Minute * 5,
		DatabaseDir:    tempDir,
		DatabaseFile:   "test_seodash.db",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	db, err := storage.ConnectDB(testCfg) // Creates tables
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	}

	return db, testCfg, cleanup
}

// setupTestServer creates a test server instance with a test DB.
func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB, *config.Config, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cfg, dbCleanup := testDBSetup(t)
	router := api.SetupRouter(db, cfg)
	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		dbCleanup()
	}

	return server, db, cfg, cleanup
}

// seedAccount inserts an account with a real bcrypt hash and returns it.
func seedAccount(t *testing.T, db *sql.DB, username, password, role, clientID string) *domain.Account {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	acc := &domain.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		ClientID:     clientID,
	}
	if err := storage.CreateAccount(context.Background(), db, acc); err != nil {
		t.Fatalf("Failed to seed account %s: %v", username, err)
	}
	return acc
}

// tokenFor signs a short-lived token for the account.
func tokenFor(t *testing.T, acc *domain.Account) string {
	t.Helper()

	token, err := auth.GenerateJWT(auth.Principal{
		ID:       acc.ID,
		Username: acc.Username,
		Role:     acc.Role,
		ClientID: acc.ClientID,
	}, testJWTSecret, time.Minute*5)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// doJSON performs an authenticated JSON request against the test server.
func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return res
}

func decodeJSON(t *testing.T, res *http.Response, target any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func TestLoginEndpoints(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")

	t.Run("Login Success", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "",
			models.LoginRequest{Username: "admin", Password: "AdminSecret1!"})
		assert.Equal(http.StatusOK, res.StatusCode)

		var body models.LoginResponse
		decodeJSON(t, res, &body)
		assert.NotEmpty(body.Token)
		assert.Equal("admin", body.User.Username)
		assert.Equal(domain.RoleAdmin, body.User.Role)

		principal, err := auth.ValidateJWT(body.Token, testJWTSecret)
		assert.NoError(err)
		assert.Equal("admin", principal.Username)
	})

	t.Run("Wrong Password And Unknown User Are Indistinguishable", func(t *testing.T) {
		resWrongPass := doJSON(t, http.MethodPost, server.URL+"/auth/login", "",
			models.LoginRequest{Username: "admin", Password: "nope"})
		resUnknown := doJSON(t, http.MethodPost, server.URL+"/auth/login", "",
			models.LoginRequest{Username: "ghost", Password: "nope"})

		assert.Equal(http.StatusUnauthorized, resWrongPass.StatusCode)
		assert.Equal(http.StatusUnauthorized, resUnknown.StatusCode)

		var bodyWrongPass, bodyUnknown map[string]string
		decodeJSON(t, resWrongPass, &bodyWrongPass)
		decodeJSON(t, resUnknown, &bodyUnknown)
		assert.Equal(bodyWrongPass["error"], bodyUnknown["error"])
	})

	t.Run("Refresh Reissues Token", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/login", "",
			models.LoginRequest{Username: "admin", Password: "AdminSecret1!"})
		var login models.LoginResponse
		decodeJSON(t, res, &login)

		res = doJSON(t, http.MethodPost, server.URL+"/auth/refresh", login.Token, nil)
		assert.Equal(http.StatusOK, res.StatusCode)

		var refresh models.RefreshResponse
		decodeJSON(t, res, &refresh)
		assert.NotEmpty(refresh.Token)

		principal, err := auth.ValidateJWT(refresh.Token, testJWTSecret)
		assert.NoError(err)
		assert.Equal("admin", principal.Username)
	})

	t.Run("Refresh Without Token Is Unauthorized", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/auth/refresh", "", nil)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})
}

func TestClientScopeEnforcement(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	admin := seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")
	alpha := seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	seedAccount(t, db, "beta", "ClientSecret1!", domain.RoleClient, "beta-co")

	alphaToken := tokenFor(t, alpha)
	adminToken := tokenFor(t, admin)

	t.Run("Anonymous Is Unauthenticated", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/metrics", "", nil)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Garbage Token Is Treated As Anonymous", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/metrics", "not.a.token", nil)
		defer res.Body.Close()
		assert.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("Client Reads Own Data", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/metrics", alphaToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)
	})

	t.Run("Client Cannot Read Another Client Regardless Of Verb", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/dashboard/beta-co/metrics", alphaToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusForbidden, res.StatusCode)

		res = doJSON(t, http.MethodPost, server.URL+"/dashboard/beta-co/metrics", alphaToken,
			gin.H{"metric_type": core.MetricGBPCalls, "value": 1, "date": "2025-01"})
		defer res.Body.Close()
		assert.Equal(http.StatusForbidden, res.StatusCode)
	})

	t.Run("Client Cannot Use Admin Routes", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/admin/clients", alphaToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusForbidden, res.StatusCode)
	})

	t.Run("Admin Reads Any Client", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/dashboard/beta-co/metrics", adminToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)
	})

	t.Run("Username Lookup Is Self Or Admin", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/admin/clients-by-username/alpha", alphaToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/admin/clients-by-username/beta", alphaToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusForbidden, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/admin/clients-by-username/beta", adminToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)
	})
}

func TestMetricsEndpoints(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	alpha := seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	alphaToken := tokenFor(t, alpha)

	t.Run("Create Normalizes Date", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/dashboard/alpha-co/metrics", alphaToken,
			gin.H{"metric_type": core.MetricGBPWebsiteClicks, "value": 10, "date": "2025-01"})
		assert.Equal(http.StatusCreated, res.StatusCode)

		var created domain.Metric
		decodeJSON(t, res, &created)
		assert.Equal("2025-01-01", created.Date)
		assert.Equal(float64(10), created.Value)
	})

	t.Run("Create Rejects Unknown Metric Type", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/dashboard/alpha-co/metrics", alphaToken,
			gin.H{"metric_type": "made_up", "value": 10, "date": "2025-01"})
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Create Rejects Malformed Date", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/dashboard/alpha-co/metrics", alphaToken,
			gin.H{"metric_type": core.MetricGBPCalls, "value": 10, "date": "2025-01-01"})
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("List Is Idempotent", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/dashboard/alpha-co/metrics", alphaToken,
			gin.H{"metric_type": core.MetricGBPCalls, "value": 3, "date": "2025-02"})
		res.Body.Close()

		var first, second []domain.Metric
		res = doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/metrics", alphaToken, nil)
		decodeJSON(t, res, &first)
		res = doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/metrics", alphaToken, nil)
		decodeJSON(t, res, &second)

		assert.NotEmpty(first)
		assert.Equal(first, second)
	})

	t.Run("List Filters By Type", func(t *testing.T) {
		res := doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/metrics?type="+core.MetricGBPCalls, alphaToken, nil)
		var filtered []domain.Metric
		decodeJSON(t, res, &filtered)
		for _, m := range filtered {
			assert.Equal(core.MetricGBPCalls, m.MetricType)
		}
		assert.NotEmpty(filtered)
	})
}

func TestLeadPotentialEndpoint(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	alpha := seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	alphaToken := tokenFor(t, alpha)

	// One row per allow-listed type in the reference month, so the
	// projection is round(10 * 0.5 * 2500) = 12500 with the defaults.
	refMonth := reporting.ReferenceMonth(time.Now()).Format("2006-01-02")
	ctx := context.Background()
	for metricType, value := range map[string]float64{
		core.MetricGBPWebsiteClicks: 10,
		core.MetricGBPPhoneCalls:    0,
		core.MetricGSCOrganicClicks: 0,
	} {
		_, err := storage.InsertMetric(ctx, db, &domain.Metric{
			ClientID: "alpha-co", MetricType: metricType, Value: value, Date: refMonth,
		})
		assert.NoError(err)
	}

	res := doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/lead-potential", alphaToken, nil)
	assert.Equal(http.StatusOK, res.StatusCode)

	var lp reporting.LeadPotential
	decodeJSON(t, res, &lp)
	assert.Equal("alpha-co", lp.ClientID)
	assert.Equal(float64(2500), lp.LeadValue)
	assert.Equal(float64(50), lp.ConversionRate)
	assert.Equal(float64(10), lp.CurrentMonth.TotalClicks)
	assert.Equal(int64(12500), lp.CurrentMonth.TotalValue)
	assert.Len(lp.CurrentMonth.Breakdown, 3)
}

func TestReviewsEndpoint(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	alpha := seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	admin := seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")
	alphaToken := tokenFor(t, alpha)
	adminToken := tokenFor(t, admin)

	res := doJSON(t, http.MethodPut, server.URL+"/admin/clients/alpha-co/reviews-start-count", adminToken,
		gin.H{"reviews_start_count": 5})
	res.Body.Close()
	assert.Equal(http.StatusOK, res.StatusCode)

	ctx := context.Background()
	for _, row := range []struct {
		date  string
		value float64
	}{
		{"2024-11-01", 3},
		{"2024-12-01", 2},
	} {
		_, err := storage.InsertMetric(ctx, db, &domain.Metric{
			ClientID: "alpha-co", MetricType: core.MetricGBPReviews, Value: row.value, Date: row.date,
		})
		assert.NoError(err)
	}

	res = doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/reviews", alphaToken, nil)
	assert.Equal(http.StatusOK, res.StatusCode)

	var body struct {
		ReviewsStartCount int64                   `json:"reviews_start_count"`
		Series            []reporting.ReviewPoint `json:"series"`
	}
	decodeJSON(t, res, &body)
	assert.Equal(int64(5), body.ReviewsStartCount)
	assert.Len(body.Series, 2)
	assert.Equal(float64(8), body.Series[0].Cumulative)
	assert.Equal(float64(10), body.Series[1].Cumulative)
}

func postCSV(t *testing.T, url, token, period, dataType, csvContent string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("csv", "export.csv")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvContent)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	_ = writer.WriteField("period", period)
	_ = writer.WriteField("data_type", dataType)
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return res
}

func TestCSVUpload(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	admin := seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")
	seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	adminToken := tokenFor(t, admin)

	uploadURL := server.URL + "/admin/clients/alpha-co/upload-csv"

	t.Run("Valid Queries File Inserts One Record", func(t *testing.T) {
		res := postCSV(t, uploadURL, adminToken, "2025-01", "queries",
			"Query,Clicks,Impressions,Position\nfoo,10,100,3.5\n")
		assert.Equal(http.StatusOK, res.StatusCode)

		var result models.ImportResult
		decodeJSON(t, res, &result)
		assert.Equal(1, result.RecordsInserted)

		records, err := storage.ListSearchQueries(context.Background(), db, "alpha-co")
		assert.NoError(err)
		assert.Len(records, 1)
		assert.Equal("foo", records[0].Query)
		assert.Equal(int64(10), records[0].Clicks)
		assert.Equal(int64(100), records[0].Impressions)
		assert.Equal(3.5, records[0].Position)
		assert.Equal("2025-01", records[0].Period)
	})

	t.Run("Missing Position Column Inserts Nothing", func(t *testing.T) {
		res := postCSV(t, uploadURL, adminToken, "2025-02", "queries",
			"Query,Clicks,Impressions\nbar,10,100\n")
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)

		records, err := storage.ListSearchQueries(context.Background(), db, "alpha-co")
		assert.NoError(err)
		for _, rec := range records {
			assert.NotEqual("2025-02", rec.Period)
		}
	})

	t.Run("Pages File Feeds Top Pages", func(t *testing.T) {
		res := postCSV(t, uploadURL, adminToken, "2025-01", "pages",
			"Page,Clicks,Impressions,Position\n/services,25,500,2.5\n")
		assert.Equal(http.StatusOK, res.StatusCode)

		var result models.ImportResult
		decodeJSON(t, res, &result)
		assert.Equal(1, result.RecordsInserted)

		pages, err := storage.ListTopPages(context.Background(), db, "alpha-co")
		assert.NoError(err)
		assert.Len(pages, 1)
		assert.Equal("/services", pages[0].PageURL)
	})

	t.Run("Invalid Data Type Is Rejected", func(t *testing.T) {
		res := postCSV(t, uploadURL, adminToken, "2025-01", "rows",
			"Query,Clicks,Impressions,Position\nfoo,10,100,3.5\n")
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})
}

func TestClientAdministration(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	admin := seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")
	adminToken := tokenFor(t, admin)

	t.Run("Create And List Clients", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/admin/clients", adminToken,
			models.CreateClientRequest{Username: "gamma", Password: "GammaSecret1!", ClientID: "gamma-co"})
		res.Body.Close()
		assert.Equal(http.StatusCreated, res.StatusCode)

		res = doJSON(t, http.MethodGet, server.URL+"/admin/clients", adminToken, nil)
		var clients []domain.Account
		decodeJSON(t, res, &clients)
		assert.Len(clients, 1)
		assert.Equal("gamma-co", clients[0].ClientID)
	})

	t.Run("Duplicate Username Is Rejected", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/admin/clients", adminToken,
			models.CreateClientRequest{Username: "gamma", Password: "GammaSecret1!", ClientID: "other-co"})
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Duplicate ClientID Is Rejected", func(t *testing.T) {
		res := doJSON(t, http.MethodPost, server.URL+"/admin/clients", adminToken,
			models.CreateClientRequest{Username: "delta", Password: "DeltaSecret1!", ClientID: "gamma-co"})
		defer res.Body.Close()
		assert.Equal(http.StatusBadRequest, res.StatusCode)
	})

	t.Run("Update Client Rates", func(t *testing.T) {
		leadValue := 3000.0
		conversionRate := 40.0
		res := doJSON(t, http.MethodPut, server.URL+"/admin/clients/gamma-co", adminToken,
			models.UpdateClientRequest{LeadValue: &leadValue, ConversionRate: &conversionRate})
		res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)

		acc, err := storage.FindClientAccount(context.Background(), db, "gamma-co")
		assert.NoError(err)
		assert.Equal(3000.0, acc.LeadValue)
		assert.Equal(40.0, acc.ConversionRate)
	})

	t.Run("Delete Cascades All Dependent Data", func(t *testing.T) {
		ctx := context.Background()
		_, err := storage.InsertMetric(ctx, db, &domain.Metric{
			ClientID: "gamma-co", MetricType: core.MetricGBPCalls, Value: 1, Date: "2025-01-01",
		})
		assert.NoError(err)
		assert.NoError(storage.InsertSearchQuery(ctx, db, &domain.SearchQuery{
			ClientID: "gamma-co", Query: "q", Period: "2025-01",
		}))
		assert.NoError(storage.InsertTopPage(ctx, db, &domain.TopPage{
			ClientID: "gamma-co", PageURL: "/p", Period: "2025-01",
		}))
		_, err = storage.CreateReport(ctx, db, "gamma-co")
		assert.NoError(err)

		res := doJSON(t, http.MethodDelete, server.URL+"/admin/clients/gamma-co", adminToken, nil)
		res.Body.Close()
		assert.Equal(http.StatusOK, res.StatusCode)

		_, err = storage.FindClientAccount(ctx, db, "gamma-co")
		assert.ErrorIs(err, storage.ErrAccountNotFound)

		metrics, err := storage.ListMetrics(ctx, db, "gamma-co", nil)
		assert.NoError(err)
		assert.Empty(metrics)

		queries, err := storage.ListSearchQueries(ctx, db, "gamma-co")
		assert.NoError(err)
		assert.Empty(queries)

		pages, err := storage.ListTopPages(ctx, db, "gamma-co")
		assert.NoError(err)
		assert.Empty(pages)

		count, err := storage.CountReports(ctx, db, "gamma-co")
		assert.NoError(err)
		assert.Equal(int64(0), count)
	})

	t.Run("Delete Unknown Client Is NotFound", func(t *testing.T) {
		res := doJSON(t, http.MethodDelete, server.URL+"/admin/clients/no-such-co", adminToken, nil)
		defer res.Body.Close()
		assert.Equal(http.StatusNotFound, res.StatusCode)
	})
}

func TestSearchDataBulkUpsert(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	admin := seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")
	seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	adminToken := tokenFor(t, admin)

	url := server.URL + "/admin/clients/alpha-co/search-queries"

	res := doJSON(t, http.MethodPost, url, adminToken, models.BulkSearchDataRequest{
		Rows: []models.SearchDataRow{
			{Query: "dentist near me", Clicks: 10, Impressions: 100, Position: 3.5, Period: "2025-01"},
		},
	})
	res.Body.Close()
	assert.Equal(http.StatusOK, res.StatusCode)

	// Re-upserting the same natural key refreshes the figures instead of
	// duplicating the row.
	res = doJSON(t, http.MethodPost, url, adminToken, models.BulkSearchDataRequest{
		Rows: []models.SearchDataRow{
			{Query: "dentist near me", Clicks: 20, Impressions: 150, Position: 3.0, Period: "2025-01"},
		},
	})
	res.Body.Close()
	assert.Equal(http.StatusOK, res.StatusCode)

	records, err := storage.ListSearchQueries(context.Background(), db, "alpha-co")
	assert.NoError(err)
	assert.Len(records, 1)
	assert.Equal(int64(20), records[0].Clicks)

	t.Run("Delete By Period", func(t *testing.T) {
		res := doJSON(t, http.MethodDelete, url+"/2025-01", adminToken, nil)
		assert.Equal(http.StatusOK, res.StatusCode)

		var body map[string]any
		decodeJSON(t, res, &body)
		assert.Equal(float64(1), body["deletedCount"])

		records, err := storage.ListSearchQueries(context.Background(), db, "alpha-co")
		assert.NoError(err)
		assert.Empty(records)
	})
}

func TestOverviewEndpoint(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	alpha := seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	alphaToken := tokenFor(t, alpha)

	ctx := context.Background()
	recent := time.Now().Format("2006-01-02")
	for i := 0; i < 2; i++ {
		_, err := storage.InsertMetric(ctx, db, &domain.Metric{
			ClientID: "alpha-co", MetricType: core.MetricGBPCalls, Value: float64(i), Date: recent,
		})
		assert.NoError(err)
	}
	_, err := storage.CreateReport(ctx, db, "alpha-co")
	assert.NoError(err)

	res := doJSON(t, http.MethodGet, server.URL+"/dashboard/alpha-co/overview", alphaToken, nil)
	assert.Equal(http.StatusOK, res.StatusCode)

	var overview reporting.Overview
	decodeJSON(t, res, &overview)
	assert.Equal("alpha-co", overview.ClientID)
	assert.Equal(int64(1), overview.Reports.Total)
	assert.Equal([]reporting.MetricTypeCount{
		{MetricType: core.MetricGBPCalls, Count: 2},
	}, overview.Metrics)
}

func TestDeleteMetricEndpoint(t *testing.T) {
	server, db, _, cleanup := setupTestServer(t)
	defer cleanup()

	assert := assert.New(t)
	admin := seedAccount(t, db, "admin", "AdminSecret1!", domain.RoleAdmin, "")
	seedAccount(t, db, "alpha", "ClientSecret1!", domain.RoleClient, "alpha-co")
	adminToken := tokenFor(t, admin)

	created, err := storage.InsertMetric(context.Background(), db, &domain.Metric{
		ClientID: "alpha-co", MetricType: core.MetricGBPCalls, Value: 7, Date: "2025-01-01",
	})
	assert.NoError(err)

	res := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/admin/metrics/%d", server.URL, created.ID), adminToken, nil)
	res.Body.Close()
	assert.Equal(http.StatusOK, res.StatusCode)

	res = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/admin/metrics/%d", server.URL, created.ID), adminToken, nil)
	defer res.Body.Close()
	assert.Equal(http.StatusNotFound, res.StatusCode)
}
