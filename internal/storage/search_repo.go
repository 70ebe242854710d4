// internal/storage/search_repo.go
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seodash/seodash-backend/internal/domain"
)

// --- Search Queries ---

// InsertSearchQuery stores one query row. Duplicate natural keys
// (client_id, query, period) fail with the constraint error.
func InsertSearchQuery(ctx context.Context, db *sql.DB, rec *domain.SearchQuery) error {
	sqlStatement := `INSERT INTO search_queries (client_id, query, clicks, impressions, position, period)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, sqlStatement, rec.ClientID, rec.Query, rec.Clicks, rec.Impressions, rec.Position, rec.Period)
	if err != nil {
		return fmt.Errorf("database error inserting search query: %w", err)
	}
	return nil
}

// UpsertSearchQuery inserts or, on a natural-key conflict, refreshes the
// numeric fields of an existing row.
func UpsertSearchQuery(ctx context.Context, db *sql.DB, rec *domain.SearchQuery) error {
	sqlStatement := `INSERT INTO search_queries (client_id, query, clicks, impressions, position, period)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (client_id, query, period) DO UPDATE SET
			clicks = excluded.clicks,
			impressions = excluded.impressions,
			position = excluded.position`
	_, err := db.ExecContext(ctx, sqlStatement, rec.ClientID, rec.Query, rec.Clicks, rec.Impressions, rec.Position, rec.Period)
	if err != nil {
		customLog.Warnf("Storage: Failed to upsert search query for client %s: %v", rec.ClientID, err)
		return fmt.Errorf("database error upserting search query: %w", err)
	}
	return nil
}

// ListSearchQueries retrieves a client's query rows, newest period first,
// highest clicks first within a period.
func ListSearchQueries(ctx context.Context, db *sql.DB, clientID string) ([]domain.SearchQuery, error) {
	query := `SELECT id, client_id, query, clicks, impressions, position, period, created_at
		FROM search_queries WHERE client_id = ? ORDER BY period DESC, clicks DESC`
	rows, err := db.QueryContext(ctx, query, clientID)
	if err != nil {
		customLog.Warnf("Storage: Error listing search queries for client %s: %v", clientID, err)
		return nil, fmt.Errorf("database error listing search queries: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchQuery
	for rows.Next() {
		var rec domain.SearchQuery
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.Query, &rec.Clicks, &rec.Impressions, &rec.Position, &rec.Period, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed processing search query list: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading search query list: %w", err)
	}

	if records == nil {
		records = make([]domain.SearchQuery, 0)
	}
	return records, nil
}

// DeleteSearchQueriesByPeriod removes every query row for one client and
// period, returning the number of rows deleted.
func DeleteSearchQueriesByPeriod(ctx context.Context, db *sql.DB, clientID, period string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM search_queries WHERE client_id = ? AND period = ?`, clientID, period)
	if err != nil {
		customLog.Warnf("Storage: Error deleting search queries for client %s period %s: %v", clientID, period, err)
		return 0, fmt.Errorf("database error deleting search queries: %w", err)
	}
	return result.RowsAffected()
}

// --- Top Pages ---

// InsertTopPage stores one page row. Duplicate natural keys
// (client_id, page_url, period) fail with the constraint error.
func InsertTopPage(ctx context.Context, db *sql.DB, rec *domain.TopPage) error {
	sqlStatement := `INSERT INTO top_pages (client_id, page_url, clicks, impressions, position, period)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, sqlStatement, rec.ClientID, rec.PageURL, rec.Clicks, rec.Impressions, rec.Position, rec.Period)
	if err != nil {
		return fmt.Errorf("database error inserting top page: %w", err)
	}
	return nil
}

// UpsertTopPage inserts or, on a natural-key conflict, refreshes the
// numeric fields of an existing row.
func UpsertTopPage(ctx context.Context, db *sql.DB, rec *domain.TopPage) error {
	sqlStatement := `INSERT INTO top_pages (client_id, page_url, clicks, impressions, position, period)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (client_id, page_url, period) DO UPDATE SET
			clicks = excluded.clicks,
			impressions = excluded.impressions,
			position = excluded.position`
	_, err := db.ExecContext(ctx, sqlStatement, rec.ClientID, rec.PageURL, rec.Clicks, rec.Impressions, rec.Position, rec.Period)
	if err != nil {
		customLog.Warnf("Storage: Failed to upsert top page for client %s: %v", rec.ClientID, err)
		return fmt.Errorf("database error upserting top page: %w", err)
	}
	return nil
}

// ListTopPages retrieves a client's page rows, newest period first, highest
// clicks first within a period.
func ListTopPages(ctx context.Context, db *sql.DB, clientID string) ([]domain.TopPage, error) {
	query := `SELECT id, client_id, page_url, clicks, impressions, position, period, created_at
		FROM top_pages WHERE client_id = ? ORDER BY period DESC, clicks DESC`
	rows, err := db.QueryContext(ctx, query, clientID)
	if err != nil {
		customLog.Warnf("Storage: Error listing top pages for client %s: %v", clientID, err)
		return nil, fmt.Errorf("database error listing top pages: %w", err)
	}
	defer rows.Close()

	var records []domain.TopPage
	for rows.Next() {
		var rec domain.TopPage
		if err := rows.Scan(&rec.ID, &rec.ClientID, &rec.PageURL, &rec.Clicks, &rec.Impressions, &rec.Position, &rec.Period, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed processing top page list: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading top page list: %w", err)
	}

	if records == nil {
		records = make([]domain.TopPage, 0)
	}
	return records, nil
}

// DeleteTopPagesByPeriod removes every page row for one client and period,
// returning the number of rows deleted.
func DeleteTopPagesByPeriod(ctx context.Context, db *sql.DB, clientID, period string) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM top_pages WHERE client_id = ? AND period = ?`, clientID, period)
	if err != nil {
		customLog.Warnf("Storage: Error deleting top pages for client %s period %s: %v", clientID, period, err)
		return 0, fmt.Errorf("database error deleting top pages: %w", err)
	}
	return result.RowsAffected()
}

// --- Reports ---

// CreateReport records one report entry for the overview tally.
func CreateReport(ctx context.Context, db *sql.DB, clientID string) (*domain.Report, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO reports (client_id) VALUES (?)`, clientID)
	if err != nil {
		customLog.Warnf("Storage: Failed to insert report for client %s: %v", clientID, err)
		return nil, fmt.Errorf("database error creating report: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to confirm report insert: %w", err)
	}

	var rep domain.Report
	err = db.QueryRowContext(ctx, `SELECT id, client_id, created_at FROM reports WHERE id = ?`, id).
		Scan(&rep.ID, &rep.ClientID, &rep.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("database error reading report: %w", err)
	}
	return &rep, nil
}

// ListReports retrieves a client's report entries, newest first.
func ListReports(ctx context.Context, db *sql.DB, clientID string) ([]domain.Report, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, client_id, created_at FROM reports WHERE client_id = ? ORDER BY created_at DESC`, clientID)
	if err != nil {
		customLog.Warnf("Storage: Error listing reports for client %s: %v", clientID, err)
		return nil, fmt.Errorf("database error listing reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(&rep.ID, &rep.ClientID, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed processing report list: %w", err)
		}
		reports = append(reports, rep)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading report list: %w", err)
	}

	if reports == nil {
		reports = make([]domain.Report, 0)
	}
	return reports, nil
}

// CountReports tallies a client's report entries.
func CountReports(ctx context.Context, db *sql.DB, clientID string) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE client_id = ?`, clientID).Scan(&count)
	if err != nil {
		customLog.Warnf("Storage: Error counting reports for client %s: %v", clientID, err)
		return 0, fmt.Errorf("database error counting reports: %w", err)
	}
	return count, nil
}
