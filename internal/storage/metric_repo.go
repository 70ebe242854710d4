// internal/storage/metric_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/domain"
)

// Specific errors for metric operations
var (
	ErrMetricNotFound = errors.New("metric not found")
)

// InsertMetric stores one monthly figure and returns the row with its
// generated id and timestamp.
func InsertMetric(ctx context.Context, db *sql.DB, m *domain.Metric) (*domain.Metric, error) {
	sqlStatement := `INSERT INTO metrics (client_id, metric_type, value, date) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, sqlStatement, m.ClientID, m.MetricType, m.Value, m.Date)
	if err != nil {
		customLog.Warnf("Storage: Failed to insert metric for client %s: %v", m.ClientID, err)
		return nil, fmt.Errorf("database error during metric insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to confirm metric insert: %w", err)
	}

	return FindMetricByID(ctx, db, id)
}

// FindMetricByID retrieves a single metric row.
func FindMetricByID(ctx context.Context, db *sql.DB, id int64) (*domain.Metric, error) {
	sqlStatement := `SELECT id, client_id, metric_type, value, date, created_at FROM metrics WHERE id = ? LIMIT 1`
	var m domain.Metric
	err := db.QueryRowContext(ctx, sqlStatement, id).Scan(&m.ID, &m.ClientID, &m.MetricType, &m.Value, &m.Date, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMetricNotFound
		}
		customLog.Warnf("Storage: Failed to find metric %d: %v", id, err)
		return nil, fmt.Errorf("database error finding metric: %w", err)
	}
	return &m, nil
}

// ListMetrics retrieves a client's metrics, optionally filtered by type and
// date range, ordered by date then creation time, newest first. The stable
// ordering keeps repeated reads identical.
func ListMetrics(ctx context.Context, db *sql.DB, clientID string, filter *core.MetricFilter) ([]domain.Metric, error) {
	conditions := []string{"client_id = ?"}
	args := []any{clientID}

	if filter != nil {
		if filter.Type != "" {
			conditions = append(conditions, "metric_type = ?")
			args = append(args, filter.Type)
		}
		if filter.StartDate != "" {
			conditions = append(conditions, "date >= ?")
			args = append(args, filter.StartDate)
		}
		if filter.EndDate != "" {
			conditions = append(conditions, "date <= ?")
			args = append(args, filter.EndDate)
		}
	}

	query := `SELECT id, client_id, metric_type, value, date, created_at FROM metrics WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC, created_at DESC, id DESC`
	return queryMetrics(ctx, db, clientID, query, args...)
}

// ListMetricsByTypes retrieves all of a client's rows for the given metric
// types, newest first, for the aggregator.
func ListMetricsByTypes(ctx context.Context, db *sql.DB, clientID string, types []string) ([]domain.Metric, error) {
	if len(types) == 0 {
		return make([]domain.Metric, 0), nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(types)), ", ")
	args := []any{clientID}
	for _, t := range types {
		args = append(args, t)
	}

	query := `SELECT id, client_id, metric_type, value, date, created_at FROM metrics
		WHERE client_id = ? AND metric_type IN (` + placeholders + `)
		ORDER BY date DESC, created_at DESC, id DESC`
	return queryMetrics(ctx, db, clientID, query, args...)
}

// ListMetricTypesSince returns the metric_type of every row recorded on or
// after sinceDate, for the overview tally.
func ListMetricTypesSince(ctx context.Context, db *sql.DB, clientID, sinceDate string) ([]string, error) {
	query := `SELECT metric_type FROM metrics WHERE client_id = ? AND date >= ?`
	rows, err := db.QueryContext(ctx, query, clientID, sinceDate)
	if err != nil {
		customLog.Warnf("Storage: Error listing metric types for client %s: %v", clientID, err)
		return nil, fmt.Errorf("database error listing metric types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed processing metric types: %w", err)
		}
		types = append(types, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading metric types: %w", err)
	}
	return types, nil
}

// DeleteMetric removes a single metric row by id.
func DeleteMetric(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM metrics WHERE id = ?`, id)
	if err != nil {
		customLog.Warnf("Storage: Error deleting metric %d: %v", id, err)
		return fmt.Errorf("database error deleting metric: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming metric deletion: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMetricNotFound
	}
	return nil
}

func queryMetrics(ctx context.Context, db *sql.DB, clientID, query string, args ...any) ([]domain.Metric, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		customLog.Warnf("Storage: Error listing metrics for client %s: %v", clientID, err)
		return nil, fmt.Errorf("database error listing metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.Metric
	for rows.Next() {
		var m domain.Metric
		if err := rows.Scan(&m.ID, &m.ClientID, &m.MetricType, &m.Value, &m.Date, &m.CreatedAt); err != nil {
			customLog.Warnf("Storage: Error scanning metric row for client %s: %v", clientID, err)
			return nil, fmt.Errorf("failed processing metric list: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err = rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating metric list for client %s: %v", clientID, err)
		return nil, fmt.Errorf("failed reading metric list: %w", err)
	}

	if metrics == nil {
		metrics = make([]domain.Metric, 0)
	}
	return metrics, nil
}
