// internal/storage/account_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/seodash/seodash-backend/internal/domain"
)

// Specific errors for account operations
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrClientIDExists     = errors.New("client ID already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const accountColumns = `id, username, password_hash, role, client_id, start_date, notes,
	map_image, lead_value, conversion_rate, reviews_start_count, created_at`

// scanAccount flattens the nullable columns into the domain struct.
func scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var acc domain.Account
	var clientID, startDate, notes, mapImage sql.NullString
	var leadValue, conversionRate sql.NullFloat64
	var reviewsStart sql.NullInt64

	err := row.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.Role,
		&clientID, &startDate, &notes, &mapImage,
		&leadValue, &conversionRate, &reviewsStart, &acc.CreatedAt)
	if err != nil {
		return nil, err
	}

	acc.ClientID = clientID.String
	acc.StartDate = startDate.String
	acc.Notes = notes.String
	acc.MapImage = mapImage.String
	acc.LeadValue = leadValue.Float64
	acc.ConversionRate = conversionRate.Float64
	acc.ReviewsStartCount = reviewsStart.Int64
	return &acc, nil
}

// nullable maps the zero value to NULL so unset optional columns stay NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateAccount inserts a new account. Username and client_id uniqueness
// violations map to their sentinel errors.
func CreateAccount(ctx context.Context, db *sql.DB, acc *domain.Account) error {
	sqlStatement := `INSERT INTO accounts (id, username, password_hash, role, client_id, start_date)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, sqlStatement, acc.ID, acc.Username, acc.PasswordHash,
		acc.Role, nullable(acc.ClientID), nullable(acc.StartDate))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			if strings.Contains(sqliteErr.Error(), "accounts.username") {
				return ErrUsernameExists
			}
			if strings.Contains(sqliteErr.Error(), "accounts.client_id") {
				return ErrClientIDExists
			}
		}
		customLog.Warnf("Storage: Failed to insert account %s: %v", acc.Username, err)
		return fmt.Errorf("database error during account creation: %w", err)
	}
	return nil
}

// FindAccountByUsername retrieves an account by its login name.
func FindAccountByUsername(ctx context.Context, db *sql.DB, username string) (*domain.Account, error) {
	sqlStatement := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ? LIMIT 1`
	acc, err := scanAccount(db.QueryRowContext(ctx, sqlStatement, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		customLog.Warnf("Storage: Failed to find account by username %s: %v", username, err)
		return nil, fmt.Errorf("database error finding account: %w", err)
	}
	return acc, nil
}

// FindClientAccount retrieves the client-role account owning clientID.
func FindClientAccount(ctx context.Context, db *sql.DB, clientID string) (*domain.Account, error) {
	sqlStatement := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = ? AND role = 'client' LIMIT 1`
	acc, err := scanAccount(db.QueryRowContext(ctx, sqlStatement, clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		customLog.Warnf("Storage: Failed to find client account %s: %v", clientID, err)
		return nil, fmt.Errorf("database error finding account: %w", err)
	}
	return acc, nil
}

// ListClientAccounts retrieves every client-role account, newest first.
func ListClientAccounts(ctx context.Context, db *sql.DB) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = 'client' ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		customLog.Warnf("Storage: Error listing client accounts: %v", err)
		return nil, fmt.Errorf("database error listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			customLog.Warnf("Storage: Error scanning account row: %v", err)
			return nil, fmt.Errorf("failed processing account list: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err = rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating account list: %v", err)
		return nil, fmt.Errorf("failed reading account list: %w", err)
	}

	if accounts == nil {
		accounts = make([]domain.Account, 0)
	}
	return accounts, nil
}

// AccountUpdate holds the admin-mutable account fields. Nil pointers are
// left untouched.
type AccountUpdate struct {
	StartDate         *string
	Notes             *string
	MapImage          *string
	LeadValue         *float64
	ConversionRate    *float64
	ReviewsStartCount *int64
}

// UpdateClientAccount applies the non-nil fields of upd to the client-role
// account owning clientID.
func UpdateClientAccount(ctx context.Context, db *sql.DB, clientID string, upd AccountUpdate) error {
	setClauses := []string{}
	args := []any{}

	if upd.StartDate != nil {
		setClauses = append(setClauses, "start_date = ?")
		args = append(args, nullable(*upd.StartDate))
	}
	if upd.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, nullable(*upd.Notes))
	}
	if upd.MapImage != nil {
		setClauses = append(setClauses, "map_image = ?")
		args = append(args, nullable(*upd.MapImage))
	}
	if upd.LeadValue != nil {
		setClauses = append(setClauses, "lead_value = ?")
		args = append(args, *upd.LeadValue)
	}
	if upd.ConversionRate != nil {
		setClauses = append(setClauses, "conversion_rate = ?")
		args = append(args, *upd.ConversionRate)
	}
	if upd.ReviewsStartCount != nil {
		setClauses = append(setClauses, "reviews_start_count = ?")
		args = append(args, *upd.ReviewsStartCount)
	}

	if len(setClauses) == 0 {
		return nil // Nothing to update
	}

	args = append(args, clientID)
	// nolint:gosec // setClauses only contains hardcoded column assignments
	sqlStatement := fmt.Sprintf("UPDATE accounts SET %s WHERE client_id = ? AND role = 'client'", strings.Join(setClauses, ", "))

	result, err := db.ExecContext(ctx, sqlStatement, args...)
	if err != nil {
		customLog.Warnf("Storage: Failed to update client account %s: %v", clientID, err)
		return fmt.Errorf("database error during account update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm account update: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// DeleteAccountCascade removes the client's metrics, search queries, top
// pages and reports, then the account row itself. The sequence is not
// transactional: a failure part way through leaves earlier deletions in
// place, and the error is surfaced to the caller.
func DeleteAccountCascade(ctx context.Context, db *sql.DB, clientID string) error {
	acc, err := FindClientAccount(ctx, db, clientID)
	if err != nil {
		return err
	}

	dependents := []string{
		`DELETE FROM metrics WHERE client_id = ?`,
		`DELETE FROM search_queries WHERE client_id = ?`,
		`DELETE FROM top_pages WHERE client_id = ?`,
		`DELETE FROM reports WHERE client_id = ?`,
	}
	for _, stmt := range dependents {
		if _, err := db.ExecContext(ctx, stmt, clientID); err != nil {
			customLog.Warnf("Storage: Cascade delete failed for client %s: %v", clientID, err)
			return fmt.Errorf("database error deleting client data: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, acc.ID); err != nil {
		customLog.Warnf("Storage: Failed to delete account %s: %v", acc.ID, err)
		return fmt.Errorf("database error deleting account: %w", err)
	}
	return nil
}
