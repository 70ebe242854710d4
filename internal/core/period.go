// internal/core/period.go
package core

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrInvalidPeriod signals a date that is neither "YYYY-MM" nor "YYYY-MM-DD".
	ErrInvalidPeriod = errors.New("invalid period format, expected YYYY-MM")

	monthPeriodRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// IsMonthPeriod reports whether s is a bare "YYYY-MM" month string.
func IsMonthPeriod(s string) bool {
	return monthPeriodRegex.MatchString(s)
}

// NormalizeMetricDate converts an incoming "YYYY-MM" date to the
// "YYYY-MM-01" form persisted in the metrics table.
func NormalizeMetricDate(date string) (string, error) {
	if !IsMonthPeriod(date) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriod, date)
	}
	if _, err := time.Parse("2006-01", date); err != nil {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriod, date)
	}
	return date + "-01", nil
}

// ParsePeriod parses a stored period defensively, accepting both "YYYY-MM"
// and "YYYY-MM-DD" encodings. Rows with unparseable periods are expected to
// be skipped by the caller, not treated as fatal.
func ParsePeriod(period string) (time.Time, error) {
	if IsMonthPeriod(period) {
		return time.Parse("2006-01", period)
	}
	t, err := time.Parse("2006-01-02", period)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidPeriod, period)
	}
	return t, nil
}

// MonthKey trims a stored date to its "YYYY-MM" month bucket.
func MonthKey(period string) string {
	if len(period) >= 7 {
		return period[:7]
	}
	return period
}
