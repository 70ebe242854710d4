// internal/reporting/lead_potential.go

// Package reporting reduces a client's raw monthly metric rows into the
// summaries the dashboard renders: the lead-potential revenue projection,
// the cumulative review series, and the overview tally.
package reporting

import (
	"math"
	"strings"
	"time"

	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/domain"
)

// Account-level defaults applied when the client has no explicit
// configuration. ConversionRate is a 0-100 percentage, never a fraction.
const (
	DefaultLeadValue      = 2500
	DefaultConversionRate = 50
)

// BreakdownEntry is one allow-listed metric type's raw click figure. Values
// are not pre-multiplied by the conversion rate or lead value; the UI
// re-derives the revenue split for transparency.
type BreakdownEntry struct {
	Type       string  `json:"type"`
	TotalValue float64 `json:"total_value"`
}

// PeriodSummary is the projection for one bucketing: the most recently
// completed month, or everything since the account started.
type PeriodSummary struct {
	Month       string           `json:"month,omitempty"`
	StartDate   string           `json:"start_date,omitempty"`
	TotalClicks float64          `json:"total_clicks"`
	TotalValue  int64            `json:"total_value"`
	Breakdown   []BreakdownEntry `json:"breakdown"`
}

// LeadPotential is the full aggregator output for one client.
type LeadPotential struct {
	ClientID       string        `json:"client_id"`
	LeadValue      float64       `json:"lead_value"`
	ConversionRate float64       `json:"conversion_rate"`
	CurrentMonth   PeriodSummary `json:"current_month"`
	SinceStart     PeriodSummary `json:"since_start"`
}

// ReferenceMonth returns the first day of the calendar month immediately
// preceding now. January wraps to December of the previous year.
func ReferenceMonth(now time.Time) time.Time {
	year, month := now.Year(), now.Month()
	if month == time.January {
		return time.Date(year-1, time.December, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
}

// ComputeLeadPotential turns the client's allow-listed metric rows and
// account configuration into the monthly and cumulative projections.
// metrics is expected newest-first (the repo's ordering) so that duplicate
// month buckets resolve to the most recent row. With no rows at all the
// result is a well-formed zero summary, never an error.
func ComputeLeadPotential(acc *domain.Account, metrics []domain.Metric, now time.Time) *LeadPotential {
	leadValue := acc.LeadValue
	if leadValue == 0 {
		leadValue = DefaultLeadValue
	}
	conversionRate := acc.ConversionRate
	if conversionRate == 0 {
		conversionRate = DefaultConversionRate
	}

	refMonth := ReferenceMonth(now)
	refPrefix := refMonth.Format("2006-01")

	var monthlyClicks, totalClicks float64
	monthlyBreakdown := make([]BreakdownEntry, 0, len(core.RevenueMetricTypes))
	totalBreakdown := make([]BreakdownEntry, 0, len(core.RevenueMetricTypes))

	for _, metricType := range core.RevenueMetricTypes {
		var monthValue, cumulative float64
		monthFound := false
		for _, m := range metrics {
			if m.MetricType != metricType {
				continue
			}
			cumulative += m.Value
			// First match in newest-first order wins the month bucket.
			if !monthFound && strings.HasPrefix(m.Date, refPrefix) {
				monthValue = m.Value
				monthFound = true
			}
		}

		monthlyClicks += monthValue
		totalClicks += cumulative
		label := core.MetricTypeLabel(metricType)
		monthlyBreakdown = append(monthlyBreakdown, BreakdownEntry{Type: label, TotalValue: monthValue})
		totalBreakdown = append(totalBreakdown, BreakdownEntry{Type: label, TotalValue: cumulative})
	}

	rate := conversionRate / 100

	return &LeadPotential{
		ClientID:       acc.ClientID,
		LeadValue:      leadValue,
		ConversionRate: conversionRate,
		CurrentMonth: PeriodSummary{
			Month:       refMonth.Format("January 2006"),
			TotalClicks: monthlyClicks,
			TotalValue:  int64(math.Round(monthlyClicks * rate * leadValue)),
			Breakdown:   monthlyBreakdown,
		},
		SinceStart: PeriodSummary{
			StartDate:   earliestPeriodDisplay(metrics),
			TotalClicks: totalClicks,
			TotalValue:  int64(math.Round(totalClicks * rate * leadValue)),
			Breakdown:   totalBreakdown,
		},
	}
}

// earliestPeriodDisplay finds the oldest parseable period across all rows.
// Both "YYYY-MM" and "YYYY-MM-DD" encodings are accepted; rows that fail to
// parse are excluded rather than treated as errors.
func earliestPeriodDisplay(metrics []domain.Metric) string {
	var earliest time.Time
	found := false
	for _, m := range metrics {
		t, err := core.ParsePeriod(m.Date)
		if err != nil {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	if !found {
		return "No data available"
	}
	return earliest.Format("January 2006")
}
