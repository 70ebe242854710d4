// internal/reporting/overview.go
package reporting

import (
	"sort"
	"time"
)

// MetricTypeCount tallies how many rows of one metric type were recorded in
// the overview window.
type MetricTypeCount struct {
	MetricType string `json:"metric_type"`
	Count      int64  `json:"count"`
}

// Overview is the dashboard summary card payload.
type Overview struct {
	ClientID    string            `json:"client_id"`
	Reports     ReportTally       `json:"reports"`
	Metrics     []MetricTypeCount `json:"metrics"`
	LastUpdated time.Time         `json:"last_updated"`
}

type ReportTally struct {
	Total int64 `json:"total"`
}

// BuildOverview groups the trailing-window metric types into per-type
// counts. Output order is alphabetical so repeated reads are identical.
func BuildOverview(clientID string, reportTotal int64, metricTypes []string, now time.Time) *Overview {
	counts := map[string]int64{}
	for _, t := range metricTypes {
		counts[t]++
	}

	tallies := make([]MetricTypeCount, 0, len(counts))
	for t, n := range counts {
		tallies = append(tallies, MetricTypeCount{MetricType: t, Count: n})
	}
	sort.Slice(tallies, func(i, j int) bool {
		return tallies[i].MetricType < tallies[j].MetricType
	})

	return &Overview{
		ClientID:    clientID,
		Reports:     ReportTally{Total: reportTotal},
		Metrics:     tallies,
		LastUpdated: now,
	}
}
