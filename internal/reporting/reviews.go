// internal/reporting/reviews.go
package reporting

import (
	"sort"

	"github.com/seodash/seodash-backend/internal/core"
	"github.com/seodash/seodash-backend/internal/domain"
)

// ReviewPoint is one month of the cumulative review counter. Cumulative is
// the running total AFTER adding that period's new reviews.
type ReviewPoint struct {
	Period     string  `json:"period"`
	NewReviews float64 `json:"new_reviews"`
	Cumulative float64 `json:"cumulative"`
}

// CumulativeReviews walks the client's new-review rows in ascending period
// order, accumulating from the account's starting count. Months with
// multiple rows contribute each row; months with none leave the running
// total unchanged (and emit no point).
func CumulativeReviews(startCount int64, metrics []domain.Metric) []ReviewPoint {
	var reviews []domain.Metric
	for _, m := range metrics {
		if m.MetricType == core.MetricGBPReviews {
			reviews = append(reviews, m)
		}
	}

	// Periods are "YYYY-MM-01" strings, so lexicographic order is
	// chronological order.
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Date < reviews[j].Date
	})

	points := make([]ReviewPoint, 0, len(reviews))
	running := float64(startCount)
	for _, m := range reviews {
		running += m.Value
		points = append(points, ReviewPoint{
			Period:     core.MonthKey(m.Date),
			NewReviews: m.Value,
			Cumulative: running,
		})
	}
	return points
}
