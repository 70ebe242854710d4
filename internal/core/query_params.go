// internal/core/query_params.go
package core

import (
	"fmt"
	"net/url"
)

// MetricFilter holds the optional filters a metrics listing accepts.
type MetricFilter struct {
	Type      string // exact metric_type match
	StartDate string // inclusive lower bound on date
	EndDate   string // inclusive upper bound on date
}

// ParseMetricFilter extracts listing filters from query parameters.
// Returns a validation error for unknown metric types or malformed dates.
func ParseMetricFilter(queryParams url.Values) (*MetricFilter, error) {
	filter := &MetricFilter{}

	if metricType := queryParams.Get("type"); metricType != "" {
		if !IsKnownMetricType(metricType) {
			return nil, fmt.Errorf("invalid 'type' parameter: unknown metric type %q", metricType)
		}
		filter.Type = metricType
	}

	if startDate := queryParams.Get("startDate"); startDate != "" {
		if _, err := ParsePeriod(startDate); err != nil {
			return nil, fmt.Errorf("invalid 'startDate' parameter: %w", err)
		}
		filter.StartDate = startDate
	}

	if endDate := queryParams.Get("endDate"); endDate != "" {
		if _, err := ParsePeriod(endDate); err != nil {
			return nil, fmt.Errorf("invalid 'endDate' parameter: %w", err)
		}
		filter.EndDate = endDate
	}

	return filter, nil
}
