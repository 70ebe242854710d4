// internal/core/metric_types.go
package core

// The closed set of metric types the dashboard records. Writes of anything
// outside this set are rejected up front instead of silently falling through
// the aggregation arithmetic as zero.
const (
	MetricGBPCalls              = "gbp_calls"
	MetricGBPDirections         = "gbp_directions"
	MetricGBPWebsiteClicks      = "gbp_website_clicks"
	MetricGBPPhoneCalls         = "gbp_phone_calls"
	MetricGBPReviews            = "gbp_reviews"
	MetricGSCOrganicClicks      = "gsc_organic_clicks"
	MetricGSCOrganicImpressions = "gsc_organic_impressions"
)

// metricTypeLabels maps each known type to its display name.
var metricTypeLabels = map[string]string{
	MetricGBPCalls:              "GBP Calls",
	MetricGBPDirections:         "GBP Direction Requests",
	MetricGBPWebsiteClicks:      "GBP Website Clicks",
	MetricGBPPhoneCalls:         "GBP Phone Calls",
	MetricGBPReviews:            "Reviews (New)",
	MetricGSCOrganicClicks:      "Organic Clicks",
	MetricGSCOrganicImpressions: "Organic Impressions",
}

// RevenueMetricTypes is the allow-list feeding the lead-potential
// projection, in the order the breakdown is reported.
var RevenueMetricTypes = []string{
	MetricGBPWebsiteClicks,
	MetricGBPPhoneCalls,
	MetricGSCOrganicClicks,
}

// IsKnownMetricType reports whether metricType belongs to the closed set.
func IsKnownMetricType(metricType string) bool {
	_, ok := metricTypeLabels[metricType]
	return ok
}

// MetricTypeLabel returns the display name for a metric type, falling back
// to the raw tag for anything outside the known set (old rows may predate
// the enumeration).
func MetricTypeLabel(metricType string) string {
	if label, ok := metricTypeLabels[metricType]; ok {
		return label
	}
	return metricType
}
