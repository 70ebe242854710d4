// internal/importer/csv.go

// Package importer parses bulk Search Console exports. The parser is a
// deliberate match for the legacy ingestion behavior: naive comma split
// with quote stripping, NOT RFC-4180 (embedded commas or escaped quotes in
// fields will mis-split). Replacing it with a conformant parser changes
// which historical files import, so the fragility is kept for now.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DataKind selects which table an import feeds.
type DataKind string

const (
	KindQueries DataKind = "queries"
	KindPages   DataKind = "pages"
)

var (
	// ErrColumnMapping signals a header row missing a required column; the
	// whole import is rejected before any row is inserted.
	ErrColumnMapping = errors.New("could not map required CSV columns")

	// ErrEmptyFile signals a file without a header and at least one data row.
	ErrEmptyFile = errors.New("CSV file must have at least a header row and one data row")

	// ErrUnknownDataKind signals a data_type outside {queries, pages}.
	ErrUnknownDataKind = errors.New(`invalid data_type, must be "queries" or "pages"`)
)

// ParseDataKind validates the request's data_type selector.
func ParseDataKind(s string) (DataKind, error) {
	switch DataKind(s) {
	case KindQueries, KindPages:
		return DataKind(s), nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnknownDataKind, s)
	}
}

// Row is one importable record: the query text or page URL plus its
// numeric fields. Counts that fail to parse default to zero rather than
// rejecting the row.
type Row struct {
	Key         string
	Clicks      int64
	Impressions int64
	Position    float64
}

// columnMap holds resolved header positions.
type columnMap struct {
	key         int
	clicks      int
	impressions int
	position    int
}

// Parse reads a tabular export and returns the importable rows. Column
// positions are resolved from the header by case-insensitive substring
// match ("query"/"page", "clicks", "impressions", "position"; the first
// matching header wins). Rows missing any of the four resolved fields are
// skipped silently; a header missing any required column fails the whole
// parse with ErrColumnMapping.
func Parse(r io.Reader, kind DataKind) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed reading CSV: %w", err)
		}
		return nil, ErrEmptyFile
	}

	header := splitLine(scanner.Text())
	cols, err := resolveColumns(header, kind)
	if err != nil {
		return nil, err
	}

	maxIdx := cols.key
	for _, idx := range []int{cols.clicks, cols.impressions, cols.position} {
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	var rows []Row
	sawData := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sawData = true

		fields := splitLine(line)
		if len(fields) <= maxIdx {
			continue
		}

		key := fields[cols.key]
		clicksStr := fields[cols.clicks]
		impressionsStr := fields[cols.impressions]
		positionStr := fields[cols.position]
		if key == "" || clicksStr == "" || impressionsStr == "" || positionStr == "" {
			continue
		}

		rows = append(rows, Row{
			Key:         key,
			Clicks:      parseCount(clicksStr),
			Impressions: parseCount(impressionsStr),
			Position:    parsePosition(positionStr),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading CSV: %w", err)
	}
	if !sawData {
		return nil, ErrEmptyFile
	}

	return rows, nil
}

// resolveColumns maps required field names to header positions. The key
// column substring depends on the data kind.
func resolveColumns(header []string, kind DataKind) (*columnMap, error) {
	keySubstring := "query"
	if kind == KindPages {
		keySubstring = "page"
	}

	cols := &columnMap{
		key:         findColumn(header, keySubstring),
		clicks:      findColumn(header, "clicks"),
		impressions: findColumn(header, "impressions"),
		position:    findColumn(header, "position"),
	}

	var missing []string
	for _, req := range []struct {
		substring string
		idx       int
	}{
		{keySubstring, cols.key},
		{"clicks", cols.clicks},
		{"impressions", cols.impressions},
		{"position", cols.position},
	} {
		if req.idx < 0 {
			missing = append(missing, req.substring)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: no header contains %q", ErrColumnMapping, strings.Join(missing, ", "))
	}
	return cols, nil
}

// findColumn returns the index of the first header containing substring,
// case-insensitively, or -1.
func findColumn(header []string, substring string) int {
	for i, h := range header {
		if strings.Contains(strings.ToLower(h), substring) {
			return i
		}
	}
	return -1
}

// splitLine splits on commas and strips surrounding quotes and whitespace
// from each field.
func splitLine(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	parts := strings.Split(line, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, `"`, "")
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parsePosition(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
