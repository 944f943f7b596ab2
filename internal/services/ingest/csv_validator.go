// Package ingest implements strict parsing and validation of uploaded series
// files. A file is either rejected with a user-facing reason or normalized
// into a sorted, gap-free sequence of rows with a detected cadence.
package ingest

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/maifast-lab/maifast/pkg/util"
)

// Row is one validated (date, value) pair.
type Row struct {
	Date  string
	Value float64
}

// Result is the outcome of a successful validation: rows sorted ascending by
// date plus the single cadence every consecutive pair agrees on.
type Result struct {
	Rows          []Row
	FrequencyDays int
}

var (
	lineSplit  = regexp.MustCompile(`\r?\n`)
	dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidateCSV parses and validates raw CSV content. The first violation wins;
// the returned error message is safe to show to the uploader.
func ValidateCSV(content string) (*Result, error) {
	rows, err := parseStructure(content)
	if err != nil {
		return nil, err
	}

	freq, err := validateFrequency(rows)
	if err != nil {
		return nil, err
	}

	return &Result{Rows: rows, FrequencyDays: freq}, nil
}

// parseStructure enforces header shape, per-row completeness, date format,
// numeric values, and in-file duplicate dates. Row numbers in messages are
// 1-based over data rows, header excluded.
func parseStructure(content string) ([]Row, error) {
	lines := lineSplit.Split(strings.TrimSpace(content), -1)
	if len(lines) < 2 {
		return nil, fmt.Errorf("CSV must have a header and at least one data row.")
	}

	if strings.TrimSpace(lines[0]) != "date,value" {
		return nil, fmt.Errorf(`Header must be exactly "date,value"`)
	}

	rows := make([]Row, 0, len(lines)-1)
	seen := make(map[string]struct{}, len(lines)-1)

	for i, line := range lines[1:] {
		rowNum := i + 1

		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("Row %d: Missing required columns.", rowNum)
		}

		dateStr := strings.TrimSpace(parts[0])
		valueStr := strings.TrimSpace(parts[1])

		if dateStr == "" || valueStr == "" {
			return nil, fmt.Errorf("Row %d: Contains empty values.", rowNum)
		}

		if _, ok := util.ParseDay(dateStr); !ok {
			if dayPattern.MatchString(dateStr) {
				return nil, fmt.Errorf(`Row %d: Invalid date "%s".`, rowNum, dateStr)
			}
			return nil, fmt.Errorf(`Row %d: Invalid date format "%s". Expected YYYY-MM-DD.`, rowNum, dateStr)
		}

		val, err := strconv.ParseFloat(valueStr, 64)
		if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
			return nil, fmt.Errorf(`Row %d: Value "%s" is not a finite number.`, rowNum, valueStr)
		}

		if _, dup := seen[dateStr]; dup {
			return nil, fmt.Errorf("Duplicate date found in CSV: %s", dateStr)
		}
		seen[dateStr] = struct{}{}

		rows = append(rows, Row{Date: dateStr, Value: val})
	}

	return rows, nil
}

// validateFrequency sorts rows ascending and requires a single strictly
// positive day delta between every consecutive pair. Sorts in place.
func validateFrequency(rows []Row) (int, error) {
	if len(rows) < 2 {
		return 0, fmt.Errorf("Need at least 2 data points to establish frequency.")
	}

	// ISO day strings sort lexically in chronological order.
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	deltas := make([]int, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		deltas = append(deltas, util.DaysBetween(rows[i-1].Date, rows[i].Date))
	}

	// Duplicates are caught above; a zero delta here would mean the structural
	// pass let one through, so re-check anyway.
	for _, d := range deltas {
		if d <= 0 {
			return 0, fmt.Errorf("Dates must be strictly increasing (found duplicate or unordered after sort).")
		}
	}

	first := deltas[0]
	for _, d := range deltas {
		if d != first {
			return 0, fmt.Errorf(
				"Invalid date series. Expected consistent interval of %d days but found gaps: [%s...]",
				first, joinDeltas(deltas, 5))
		}
	}

	return first, nil
}

func joinDeltas(deltas []int, max int) string {
	if len(deltas) > max {
		deltas = deltas[:max]
	}
	parts := make([]string, len(deltas))
	for i, d := range deltas {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}
