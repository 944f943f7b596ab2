package ingest

import (
	"strings"
	"testing"
)

func TestValidateCSVDailySeries(t *testing.T) {
	csv := "date,value\n2024-01-01,10\n2024-01-02,11\n2024-01-03,12\n"
	res, err := ValidateCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FrequencyDays != 1 {
		t.Fatalf("expected cadence 1, got %d", res.FrequencyDays)
	}
	if len(res.Rows) != 3 || res.Rows[0].Date != "2024-01-01" || res.Rows[2].Date != "2024-01-03" {
		t.Fatalf("unexpected rows %+v", res.Rows)
	}
}

func TestValidateCSVWeeklySeries(t *testing.T) {
	csv := "date,value\n2024-01-01,5\n2024-01-08,6\n2024-01-15,7\n2024-01-22,8\n"
	res, err := ValidateCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FrequencyDays != 7 {
		t.Fatalf("expected cadence 7, got %d", res.FrequencyDays)
	}
}

func TestValidateCSVShuffledRowsSameResult(t *testing.T) {
	sorted := "date,value\n2024-01-01,1\n2024-01-02,2\n2024-01-03,3\n"
	shuffled := "date,value\n2024-01-03,3\n2024-01-01,1\n2024-01-02,2\n"

	a, err := ValidateCSV(sorted)
	if err != nil {
		t.Fatalf("sorted: %v", err)
	}
	b, err := ValidateCSV(shuffled)
	if err != nil {
		t.Fatalf("shuffled: %v", err)
	}
	if a.FrequencyDays != b.FrequencyDays {
		t.Fatalf("cadence mismatch %d vs %d", a.FrequencyDays, b.FrequencyDays)
	}
	for i := range a.Rows {
		if a.Rows[i] != b.Rows[i] {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, a.Rows[i], b.Rows[i])
		}
	}
}

func TestValidateCSVBadHeader(t *testing.T) {
	for _, header := range []string{"Date,Value", "date;value", "date,value,extra", "value,date"} {
		_, err := ValidateCSV(header + "\n2024-01-01,1\n2024-01-02,2\n")
		if err == nil {
			t.Fatalf("header %q accepted", header)
		}
		if !strings.Contains(err.Error(), "Header must be exactly") {
			t.Fatalf("unexpected message for %q: %v", header, err)
		}
	}
}

func TestValidateCSVHeaderOnly(t *testing.T) {
	_, err := ValidateCSV("date,value\n")
	if err == nil || !strings.Contains(err.Error(), "at least one data row") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVEmptyValueCitesRow(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01,1\n2024-01-02,\n")
	if err == nil || !strings.Contains(err.Error(), "Row 2") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVMissingColumnCitesRow(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01\n")
	if err == nil || !strings.Contains(err.Error(), "Row 1: Missing required columns.") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVBadDateFormat(t *testing.T) {
	_, err := ValidateCSV("date,value\n01/02/2024,1\n2024-01-02,2\n")
	if err == nil || !strings.Contains(err.Error(), "Expected YYYY-MM-DD") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVImpossibleDate(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-02-30,1\n2024-03-01,2\n")
	if err == nil || !strings.Contains(err.Error(), `Invalid date "2024-02-30"`) {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVNonNumericValue(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01,abc\n2024-01-02,2\n")
	if err == nil || !strings.Contains(err.Error(), "not a finite number") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVInfiniteValueRejected(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01,Inf\n2024-01-02,2\n")
	if err == nil || !strings.Contains(err.Error(), "not a finite number") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVDuplicateDate(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01,1\n2024-01-01,2\n")
	if err == nil || !strings.Contains(err.Error(), "Duplicate date found in CSV: 2024-01-01") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVSingleRowCannotEstablishFrequency(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01,1\n")
	if err == nil || !strings.Contains(err.Error(), "at least 2 data points") {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidateCSVInconsistentIntervalNamesExpected(t *testing.T) {
	_, err := ValidateCSV("date,value\n2024-01-01,1\n2024-01-02,2\n2024-01-10,3\n")
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "consistent interval of 1 days") {
		t.Fatalf("expected established delta named, got: %v", err)
	}
	if !strings.Contains(msg, "1, 8") {
		t.Fatalf("expected offending deltas sampled, got: %v", err)
	}
}

func TestValidateCSVHandlesCRLF(t *testing.T) {
	res, err := ValidateCSV("date,value\r\n2024-01-01,1\r\n2024-01-02,2\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FrequencyDays != 1 {
		t.Fatalf("expected cadence 1, got %d", res.FrequencyDays)
	}
}
