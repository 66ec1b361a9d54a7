package core

import (
	"errors"
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseDatasetName tests dataset name parsing
func TestParseDatasetName(t *testing.T) {
	tests := []struct {
		input    string
		expected DatasetName
		hasError bool
	}{
		{"global", DatasetName("global"), false},
		{"  Regional ", DatasetName("regional"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseDatasetName(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestParseChartID tests chart ID parsing
func TestParseChartID(t *testing.T) {
	tests := []struct {
		input    string
		expected ChartID
		hasError bool
	}{
		{"stress-pie", ChartID("stress-pie"), false},
		{"Tests-VS-Cases", ChartID("tests-vs-cases"), false},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := ParseChartID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestHashShort(t *testing.T) {
	h := NewHash([]byte("State,Confirmed\nGoa,10\n"))
	if len(h) != 64 {
		t.Fatalf("Expected 64 hex chars, got %d", len(h))
	}
	if len(h.Short()) != 12 {
		t.Errorf("Expected short hash of 12 chars, got %q", h.Short())
	}
	if !h.Equals(NewHash([]byte("State,Confirmed\nGoa,10\n"))) {
		t.Error("Expected identical content to hash identically")
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsNotFoundError(ErrUnknownChart) {
		t.Error("Expected unknown chart to be a not-found error")
	}
	if !IsInputError(ErrInvalidThresholds) {
		t.Error("Expected invalid thresholds to be an input error")
	}
	err := NewIngestionError("global", errors.New("boom"))
	if !errors.Is(err, ErrIngestion) {
		t.Errorf("Expected ingestion error, got %v", err)
	}
	if !IsStatisticalError(ErrDegenerateInput) {
		t.Error("Expected degenerate input to be statistical")
	}
}

// TestTimestampString tests RFC3339 formatting in the source zone
func TestTimestampString(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if got := ts.String(); got != "2026-03-01T12:00:00Z" {
		t.Errorf("Expected RFC3339 timestamp, got %q", got)
	}
	if !ts.Time().Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Error("Expected Time to return the wrapped value")
	}
}
