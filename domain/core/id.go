package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DatasetName ID
	ChartID     ID
)

// String conversions for domain IDs
func (n DatasetName) String() string { return ID(n).String() }
func (c ChartID) String() string     { return ID(c).String() }

// ParseDatasetName parses a string into DatasetName
func ParseDatasetName(s string) (DatasetName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("dataset name cannot be empty")
	}
	return DatasetName(strings.ToLower(s)), nil
}

// ParseChartID parses a string into ChartID
func ParseChartID(s string) (ChartID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("chart ID cannot be empty")
	}
	return ChartID(strings.ToLower(s)), nil
}
